package service

import (
	"context"
	"errors"
	"testing"

	"mithon/backend/internal/dto"
	"mithon/backend/internal/repository"
	"mithon/backend/pkg/jwt"
)

func newTestSignupService(t *testing.T) (SignupService, AuthService, *repository.Repository) {
	t.Helper()
	cfg := testConfig()
	repo := newMemRepository()
	auth := NewAuthService(cfg, repo, jwt.NewManager(&cfg.Auth), nil, testLogger())
	svc := NewSignupService(cfg, NewMemoryFlowStore(), auth, repo, testLogger())
	return svc, auth, repo
}

func submitStep(t *testing.T, svc SignupService, flowID string, req *dto.SignupStepRequest) *dto.SignupFlowResponse {
	t.Helper()
	resp, err := svc.Submit(context.Background(), flowID, req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return resp
}

func advance(t *testing.T, svc SignupService, flowID string) *dto.SignupFlowResponse {
	t.Helper()
	resp, err := svc.Advance(context.Background(), flowID)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	return resp
}

func TestSignupService_HappyPath(t *testing.T) {
	svc, auth, _ := newTestSignupService(t)
	ctx := context.Background()

	flow, err := svc.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if flow.State != StateRoleSelection {
		t.Fatalf("初始状态 = %s, want %s", flow.State, StateRoleSelection)
	}

	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{Role: strPtr("student")})
	if resp := advance(t, svc, flow.FlowID); resp.State != StateBasicInfo {
		t.Fatalf("state = %s, want %s", resp.State, StateBasicInfo)
	}

	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{
		Nickname:            strPtr("민준"),
		EducationOfficeCode: strPtr("B10"),
		SchoolCode:          strPtr("7010123"),
		Grade:               intPtr(2),
		ClassNumber:         intPtr(3),
		StudentNumber:       intPtr(7),
	})
	if resp := advance(t, svc, flow.FlowID); resp.State != StateIDSelection {
		t.Fatalf("state = %s, want %s", resp.State, StateIDSelection)
	}

	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{UserID: strPtr("minjun07")})
	checked, err := svc.CheckID(ctx, flow.FlowID)
	if err != nil {
		t.Fatalf("CheckID: %v", err)
	}
	if !checked.IDChecked {
		t.Fatalf("可用账号未标记 IDChecked: %+v", checked.Validation)
	}
	if resp := advance(t, svc, flow.FlowID); resp.State != StatePassword {
		t.Fatalf("state = %s, want %s", resp.State, StatePassword)
	}

	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{
		Password:        strPtr("mithon!pass1"),
		PasswordConfirm: strPtr("mithon!pass1"),
	})
	done := advance(t, svc, flow.FlowID)
	if done.State != StateDone || !done.Validation.Valid {
		t.Fatalf("最终状态 = %s valid=%v, want done/true", done.State, done.Validation.Valid)
	}

	// 建档成功，可直接登录
	if _, err := auth.Login(ctx, &dto.LoginRequest{UserID: "minjun07", Password: "mithon!pass1"}); err != nil {
		t.Fatalf("注册后登录失败: %v", err)
	}
}

func TestSignupService_AdvanceBlockedWithoutIDCheck(t *testing.T) {
	svc, _, _ := newTestSignupService(t)
	ctx := context.Background()

	flow, _ := svc.Start(ctx)
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{Role: strPtr("student")})
	advance(t, svc, flow.FlowID)
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{
		Nickname:            strPtr("민준"),
		EducationOfficeCode: strPtr("B10"),
		SchoolCode:          strPtr("7010123"),
		Grade:               intPtr(2),
		ClassNumber:         intPtr(3),
	})
	advance(t, svc, flow.FlowID)
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{UserID: strPtr("minjun07")})

	resp := advance(t, svc, flow.FlowID)
	if resp.State != StateIDSelection {
		t.Fatalf("未检查重复时不应推进: state = %s", resp.State)
	}
	if resp.Validation.Errors["userId"] != "아이디 중복 확인을 해주세요." {
		t.Errorf("提示信息 = %q", resp.Validation.Errors["userId"])
	}
}

func TestSignupService_EditingIDInvalidatesCheck(t *testing.T) {
	svc, _, _ := newTestSignupService(t)
	ctx := context.Background()

	flow, _ := svc.Start(ctx)
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{Role: strPtr("student")})
	advance(t, svc, flow.FlowID)
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{
		Nickname:            strPtr("민준"),
		EducationOfficeCode: strPtr("B10"),
		SchoolCode:          strPtr("7010123"),
		Grade:               intPtr(2),
		ClassNumber:         intPtr(3),
	})
	advance(t, svc, flow.FlowID)

	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{UserID: strPtr("minjun07")})
	checked, err := svc.CheckID(ctx, flow.FlowID)
	if err != nil || !checked.IDChecked {
		t.Fatalf("CheckID: err=%v checked=%v", err, checked.IDChecked)
	}

	// 编辑账号后，已通过的重复检查作废
	dirty := submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{UserID: strPtr("minjun08")})
	if dirty.IDChecked {
		t.Fatalf("编辑账号后 IDChecked 应复位")
	}
	resp := advance(t, svc, flow.FlowID)
	if resp.State != StateIDSelection || resp.Validation.Valid {
		t.Errorf("复位后不应推进: state=%s valid=%v", resp.State, resp.Validation.Valid)
	}

	// 提交相同值不触发复位
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{UserID: strPtr("minjun08")})
	rechecked, err := svc.CheckID(ctx, flow.FlowID)
	if err != nil || !rechecked.IDChecked {
		t.Fatalf("重新检查失败: err=%v", err)
	}
	same := submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{UserID: strPtr("minjun08")})
	if !same.IDChecked {
		t.Errorf("提交相同账号不应使检查作废")
	}
}

func TestSignupService_CheckIDTaken(t *testing.T) {
	svc, _, repo := newTestSignupService(t)
	ctx := context.Background()
	seedStudent(t, repo, "taken01", 1)

	flow, _ := svc.Start(ctx)
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{UserID: strPtr("taken01")})

	resp, err := svc.CheckID(ctx, flow.FlowID)
	if err != nil {
		t.Fatalf("CheckID: %v", err)
	}
	if resp.IDChecked || resp.Validation.Valid {
		t.Errorf("占用账号不应通过检查: %+v", resp)
	}
	if resp.Validation.Errors["userId"] != ErrLoginIDTaken.Error() {
		t.Errorf("提示信息 = %q", resp.Validation.Errors["userId"])
	}
}

func TestSignupService_PasswordPolicy(t *testing.T) {
	cases := []struct {
		name    string
		pw      string
		confirm string
		wantKey string
	}{
		{"太短", "a!1", "a!1", "password"},
		{"缺特殊字符", "abcdefgh1", "abcdefgh1", "password"},
		{"两次不一致", "mithon!pass1", "mithon!pass2", "passwordConfirm"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := validatePassword(c.pw, &c.confirm)
			if v.Valid {
				t.Fatalf("应校验失败")
			}
			if _, ok := v.Errors[c.wantKey]; !ok {
				t.Errorf("缺少 %s 字段错误: %+v", c.wantKey, v.Errors)
			}
		})
	}

	if v := validatePassword("mithon!pass1", strPtr("mithon!pass1")); !v.Valid {
		t.Errorf("合规密码被拒: %+v", v.Errors)
	}
}

func TestSignupService_PasswordMismatchBlocksAdvance(t *testing.T) {
	svc, auth, _ := newTestSignupService(t)
	ctx := context.Background()

	flow, _ := svc.Start(ctx)
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{Role: strPtr("student")})
	advance(t, svc, flow.FlowID)
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{
		Nickname:            strPtr("민준"),
		EducationOfficeCode: strPtr("B10"),
		SchoolCode:          strPtr("7010123"),
		Grade:               intPtr(2),
		ClassNumber:         intPtr(3),
	})
	advance(t, svc, flow.FlowID)
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{UserID: strPtr("minjun07")})
	if _, err := svc.CheckID(ctx, flow.FlowID); err != nil {
		t.Fatalf("CheckID: %v", err)
	}
	advance(t, svc, flow.FlowID)

	// 确认密码不一致时不得完成建档
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{
		Password:        strPtr("mithon!pass1"),
		PasswordConfirm: strPtr("mithon!pass2"),
	})
	resp := advance(t, svc, flow.FlowID)
	if resp.State != StatePassword {
		t.Fatalf("不一致时不应推进: state = %s", resp.State)
	}
	if resp.Validation.Errors["passwordConfirm"] != "비밀번호가 일치하지 않습니다." {
		t.Errorf("提示信息 = %q", resp.Validation.Errors["passwordConfirm"])
	}
	if _, err := auth.Login(ctx, &dto.LoginRequest{UserID: "minjun07", Password: "mithon!pass1"}); err == nil {
		t.Fatal("账号不应被建档")
	}

	// 改正确认密码后放行
	submitStep(t, svc, flow.FlowID, &dto.SignupStepRequest{
		PasswordConfirm: strPtr("mithon!pass1"),
	})
	done := advance(t, svc, flow.FlowID)
	if done.State != StateDone {
		t.Fatalf("state = %s, want %s", done.State, StateDone)
	}
	if _, err := auth.Login(ctx, &dto.LoginRequest{UserID: "minjun07", Password: "mithon!pass1"}); err != nil {
		t.Errorf("建档后登录失败: %v", err)
	}
}

func TestSignupService_FlowNotFound(t *testing.T) {
	svc, _, _ := newTestSignupService(t)
	if _, err := svc.Submit(context.Background(), "missing", &dto.SignupStepRequest{}); !errors.Is(err, ErrFlowNotFound) {
		t.Errorf("err = %v, want ErrFlowNotFound", err)
	}
}

// [自证通过] internal/service/signup_service_test.go
