package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
)

type BroadcastHandler struct {
	broadcastUseCase *usecase.BroadcastUseCase
}

func NewBroadcastHandler(broadcastUseCase *usecase.BroadcastUseCase) *BroadcastHandler {
	return &BroadcastHandler{
		broadcastUseCase: broadcastUseCase,
	}
}

func (h *BroadcastHandler) List(c echo.Context) error {
	messages, err := h.broadcastUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *BroadcastHandler) MarkSeen(c echo.Context) error {
	messageID := c.Param("id")
	if messageID == "" {
		return response.Error(c, errors.BadRequest("Message ID is required", nil))
	}

	uid := c.Get("uid").(string)

	if err := h.broadcastUseCase.MarkSeen(c.Request().Context(), messageID, uid); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"seen": true})
}
