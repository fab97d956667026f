package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type startConversationRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type sendMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

func (h *ChatHandler) StartConversation(c echo.Context) error {
	var req startConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	conv, err := h.chatUseCase.StartConversation(c.Request().Context(), uid, req.UserID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, conv)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	uid := c.Get("uid").(string)

	convs, err := h.chatUseCase.ListConversations(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, convs)
}

func (h *ChatHandler) GetConversation(c echo.Context) error {
	chatID := c.Param("id")
	if chatID == "" {
		return response.Error(c, errors.BadRequest("Chat ID is required", nil))
	}

	uid := c.Get("uid").(string)

	conv, err := h.chatUseCase.GetConversation(c.Request().Context(), uid, chatID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conv)
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	chatID := c.Param("id")
	if chatID == "" {
		return response.Error(c, errors.BadRequest("Chat ID is required", nil))
	}

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return response.Error(c, errors.BadRequest("Invalid limit value", nil))
		}
	}

	uid := c.Get("uid").(string)

	messages, err := h.chatUseCase.ListMessages(c.Request().Context(), uid, chatID, limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	chatID := c.Param("id")
	if chatID == "" {
		return response.Error(c, errors.BadRequest("Chat ID is required", nil))
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), uid, usecase.SendMessageInput{
		ChatID:  chatID,
		Message: req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	chatID := c.Param("id")
	if chatID == "" {
		return response.Error(c, errors.BadRequest("Chat ID is required", nil))
	}

	uid := c.Get("uid").(string)

	if err := h.chatUseCase.MarkRead(c.Request().Context(), uid, chatID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"read": true})
}
