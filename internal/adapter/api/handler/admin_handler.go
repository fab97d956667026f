package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
)

// AdminHandler backs the moderation panel: user bans, request and
// conversation audit views, and platform announcements.
type AdminHandler struct {
	userUseCase      *usecase.UserUseCase
	requestUseCase   *usecase.RequestUseCase
	chatUseCase      *usecase.ChatUseCase
	broadcastUseCase *usecase.BroadcastUseCase
}

func NewAdminHandler(
	userUseCase *usecase.UserUseCase,
	requestUseCase *usecase.RequestUseCase,
	chatUseCase *usecase.ChatUseCase,
	broadcastUseCase *usecase.BroadcastUseCase,
) *AdminHandler {
	return &AdminHandler{
		userUseCase:      userUseCase,
		requestUseCase:   requestUseCase,
		chatUseCase:      chatUseCase,
		broadcastUseCase: broadcastUseCase,
	}
}

type createBroadcastRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.userUseCase.ListAllUsers(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}

func (h *AdminHandler) BanUser(c echo.Context) error {
	return h.setBanned(c, true)
}

func (h *AdminHandler) UnbanUser(c echo.Context) error {
	return h.setBanned(c, false)
}

func (h *AdminHandler) setBanned(c echo.Context, banned bool) error {
	targetID := c.Param("id")
	if targetID == "" {
		return response.Error(c, errors.BadRequest("User ID is required", nil))
	}

	if err := h.userUseCase.SetBanned(c.Request().Context(), targetID, banned); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"banned": banned})
}

func (h *AdminHandler) ListRequests(c echo.Context) error {
	requests, err := h.requestUseCase.ListAll(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}

func (h *AdminHandler) ListConversations(c echo.Context) error {
	convs, err := h.chatUseCase.ListAllConversations(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, convs)
}

func (h *AdminHandler) ListMessages(c echo.Context) error {
	messages, err := h.chatUseCase.ListAllMessages(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *AdminHandler) CreateBroadcast(c echo.Context) error {
	var req createBroadcastRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	message, err := h.broadcastUseCase.Create(c.Request().Context(), uid, req.Message)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}
