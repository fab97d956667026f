package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
)

type RequestHandler struct {
	requestUseCase *usecase.RequestUseCase
}

func NewRequestHandler(requestUseCase *usecase.RequestUseCase) *RequestHandler {
	return &RequestHandler{
		requestUseCase: requestUseCase,
	}
}

type createSwapRequest struct {
	ToUserID     string `json:"to_user_id" validate:"required"`
	OfferedSkill string `json:"offered_skill" validate:"required,min=1"`
	WantedSkill  string `json:"wanted_skill" validate:"required,min=1"`
	Message      string `json:"message" validate:"omitempty,max=1000"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

func (h *RequestHandler) Create(c echo.Context) error {
	var req createSwapRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	request, err := h.requestUseCase.Create(c.Request().Context(), uid, usecase.CreateRequestInput{
		ToUserID:     req.ToUserID,
		OfferedSkill: req.OfferedSkill,
		WantedSkill:  req.WantedSkill,
		Message:      req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, request)
}

func (h *RequestHandler) ListReceived(c echo.Context) error {
	uid := c.Get("uid").(string)

	requests, err := h.requestUseCase.ListReceived(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}

func (h *RequestHandler) ListSent(c echo.Context) error {
	uid := c.Get("uid").(string)

	requests, err := h.requestUseCase.ListSent(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}

func (h *RequestHandler) SetStatus(c echo.Context) error {
	requestID := c.Param("id")
	if requestID == "" {
		return response.Error(c, errors.BadRequest("Request ID is required", nil))
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	request, err := h.requestUseCase.SetStatus(c.Request().Context(), uid, requestID, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, request)
}

func (h *RequestHandler) MarkRead(c echo.Context) error {
	requestID := c.Param("id")
	if requestID == "" {
		return response.Error(c, errors.BadRequest("Request ID is required", nil))
	}

	uid := c.Get("uid").(string)

	if err := h.requestUseCase.MarkRead(c.Request().Context(), uid, requestID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"read": true})
}

// AcceptedWith reports whether the caller has an accepted swap with the given
// user, in either direction. Clients gate the "message" button on this.
func (h *RequestHandler) AcceptedWith(c echo.Context) error {
	otherID := c.Param("userId")
	if otherID == "" {
		return response.Error(c, errors.BadRequest("User ID is required", nil))
	}

	uid := c.Get("uid").(string)

	accepted, err := h.requestUseCase.HasAcceptedRequest(c.Request().Context(), uid, otherID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"accepted": accepted})
}
