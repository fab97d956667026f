package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/domain/entity"
	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
	"skillswap/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	Name          string              `json:"name" validate:"omitempty,min=2"`
	Location      *string             `json:"location"`
	SkillsOffered []string            `json:"skills_offered" validate:"omitempty,dive,min=1"`
	SkillsWanted  []string            `json:"skills_wanted" validate:"omitempty,dive,min=1"`
	Availability  string              `json:"availability" validate:"omitempty,oneof=Weekends Evenings Weekdays"`
	Visibility    string              `json:"visibility" validate:"omitempty,oneof=public private"`
	ContactInfo   *entity.ContactInfo `json:"contact_info"`
}

type uploadPhotoRequest struct {
	Image string `json:"image" validate:"required"`
}

type addFeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, usecase.UpdateProfileInput{
		Name:          req.Name,
		Location:      req.Location,
		SkillsOffered: req.SkillsOffered,
		SkillsWanted:  req.SkillsWanted,
		Availability:  req.Availability,
		Visibility:    req.Visibility,
		ContactInfo:   req.ContactInfo,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	targetID := c.Param("id")
	if targetID == "" {
		return response.Error(c, errors.BadRequest("User ID is required", nil))
	}

	uid := c.Get("uid").(string)

	user, err := h.userUseCase.GetVisibleProfile(c.Request().Context(), uid, targetID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// ListUsers is the public directory: visible profiles excluding the viewer,
// filtered by skill and availability, paginated client-side since the whole
// directory is small.
func (h *UserHandler) ListUsers(c echo.Context) error {
	uid := c.Get("uid").(string)

	users, err := h.userUseCase.ListPublicUsers(c.Request().Context(), uid, usecase.SearchInput{
		Skill:        c.QueryParam("skill"),
		Availability: c.QueryParam("availability"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	params := utils.GetPaginationParams(c)
	start, end := params.Bounds(len(users))

	return response.Paginated(c, users[start:end], len(users), params.Page, params.PageSize)
}

func (h *UserHandler) UploadPhoto(c echo.Context) error {
	var req uploadPhotoRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	url, err := h.userUseCase.UploadProfilePhoto(c.Request().Context(), uid, req.Image)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"profile_photo_url": url,
	})
}

func (h *UserHandler) AddFeedback(c echo.Context) error {
	targetID := c.Param("id")
	if targetID == "" {
		return response.Error(c, errors.BadRequest("User ID is required", nil))
	}

	var req addFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	user, err := h.userUseCase.AddFeedback(c.Request().Context(), uid, usecase.AddFeedbackInput{
		TargetUserID: targetID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, user)
}
