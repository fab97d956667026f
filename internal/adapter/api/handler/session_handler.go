package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/domain/navigation"
	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
	"skillswap/pkg/response"
)

// SessionHandler resolves "where should this client land". It works for
// signed-out and banned callers too, which is why it sits outside the banned
// middleware.
type SessionHandler struct {
	authUseCase         *usecase.AuthUseCase
	notificationUseCase *usecase.NotificationUseCase
}

func NewSessionHandler(authUseCase *usecase.AuthUseCase, notificationUseCase *usecase.NotificationUseCase) *SessionHandler {
	return &SessionHandler{
		authUseCase:         authUseCase,
		notificationUseCase: notificationUseCase,
	}
}

type sessionResponse struct {
	Authenticated bool                        `json:"authenticated"`
	Page          navigation.Page             `json:"page"`
	User          interface{}                 `json:"user,omitempty"`
	Counts        *usecase.NotificationCounts `json:"counts,omitempty"`
}

func (h *SessionHandler) GetSession(c echo.Context) error {
	current := navigation.Page(c.QueryParam("page"))
	if current == "" {
		current = navigation.PageLoading
	}

	uid, authenticated := c.Get("uid").(string)
	if !authenticated {
		return response.Success(c, sessionResponse{
			Authenticated: false,
			Page: navigation.Resolve(current, navigation.Session{
				AuthResolved: true,
			}),
		})
	}

	user, err := h.authUseCase.GetUserByID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			// Authenticated with the provider but no profile document yet;
			// treat as incomplete so the client lands on profile completion.
			return response.Success(c, sessionResponse{
				Authenticated: true,
				Page: navigation.Resolve(current, navigation.Session{
					AuthResolved:  true,
					Authenticated: true,
				}),
			})
		}
		return response.Error(c, err)
	}

	session := navigation.Session{
		AuthResolved:    true,
		Authenticated:   true,
		Banned:          user.IsBanned,
		ProfileComplete: user.IsProfileComplete,
		Role:            user.Role,
	}

	resp := sessionResponse{
		Authenticated: true,
		Page:          navigation.Resolve(current, session),
		User:          user,
	}

	if !user.IsBanned {
		counts, err := h.notificationUseCase.Counts(c.Request().Context(), uid)
		if err != nil {
			logger.Warn("Failed to compute notification counts for %s: %v", uid, err)
		} else {
			resp.Counts = counts
		}
	}

	return response.Success(c, resp)
}
