package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
)

// BannedMiddleware rejects suspended accounts on every authenticated route.
// The session endpoint skips it so a banned client can still resolve its
// landing page.
type BannedMiddleware struct {
	userRepo repository.UserRepository
}

func NewBannedMiddleware(userRepo repository.UserRepository) *BannedMiddleware {
	return &BannedMiddleware{
		userRepo: userRepo,
	}
}

func (m *BannedMiddleware) RejectBanned(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			return response.Error(c, err)
		}

		if user.IsBanned {
			return response.Error(c, errors.Banned())
		}

		return next(c)
	}
}
