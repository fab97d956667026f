package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

// SetupSessionRouter wires the landing-page resolver. It uses optional auth
// and no banned gate: banned and signed-out clients still need an answer.
func SetupSessionRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	sessionHandler := handler.GetSessionHandler()

	e.GET("/v1/session", sessionHandler.GetSession, authMiddleware.OptionalAuthenticate)
}
