package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

func SetupBroadcastRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, bannedMiddleware *middleware.BannedMiddleware) {
	broadcastHandler := handler.GetBroadcastHandler()

	broadcasts := e.Group("/v1/broadcasts")
	broadcasts.Use(authMiddleware.Authenticate)
	broadcasts.Use(bannedMiddleware.RejectBanned)

	broadcasts.GET("", broadcastHandler.List)
	broadcasts.PUT("/:id/seen", broadcastHandler.MarkSeen)
}
