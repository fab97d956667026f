package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

func SetupRequestRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, bannedMiddleware *middleware.BannedMiddleware) {
	requestHandler := handler.GetRequestHandler()

	requests := e.Group("/v1/requests")
	requests.Use(authMiddleware.Authenticate)
	requests.Use(bannedMiddleware.RejectBanned)

	requests.POST("", requestHandler.Create)
	requests.GET("/received", requestHandler.ListReceived)
	requests.GET("/sent", requestHandler.ListSent)
	requests.PUT("/:id/status", requestHandler.SetStatus)
	requests.PUT("/:id/read", requestHandler.MarkRead)
	requests.GET("/accepted-with/:userId", requestHandler.AcceptedWith)
}
