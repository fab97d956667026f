package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	adminHandler := handler.GetAdminHandler()

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id/ban", adminHandler.BanUser)
	admin.PUT("/users/:id/unban", adminHandler.UnbanUser)
	admin.GET("/requests", adminHandler.ListRequests)
	admin.GET("/chats", adminHandler.ListConversations)
	admin.GET("/messages", adminHandler.ListMessages)
	admin.POST("/broadcasts", adminHandler.CreateBroadcast)
}
