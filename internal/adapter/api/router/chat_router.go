package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler, authMiddleware *middleware.AuthMiddleware, bannedMiddleware *middleware.BannedMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)
	chats.Use(bannedMiddleware.RejectBanned)

	chats.POST("", chatHandler.StartConversation)
	chats.GET("", chatHandler.ListConversations)
	chats.GET("/:id", chatHandler.GetConversation)
	chats.GET("/:id/messages", chatHandler.ListMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.PUT("/:id/read", chatHandler.MarkRead)

	// Token auth happens inside the handler; the handshake cannot carry a
	// bearer header from a browser.
	e.GET("/ws/chat", wsHandler.HandleWebSocket)
}
