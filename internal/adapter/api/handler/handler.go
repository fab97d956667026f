package handler

import (
	"skillswap/internal/usecase"
)

var (
	authHandler      *AuthHandler
	userHandler      *UserHandler
	requestHandler   *RequestHandler
	chatHandler      *ChatHandler
	broadcastHandler *BroadcastHandler
	adminHandler     *AdminHandler
	sessionHandler   *SessionHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	requestUseCase *usecase.RequestUseCase,
	chatUseCase *usecase.ChatUseCase,
	broadcastUseCase *usecase.BroadcastUseCase,
	notificationUseCase *usecase.NotificationUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	requestHandler = NewRequestHandler(requestUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	broadcastHandler = NewBroadcastHandler(broadcastUseCase)
	adminHandler = NewAdminHandler(userUseCase, requestUseCase, chatUseCase, broadcastUseCase)
	sessionHandler = NewSessionHandler(authUseCase, notificationUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetRequestHandler() *RequestHandler {
	return requestHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetBroadcastHandler() *BroadcastHandler {
	return broadcastHandler
}

func GetAdminHandler() *AdminHandler {
	return adminHandler
}

func GetSessionHandler() *SessionHandler {
	return sessionHandler
}
