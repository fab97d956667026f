package usecase

import (
	"context"
	"sync"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/websocket"
	"skillswap/pkg/logger"
)

// ChatStreamer attaches a message snapshot stream to each chat room a client
// joins, so the client receives the current history plus every later write
// without polling. Wire Join and Leave to the manager's room callbacks and
// StopAll to OnDisconnect.
type ChatStreamer struct {
	chatRepo  repository.ChatRepository
	wsManager *websocket.Manager

	mutex   sync.Mutex
	streams map[string]map[string]func() // userID -> chatID -> cancel
}

func NewChatStreamer(chatRepo repository.ChatRepository, wsManager *websocket.Manager) *ChatStreamer {
	return &ChatStreamer{
		chatRepo:  chatRepo,
		wsManager: wsManager,
		streams:   make(map[string]map[string]func()),
	}
}

// Join starts streaming the chat's messages to the user. Non-participants
// are ignored; joining the room alone does not grant message access.
func (s *ChatStreamer) Join(ctx context.Context, userID, chatID string) {
	conv, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		logger.Warn("Cannot stream chat %s for user %s: %v", chatID, userID, err)
		return
	}
	if !conv.HasParticipant(userID) {
		return
	}

	cancel, err := s.chatRepo.SubscribeMessages(ctx, chatID, func(messages []*entity.ChatMessage) {
		event := websocket.NewEvent(websocket.EventMessageSnapshot, messages)
		event.ChatID = chatID
		s.wsManager.SendToUser(userID, event)
	})
	if err != nil {
		logger.Warn("Failed to subscribe to messages for chat %s: %v", chatID, err)
		return
	}

	s.mutex.Lock()
	if s.streams[userID] == nil {
		s.streams[userID] = make(map[string]func())
	}
	if prev, ok := s.streams[userID][chatID]; ok {
		prev()
	}
	s.streams[userID][chatID] = cancel
	s.mutex.Unlock()
}

// Leave cancels the user's stream for the chat.
func (s *ChatStreamer) Leave(userID, chatID string) {
	s.mutex.Lock()
	cancel, ok := s.streams[userID][chatID]
	if ok {
		delete(s.streams[userID], chatID)
		if len(s.streams[userID]) == 0 {
			delete(s.streams, userID)
		}
	}
	s.mutex.Unlock()

	if ok {
		cancel()
	}
}

// StopAll cancels every stream the user holds. Called on disconnect.
func (s *ChatStreamer) StopAll(userID string) {
	s.mutex.Lock()
	cancels := s.streams[userID]
	delete(s.streams, userID)
	s.mutex.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
