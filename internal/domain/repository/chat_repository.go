package repository

import (
	"context"

	"skillswap/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, conv *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)

	// GetByParticipants looks up the conversation whose sorted participant
	// pair equals the given pair. Returns a NOT_FOUND AppError when absent.
	GetByParticipants(ctx context.Context, participants []string) (*entity.Conversation, error)

	ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error)
	ListAll(ctx context.Context) ([]*entity.Conversation, error)
	Update(ctx context.Context, conv *entity.Conversation) error
	SetFields(ctx context.Context, id string, fields map[string]interface{}) error

	// Message methods
	CreateMessage(ctx context.Context, message *entity.ChatMessage) error
	ListMessages(ctx context.Context, chatID string, limit int) ([]*entity.ChatMessage, error)
	ListAllMessages(ctx context.Context) ([]*entity.ChatMessage, error)

	// ListUnreadMessages returns unread messages in the chat that were not
	// authored by userID.
	ListUnreadMessages(ctx context.Context, chatID, userID string) ([]*entity.ChatMessage, error)
	MarkMessageRead(ctx context.Context, messageID string) error

	// Live subscriptions. Callbacks fire with full snapshots, not diffs, on
	// an internal goroutine; the returned func cancels the stream.
	SubscribeConversations(ctx context.Context, userID string, onChange func([]*entity.Conversation)) (func(), error)
	SubscribeMessages(ctx context.Context, chatID string, onChange func([]*entity.ChatMessage)) (func(), error)
}
