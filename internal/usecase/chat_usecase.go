package usecase

import (
	"context"
	"sort"
	"strings"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/ratelimit"
	"skillswap/internal/infrastructure/websocket"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	requestRepo repository.RequestRepository
	wsManager   *websocket.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	requestRepo repository.RequestRepository,
	wsManager *websocket.Manager,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		requestRepo: requestRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

// GetOrCreate returns the conversation for the pair, creating it when absent.
// The lookup and create are not wrapped in a transaction; a concurrent create
// for the same pair can race, and the loser's document becomes unreachable
// through the sorted-pair lookup. Accepted as-is for a two-party flow where
// both creates produce an equivalent conversation.
func (uc *ChatUseCase) GetOrCreate(ctx context.Context, userA, userB string) (*entity.Conversation, error) {
	participants := []string{userA, userB}
	sort.Strings(participants)

	conv, err := uc.chatRepo.GetByParticipants(ctx, participants)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	first, err := uc.userRepo.GetByID(ctx, participants[0])
	if err != nil {
		return nil, err
	}
	second, err := uc.userRepo.GetByID(ctx, participants[1])
	if err != nil {
		return nil, err
	}

	conv = &entity.Conversation{
		Participants:      participants,
		ParticipantNames:  []string{first.Name, second.Name},
		ParticipantPhotos: []string{first.ProfilePhotoURL, second.ProfilePhotoURL},
		UnreadCount: map[string]int{
			participants[0]: 0,
			participants[1]: 0,
		},
	}

	if err := uc.chatRepo.Create(ctx, conv); err != nil {
		return nil, err
	}

	return conv, nil
}

// StartConversation is the explicit user-initiated path into a chat. It
// requires an accepted swap between the pair; the request-accept flow calls
// GetOrCreate directly and skips this gate.
func (uc *ChatUseCase) StartConversation(ctx context.Context, userID, otherUserID string) (*entity.Conversation, error) {
	if userID == otherUserID {
		return nil, errors.BadRequest("You cannot start a conversation with yourself", nil)
	}

	if allowed, _ := uc.rateLimiter.Allow(userID, ratelimit.ActionCreateConversation); !allowed {
		return nil, errors.TooManyRequests("Too many new conversations, please wait")
	}

	accepted, err := uc.hasAcceptedBetween(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, errors.Forbidden("You can only chat after an accepted swap request", nil)
	}

	return uc.GetOrCreate(ctx, userID, otherUserID)
}

type SendMessageInput struct {
	ChatID  string
	Message string
}

// SendMessage persists the message, updates the conversation preview and the
// recipient's unread counter, and fans the event out over websocket. The
// counter update is a read-then-write, not a transactional increment; a
// concurrent send can lose one count. The unread badge self-heals on the next
// mark-read, so this is tolerated.
func (uc *ChatUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*entity.ChatMessage, error) {
	text := strings.TrimSpace(input.Message)
	if text == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}

	if allowed, _ := uc.rateLimiter.Allow(userID, ratelimit.ActionSendMessage); !allowed {
		return nil, errors.TooManyRequests("You are sending messages too quickly")
	}

	conv, err := uc.chatRepo.GetByID(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	message := &entity.ChatMessage{
		ChatID:      conv.ID,
		SenderID:    userID,
		SenderName:  sender.Name,
		SenderPhoto: sender.ProfilePhotoURL,
		Message:     text,
		IsRead:      false,
	}
	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	otherUserID := conv.OtherParticipant(userID)
	if err := uc.chatRepo.SetFields(ctx, conv.ID, map[string]interface{}{
		"lastMessage":                text,
		"lastMessageTime":            message.Timestamp,
		"lastMessageSender":          userID,
		"unreadCount." + otherUserID: conv.UnreadCount[otherUserID] + 1,
	}); err != nil {
		logger.Warn("Failed to update conversation %s after message %s: %v", conv.ID, message.ID, err)
	}

	newMessageEvent := websocket.NewEvent(websocket.EventNewMessage, message)
	newMessageEvent.ChatID = conv.ID
	uc.wsManager.SendToChatRoom(conv.ID, newMessageEvent, userID)

	updateEvent := websocket.NewEvent(websocket.EventConversationUpdate, map[string]interface{}{
		"chat_id":      conv.ID,
		"last_message": text,
		"sender_id":    userID,
	})
	updateEvent.ChatID = conv.ID
	uc.wsManager.SendToUser(otherUserID, updateEvent)

	return message, nil
}

// MarkRead flags every unread message from the other participant as read and
// zeroes the caller's unread counter.
func (uc *ChatUseCase) MarkRead(ctx context.Context, userID, chatID string) error {
	conv, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant in this conversation", nil)
	}

	unread, err := uc.chatRepo.ListUnreadMessages(ctx, chatID, userID)
	if err != nil {
		return err
	}
	for _, m := range unread {
		if err := uc.chatRepo.MarkMessageRead(ctx, m.ID); err != nil {
			logger.Warn("Failed to mark message %s as read: %v", m.ID, err)
		}
	}

	return uc.chatRepo.SetFields(ctx, chatID, map[string]interface{}{
		"unreadCount." + userID: 0,
	})
}

func (uc *ChatUseCase) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	return uc.chatRepo.ListByUserID(ctx, userID)
}

func (uc *ChatUseCase) GetConversation(ctx context.Context, userID, chatID string) (*entity.Conversation, error) {
	conv, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}
	return conv, nil
}

func (uc *ChatUseCase) ListMessages(ctx context.Context, userID, chatID string, limit int) ([]*entity.ChatMessage, error) {
	conv, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}
	return uc.chatRepo.ListMessages(ctx, chatID, limit)
}

// ListAllConversations returns every conversation for the admin moderation view.
func (uc *ChatUseCase) ListAllConversations(ctx context.Context) ([]*entity.Conversation, error) {
	return uc.chatRepo.ListAll(ctx)
}

// ListAllMessages returns every message across all chats, newest first.
func (uc *ChatUseCase) ListAllMessages(ctx context.Context) ([]*entity.ChatMessage, error) {
	return uc.chatRepo.ListAllMessages(ctx)
}

func (uc *ChatUseCase) hasAcceptedBetween(ctx context.Context, userA, userB string) (bool, error) {
	n, err := uc.requestRepo.CountAccepted(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	n, err = uc.requestRepo.CountAccepted(ctx, userB, userA)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
