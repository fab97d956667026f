package repository

import (
	"context"
	"log"
	"sort"
	"time"

	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) Create(ctx context.Context, conv *entity.Conversation) error {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}

	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now

	if _, err := r.client.Collection("chats").Doc(conv.ID).Set(ctx, conv); err != nil {
		return errors.Internal("Failed to create conversation", err)
	}
	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conv entity.Conversation
	if err := doc.DataTo(&conv); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	conv.ID = doc.Ref.ID

	return &conv, nil
}

func (r *firestoreChatRepository) GetByParticipants(ctx context.Context, participants []string) (*entity.Conversation, error) {
	// Equality on the sorted participant array is the uniqueness key for a
	// pair. There is no transactional guard around the subsequent create.
	iter := r.client.Collection("chats").Where("participants", "==", participants).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Conversation", nil)
		}
		return nil, errors.Internal("Failed to query conversation by participants", err)
	}

	var conv entity.Conversation
	if err := doc.DataTo(&conv); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	conv.ID = doc.Ref.ID

	return &conv, nil
}

func (r *firestoreChatRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	query := r.client.Collection("chats").Where("participants", "array-contains", userID)

	convs, err := r.collectConversations(query.Documents(ctx))
	if err != nil {
		return nil, err
	}
	sortConversationsByUpdatedAtDesc(convs)

	return convs, nil
}

func (r *firestoreChatRepository) ListAll(ctx context.Context) ([]*entity.Conversation, error) {
	convs, err := r.collectConversations(r.client.Collection("chats").Documents(ctx))
	if err != nil {
		return nil, err
	}
	sortConversationsByUpdatedAtDesc(convs)

	return convs, nil
}

func (r *firestoreChatRepository) Update(ctx context.Context, conv *entity.Conversation) error {
	conv.UpdatedAt = time.Now()

	if _, err := r.client.Collection("chats").Doc(conv.ID).Set(ctx, conv); err != nil {
		return errors.Internal("Failed to update conversation", err)
	}
	return nil
}

func (r *firestoreChatRepository) SetFields(ctx context.Context, id string, fields map[string]interface{}) error {
	// Dotted keys like unreadCount.<uid> must address the nested map entry.
	// Only Update parses dotted strings as field paths; Set with MergeAll
	// would write a literal top-level field named "unreadCount.<uid>".
	_, err := r.client.Collection("chats").Doc(id).Update(ctx, conversationUpdates(fields))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Conversation", err)
		}
		return errors.Internal("Failed to update conversation", err)
	}
	return nil
}

func conversationUpdates(fields map[string]interface{}) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for key, value := range fields {
		updates = append(updates, firestore.Update{Path: key, Value: value})
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})
	return updates
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	if _, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message); err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, chatID string, limit int) ([]*entity.ChatMessage, error) {
	query := r.client.Collection("messages").
		Where("chatId", "==", chatID).
		OrderBy("timestamp", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	messages, err := r.collectMessages(query.Documents(ctx))
	if err != nil {
		return nil, err
	}

	// Chronological order for rendering; the query is newest-first so the
	// limit keeps the most recent page.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *firestoreChatRepository) ListAllMessages(ctx context.Context) ([]*entity.ChatMessage, error) {
	query := r.client.Collection("messages").OrderBy("timestamp", firestore.Desc)
	return r.collectMessages(query.Documents(ctx))
}

func (r *firestoreChatRepository) ListUnreadMessages(ctx context.Context, chatID, userID string) ([]*entity.ChatMessage, error) {
	// A != filter on senderId would need a composite index alongside the
	// chatId equality, so the sender check happens here.
	query := r.client.Collection("messages").
		Where("chatId", "==", chatID).
		Where("isRead", "==", false)

	all, err := r.collectMessages(query.Documents(ctx))
	if err != nil {
		return nil, err
	}

	var messages []*entity.ChatMessage
	for _, m := range all {
		if m.SenderID != userID {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

func (r *firestoreChatRepository) MarkMessageRead(ctx context.Context, messageID string) error {
	if _, err := r.client.Collection("messages").Doc(messageID).Set(ctx, map[string]interface{}{
		"isRead": true,
	}, firestore.MergeAll); err != nil {
		return errors.Internal("Failed to mark message as read", err)
	}
	return nil
}

func (r *firestoreChatRepository) SubscribeConversations(ctx context.Context, userID string, onChange func([]*entity.Conversation)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	query := r.client.Collection("chats").Where("participants", "array-contains", userID)
	snapshots := query.Snapshots(ctx)

	go func() {
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Conversation snapshot stream for user %s ended: %v", userID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Printf("Failed to read conversation snapshot for user %s: %v", userID, err)
				continue
			}

			var convs []*entity.Conversation
			for _, doc := range docs {
				var conv entity.Conversation
				if err := doc.DataTo(&conv); err != nil {
					continue
				}
				conv.ID = doc.Ref.ID
				convs = append(convs, &conv)
			}
			sortConversationsByUpdatedAtDesc(convs)

			onChange(convs)
		}
	}()

	return cancel, nil
}

func (r *firestoreChatRepository) SubscribeMessages(ctx context.Context, chatID string, onChange func([]*entity.ChatMessage)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	query := r.client.Collection("messages").
		Where("chatId", "==", chatID).
		OrderBy("timestamp", firestore.Asc)
	snapshots := query.Snapshots(ctx)

	go func() {
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Message snapshot stream for chat %s ended: %v", chatID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Printf("Failed to read message snapshot for chat %s: %v", chatID, err)
				continue
			}

			var messages []*entity.ChatMessage
			for _, doc := range docs {
				var message entity.ChatMessage
				if err := doc.DataTo(&message); err != nil {
					continue
				}
				message.ID = doc.Ref.ID
				messages = append(messages, &message)
			}

			onChange(messages)
		}
	}()

	return cancel, nil
}

func (r *firestoreChatRepository) collectConversations(iter *firestore.DocumentIterator) ([]*entity.Conversation, error) {
	var convs []*entity.Conversation
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate conversations", err)
		}

		var conv entity.Conversation
		if err := doc.DataTo(&conv); err != nil {
			log.Printf("Skipping malformed conversation document %s: %v", doc.Ref.ID, err)
			continue
		}
		conv.ID = doc.Ref.ID
		convs = append(convs, &conv)
	}
	return convs, nil
}

func (r *firestoreChatRepository) collectMessages(iter *firestore.DocumentIterator) ([]*entity.ChatMessage, error) {
	var messages []*entity.ChatMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.ChatMessage
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Skipping malformed message document %s: %v", doc.Ref.ID, err)
			continue
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}
	return messages, nil
}

func sortConversationsByUpdatedAtDesc(convs []*entity.Conversation) {
	// array-contains plus orderBy needs a composite index, so ordering is
	// done client-side.
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
}
