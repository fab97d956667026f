package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"skillswap/internal/domain/entity"
	"skillswap/internal/infrastructure/ratelimit"
	"skillswap/internal/infrastructure/websocket"
)

func newChatFixture(t *testing.T) (*ChatUseCase, *fakeChatRepo, *fakeRequestRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	requestRepo := newFakeRequestRepo()
	chatRepo := newFakeChatRepo()

	chats := NewChatUseCase(chatRepo, userRepo, requestRepo, websocket.NewManager(), ratelimit.NewRateLimiter())

	seedUser(t, userRepo, "alice", "Alice")
	seedUser(t, userRepo, "bob", "Bob")
	seedUser(t, userRepo, "carol", "Carol")

	return chats, chatRepo, requestRepo
}

func acceptedRequestBetween(t *testing.T, repo *fakeRequestRepo, from, to string) {
	t.Helper()
	assert.NoError(t, repo.Create(context.Background(), &entity.SkillRequest{
		FromUserID: from,
		ToUserID:   to,
		Status:     entity.RequestStatusAccepted,
	}))
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	chats, _, _ := newChatFixture(t)
	ctx := context.Background()

	first, err := chats.GetOrCreate(ctx, "bob", "alice")
	assert.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, first.Participants)
	assert.Equal(t, []string{"Alice", "Bob"}, first.ParticipantNames)
	assert.Equal(t, 0, first.UnreadCount["alice"])
	assert.Equal(t, 0, first.UnreadCount["bob"])

	// Same pair in either order resolves to the same conversation.
	second, err := chats.GetOrCreate(ctx, "alice", "bob")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestStartConversationRequiresAcceptedSwap(t *testing.T) {
	chats, _, requestRepo := newChatFixture(t)
	ctx := context.Background()

	_, err := chats.StartConversation(ctx, "alice", "bob")
	assert.Error(t, err)

	acceptedRequestBetween(t, requestRepo, "bob", "alice")

	conv, err := chats.StartConversation(ctx, "alice", "bob")
	assert.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, conv.Participants)
}

func TestStartConversationWithSelf(t *testing.T) {
	chats, _, _ := newChatFixture(t)

	_, err := chats.StartConversation(context.Background(), "alice", "alice")
	assert.Error(t, err)
}

func TestSendMessageIncrementsUnread(t *testing.T) {
	chats, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := chats.GetOrCreate(ctx, "alice", "bob")
	assert.NoError(t, err)

	message, err := chats.SendMessage(ctx, "alice", SendMessageInput{
		ChatID:  conv.ID,
		Message: "hello there",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Alice", message.SenderName)
	assert.False(t, message.IsRead)

	updated, err := chats.GetConversation(ctx, "bob", conv.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, updated.UnreadCount["bob"])
	assert.Equal(t, 0, updated.UnreadCount["alice"])
	assert.Equal(t, "hello there", updated.LastMessage)
	assert.Equal(t, "alice", updated.LastMessageSender)

	_, err = chats.SendMessage(ctx, "alice", SendMessageInput{ChatID: conv.ID, Message: "again"})
	assert.NoError(t, err)

	updated, err = chats.GetConversation(ctx, "bob", conv.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, updated.UnreadCount["bob"])
}

func TestSendMessageNonParticipant(t *testing.T) {
	chats, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := chats.GetOrCreate(ctx, "alice", "bob")
	assert.NoError(t, err)

	_, err = chats.SendMessage(ctx, "carol", SendMessageInput{ChatID: conv.ID, Message: "let me in"})
	assert.Error(t, err)
}

func TestSendMessageEmpty(t *testing.T) {
	chats, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := chats.GetOrCreate(ctx, "alice", "bob")
	assert.NoError(t, err)

	_, err = chats.SendMessage(ctx, "alice", SendMessageInput{ChatID: conv.ID, Message: "   "})
	assert.Error(t, err)
}

func TestMarkReadZeroesUnread(t *testing.T) {
	chats, chatRepo, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := chats.GetOrCreate(ctx, "alice", "bob")
	assert.NoError(t, err)

	for _, text := range []string{"one", "two", "three"} {
		_, err = chats.SendMessage(ctx, "alice", SendMessageInput{ChatID: conv.ID, Message: text})
		assert.NoError(t, err)
	}

	assert.NoError(t, chats.MarkRead(ctx, "bob", conv.ID))

	updated, err := chats.GetConversation(ctx, "bob", conv.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, updated.UnreadCount["bob"])

	// Every message from the other participant is now read.
	unread, err := chatRepo.ListUnreadMessages(ctx, conv.ID, "bob")
	assert.NoError(t, err)
	assert.Empty(t, unread)
}

func TestListMessagesParticipantOnly(t *testing.T) {
	chats, _, _ := newChatFixture(t)
	ctx := context.Background()

	conv, err := chats.GetOrCreate(ctx, "alice", "bob")
	assert.NoError(t, err)

	_, err = chats.SendMessage(ctx, "alice", SendMessageInput{ChatID: conv.ID, Message: "hi"})
	assert.NoError(t, err)

	messages, err := chats.ListMessages(ctx, "bob", conv.ID, 0)
	assert.NoError(t, err)
	assert.Len(t, messages, 1)

	_, err = chats.ListMessages(ctx, "carol", conv.ID, 0)
	assert.Error(t, err)
}
