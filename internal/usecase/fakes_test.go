package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"skillswap/internal/domain/entity"
	"skillswap/pkg/errors"
)

// In-memory repository fakes. They mirror the Firestore adapters' behavior
// closely enough for workflow tests: generated ids, field-path SetFields
// (dotted keys address nested map entries, as Update does), newest-first
// ordering.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.users[user.UID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, uid string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[uid]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.UID] = &clone
	return nil
}

func (r *fakeUserRepo) SetFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[uid]
	if !ok {
		return errors.NotFound("User", nil)
	}
	for key, value := range fields {
		switch key {
		case "profilePhotoUrl":
			user.ProfilePhotoURL = value.(string)
		case "isBanned":
			user.IsBanned = value.(bool)
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) ListPublic(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []*entity.User
	for _, user := range r.users {
		if user.Visibility == "public" && user.IsProfileComplete && !user.IsBanned {
			clone := *user
			users = append(users, &clone)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UID < users[j].UID })
	return users, nil
}

func (r *fakeUserRepo) ListAll(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []*entity.User
	for _, user := range r.users {
		clone := *user
		users = append(users, &clone)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UID < users[j].UID })
	return users, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	seq      int
	requests map[string]*entity.SkillRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]*entity.SkillRequest)}
}

func (r *fakeRequestRepo) Create(ctx context.Context, request *entity.SkillRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if request.ID == "" {
		request.ID = fmt.Sprintf("req-%d", r.seq)
	}
	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now
	clone := *request
	r.requests[request.ID] = &clone
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id string) (*entity.SkillRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, errors.NotFound("Request", nil)
	}
	clone := *request
	return &clone, nil
}

func (r *fakeRequestRepo) ListByReceiver(ctx context.Context, userID string) ([]*entity.SkillRequest, error) {
	return r.list(func(req *entity.SkillRequest) bool { return req.ToUserID == userID })
}

func (r *fakeRequestRepo) ListBySender(ctx context.Context, userID string) ([]*entity.SkillRequest, error) {
	return r.list(func(req *entity.SkillRequest) bool { return req.FromUserID == userID })
}

func (r *fakeRequestRepo) ListAll(ctx context.Context) ([]*entity.SkillRequest, error) {
	return r.list(func(*entity.SkillRequest) bool { return true })
}

func (r *fakeRequestRepo) list(match func(*entity.SkillRequest) bool) ([]*entity.SkillRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var requests []*entity.SkillRequest
	for _, request := range r.requests {
		if match(request) {
			clone := *request
			requests = append(requests, &clone)
		}
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID > requests[j].ID })
	return requests, nil
}

func (r *fakeRequestRepo) SetFields(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return errors.NotFound("Request", nil)
	}
	for key, value := range fields {
		switch key {
		case "status":
			request.Status = value.(string)
		case "isRead":
			request.IsRead = value.(bool)
		}
	}
	request.UpdatedAt = time.Now()
	return nil
}

func (r *fakeRequestRepo) CountAccepted(ctx context.Context, fromUserID, toUserID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, request := range r.requests {
		if request.FromUserID == fromUserID && request.ToUserID == toUserID && request.Status == entity.RequestStatusAccepted {
			count++
		}
	}
	return count, nil
}

func (r *fakeRequestRepo) SubscribeByReceiver(ctx context.Context, userID string, onChange func([]*entity.SkillRequest)) (func(), error) {
	requests, _ := r.ListByReceiver(ctx, userID)
	onChange(requests)
	return func() {}, nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	seq      int
	convs    map[string]*entity.Conversation
	messages map[string]*entity.ChatMessage

	failCreate bool

	messageStreams int
	messageCancels int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		convs:    make(map[string]*entity.Conversation),
		messages: make(map[string]*entity.ChatMessage),
	}
}

func (r *fakeChatRepo) Create(ctx context.Context, conv *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.Internal("Failed to create conversation", nil)
	}
	r.seq++
	if conv.ID == "" {
		conv.ID = fmt.Sprintf("chat-%d", r.seq)
	}
	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	clone := *conv
	r.convs[conv.ID] = &clone
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return cloneConv(conv), nil
}

func (r *fakeChatRepo) GetByParticipants(ctx context.Context, participants []string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conv := range r.convs {
		if len(conv.Participants) == len(participants) &&
			conv.Participants[0] == participants[0] && conv.Participants[1] == participants[1] {
			return cloneConv(conv), nil
		}
	}
	return nil, errors.NotFound("Conversation", nil)
}

func (r *fakeChatRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var convs []*entity.Conversation
	for _, conv := range r.convs {
		if conv.HasParticipant(userID) {
			convs = append(convs, cloneConv(conv))
		}
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].ID < convs[j].ID })
	return convs, nil
}

func (r *fakeChatRepo) ListAll(ctx context.Context) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var convs []*entity.Conversation
	for _, conv := range r.convs {
		convs = append(convs, cloneConv(conv))
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].ID < convs[j].ID })
	return convs, nil
}

func (r *fakeChatRepo) Update(ctx context.Context, conv *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv.UpdatedAt = time.Now()
	r.convs[conv.ID] = cloneConv(conv)
	return nil
}

func (r *fakeChatRepo) SetFields(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[id]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	for key, value := range fields {
		switch {
		case key == "lastMessage":
			conv.LastMessage = value.(string)
		case key == "lastMessageTime":
			conv.LastMessageTime = value.(time.Time)
		case key == "lastMessageSender":
			conv.LastMessageSender = value.(string)
		case strings.HasPrefix(key, "unreadCount."):
			if conv.UnreadCount == nil {
				conv.UnreadCount = make(map[string]int)
			}
			conv.UnreadCount[strings.TrimPrefix(key, "unreadCount.")] = value.(int)
		}
	}
	conv.UpdatedAt = time.Now()
	return nil
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, message *entity.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d", r.seq)
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	clone := *message
	r.messages[message.ID] = &clone
	return nil
}

func (r *fakeChatRepo) ListMessages(ctx context.Context, chatID string, limit int) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var messages []*entity.ChatMessage
	for _, message := range r.messages {
		if message.ChatID == chatID {
			clone := *message
			messages = append(messages, &clone)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (r *fakeChatRepo) ListAllMessages(ctx context.Context) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var messages []*entity.ChatMessage
	for _, message := range r.messages {
		clone := *message
		messages = append(messages, &clone)
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID > messages[j].ID })
	return messages, nil
}

func (r *fakeChatRepo) ListUnreadMessages(ctx context.Context, chatID, userID string) ([]*entity.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var messages []*entity.ChatMessage
	for _, message := range r.messages {
		if message.ChatID == chatID && !message.IsRead && message.SenderID != userID {
			clone := *message
			messages = append(messages, &clone)
		}
	}
	return messages, nil
}

func (r *fakeChatRepo) MarkMessageRead(ctx context.Context, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[messageID]
	if !ok {
		return errors.NotFound("Message", nil)
	}
	message.IsRead = true
	return nil
}

func (r *fakeChatRepo) SubscribeConversations(ctx context.Context, userID string, onChange func([]*entity.Conversation)) (func(), error) {
	convs, _ := r.ListByUserID(ctx, userID)
	onChange(convs)
	return func() {}, nil
}

func (r *fakeChatRepo) SubscribeMessages(ctx context.Context, chatID string, onChange func([]*entity.ChatMessage)) (func(), error) {
	messages, _ := r.ListMessages(ctx, chatID, 0)
	r.mu.Lock()
	r.messageStreams++
	r.mu.Unlock()
	onChange(messages)
	return func() {
		r.mu.Lock()
		r.messageCancels++
		r.mu.Unlock()
	}, nil
}

func (r *fakeChatRepo) streamCounts() (streams, cancels int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messageStreams, r.messageCancels
}

func cloneConv(conv *entity.Conversation) *entity.Conversation {
	clone := *conv
	clone.Participants = append([]string(nil), conv.Participants...)
	clone.UnreadCount = make(map[string]int, len(conv.UnreadCount))
	for k, v := range conv.UnreadCount {
		clone.UnreadCount[k] = v
	}
	return &clone
}

type fakeBroadcastRepo struct {
	mu       sync.Mutex
	seq      int
	messages map[string]*entity.AdminMessage
}

func newFakeBroadcastRepo() *fakeBroadcastRepo {
	return &fakeBroadcastRepo{messages: make(map[string]*entity.AdminMessage)}
}

func (r *fakeBroadcastRepo) Create(ctx context.Context, message *entity.AdminMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if message.ID == "" {
		message.ID = fmt.Sprintf("bcast-%d", r.seq)
	}
	message.CreatedAt = time.Now()
	clone := *message
	r.messages[message.ID] = &clone
	return nil
}

func (r *fakeBroadcastRepo) ListAll(ctx context.Context) ([]*entity.AdminMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var messages []*entity.AdminMessage
	for _, message := range r.messages {
		clone := *message
		clone.SeenBy = append([]string(nil), message.SeenBy...)
		messages = append(messages, &clone)
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID > messages[j].ID })
	return messages, nil
}

func (r *fakeBroadcastRepo) MarkSeen(ctx context.Context, messageID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[messageID]
	if !ok {
		return errors.NotFound("Message", nil)
	}
	if !message.SeenByUser(userID) {
		message.SeenBy = append(message.SeenBy, userID)
	}
	return nil
}

func (r *fakeBroadcastRepo) Subscribe(ctx context.Context, onChange func([]*entity.AdminMessage)) (func(), error) {
	messages, _ := r.ListAll(ctx)
	onChange(messages)
	return func() {}, nil
}

type fakeAuthClient struct {
	mu    sync.Mutex
	seq   int
	users map[string]string // email -> uid
}

func newFakeAuthClient() *fakeAuthClient {
	return &fakeAuthClient{users: make(map[string]string)}
}

func (f *fakeAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	uid := fmt.Sprintf("uid-%d", f.seq)
	f.users[email] = uid
	return uid, nil
}

func (f *fakeAuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	uid, ok := strings.CutPrefix(token, "token-for-")
	if !ok {
		return "", fmt.Errorf("invalid token")
	}
	return uid, nil
}

func (f *fakeAuthClient) GenerateToken(ctx context.Context, uid string) (string, error) {
	return "token-for-" + uid, nil
}

func (f *fakeAuthClient) SignInWithEmailPassword(email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	uid, ok := f.users[email]
	if !ok {
		return "", fmt.Errorf("no such account")
	}
	return "token-for-" + uid, nil
}

type fakeUploader struct {
	lastContentType string
	lastFolder      string
}

func (f *fakeUploader) UploadImage(ctx context.Context, r io.Reader, contentType, folder string) (string, error) {
	f.lastContentType = contentType
	f.lastFolder = folder
	return "https://storage.example.com/" + folder + "/object", nil
}
