package usecase

import (
	"context"
	"sync"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/websocket"
)

// NotificationCounts is the per-user badge state. Every field is derived from
// stored data, never stored itself, so the counts cannot drift.
type NotificationCounts struct {
	Requests   int `json:"requests"`
	Chats      int `json:"chats"`
	Broadcasts int `json:"broadcasts"`
	Total      int `json:"total"`
}

// UnreadRequestCount counts pending, unread requests addressed to userID.
func UnreadRequestCount(requests []*entity.SkillRequest, userID string) int {
	count := 0
	for _, r := range requests {
		if r.ToUserID == userID && r.Status == entity.RequestStatusPending && !r.IsRead {
			count++
		}
	}
	return count
}

// UnreadChatCount sums the user's unread counters across conversations.
func UnreadChatCount(convs []*entity.Conversation, userID string) int {
	total := 0
	for _, c := range convs {
		total += c.UnreadCount[userID]
	}
	return total
}

// UnseenBroadcastCount counts announcements whose seen-by set excludes userID.
func UnseenBroadcastCount(messages []*entity.AdminMessage, userID string) int {
	count := 0
	for _, m := range messages {
		if !m.SeenByUser(userID) {
			count++
		}
	}
	return count
}

type NotificationUseCase struct {
	requestRepo   repository.RequestRepository
	chatRepo      repository.ChatRepository
	broadcastRepo repository.BroadcastRepository
}

func NewNotificationUseCase(
	requestRepo repository.RequestRepository,
	chatRepo repository.ChatRepository,
	broadcastRepo repository.BroadcastRepository,
) *NotificationUseCase {
	return &NotificationUseCase{
		requestRepo:   requestRepo,
		chatRepo:      chatRepo,
		broadcastRepo: broadcastRepo,
	}
}

// Counts computes the user's badge state from current data. Used by the
// session endpoint so clients have counts before the websocket is up.
func (uc *NotificationUseCase) Counts(ctx context.Context, userID string) (*NotificationCounts, error) {
	requests, err := uc.requestRepo.ListByReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}
	convs, err := uc.chatRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	broadcasts, err := uc.broadcastRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := &NotificationCounts{
		Requests:   UnreadRequestCount(requests, userID),
		Chats:      UnreadChatCount(convs, userID),
		Broadcasts: UnseenBroadcastCount(broadcasts, userID),
	}
	counts.Total = counts.Requests + counts.Chats + counts.Broadcasts

	return counts, nil
}

// watcher holds one connected user's live subscriptions and the latest count
// from each source.
type watcher struct {
	userID  string
	cancels []func()

	mutex  sync.Mutex
	counts NotificationCounts
}

// Notifier keeps a set of snapshot subscriptions per connected user and
// pushes recomputed badge counts over websocket whenever any source changes.
// Wire Watch to the manager's OnConnect and Stop to OnDisconnect.
type Notifier struct {
	requestRepo   repository.RequestRepository
	chatRepo      repository.ChatRepository
	broadcastRepo repository.BroadcastRepository
	wsManager     *websocket.Manager

	mutex    sync.Mutex
	watchers map[string]*watcher
}

func NewNotifier(
	requestRepo repository.RequestRepository,
	chatRepo repository.ChatRepository,
	broadcastRepo repository.BroadcastRepository,
	wsManager *websocket.Manager,
) *Notifier {
	return &Notifier{
		requestRepo:   requestRepo,
		chatRepo:      chatRepo,
		broadcastRepo: broadcastRepo,
		wsManager:     wsManager,
		watchers:      make(map[string]*watcher),
	}
}

// Watch starts the user's subscriptions. A second Watch for the same user
// replaces the first, matching the manager's reconnect behavior.
func (n *Notifier) Watch(ctx context.Context, userID string) {
	w := &watcher{userID: userID}

	cancelRequests, err := n.requestRepo.SubscribeByReceiver(ctx, userID, func(requests []*entity.SkillRequest) {
		w.mutex.Lock()
		w.counts.Requests = UnreadRequestCount(requests, userID)
		counts := w.snapshotLocked()
		w.mutex.Unlock()
		n.push(userID, counts)
	})
	if err == nil {
		w.cancels = append(w.cancels, cancelRequests)
	}

	cancelChats, err := n.chatRepo.SubscribeConversations(ctx, userID, func(convs []*entity.Conversation) {
		w.mutex.Lock()
		w.counts.Chats = UnreadChatCount(convs, userID)
		counts := w.snapshotLocked()
		w.mutex.Unlock()
		n.push(userID, counts)
	})
	if err == nil {
		w.cancels = append(w.cancels, cancelChats)
	}

	cancelBroadcasts, err := n.broadcastRepo.Subscribe(ctx, func(messages []*entity.AdminMessage) {
		w.mutex.Lock()
		w.counts.Broadcasts = UnseenBroadcastCount(messages, userID)
		counts := w.snapshotLocked()
		w.mutex.Unlock()
		n.push(userID, counts)
	})
	if err == nil {
		w.cancels = append(w.cancels, cancelBroadcasts)
	}

	n.mutex.Lock()
	if prev, ok := n.watchers[userID]; ok {
		prev.stop()
	}
	n.watchers[userID] = w
	n.mutex.Unlock()
}

// Stop cancels the user's subscriptions.
func (n *Notifier) Stop(userID string) {
	n.mutex.Lock()
	w, ok := n.watchers[userID]
	if ok {
		delete(n.watchers, userID)
	}
	n.mutex.Unlock()

	if ok {
		w.stop()
	}
}

func (n *Notifier) push(userID string, counts NotificationCounts) {
	n.wsManager.SendToUser(userID, websocket.NewEvent(websocket.EventUnreadCounts, counts))
}

func (w *watcher) snapshotLocked() NotificationCounts {
	counts := w.counts
	counts.Total = counts.Requests + counts.Chats + counts.Broadcasts
	return counts
}

func (w *watcher) stop() {
	for _, cancel := range w.cancels {
		cancel()
	}
}
