package usecase

import (
	"context"
	"strings"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/websocket"
	"skillswap/pkg/errors"
)

type BroadcastUseCase struct {
	broadcastRepo repository.BroadcastRepository
	wsManager     *websocket.Manager
}

func NewBroadcastUseCase(broadcastRepo repository.BroadcastRepository, wsManager *websocket.Manager) *BroadcastUseCase {
	return &BroadcastUseCase{
		broadcastRepo: broadcastRepo,
		wsManager:     wsManager,
	}
}

// Create publishes an announcement to all users. Connected clients are
// notified immediately; everyone else picks it up through the seen-by badge
// on their next session.
func (uc *BroadcastUseCase) Create(ctx context.Context, adminID, text string) (*entity.AdminMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Announcement message cannot be empty", nil)
	}

	message := &entity.AdminMessage{
		Message:   text,
		CreatedBy: adminID,
		SeenBy:    []string{},
	}
	if err := uc.broadcastRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	uc.wsManager.SendToAll(websocket.NewEvent(websocket.EventBroadcast, message))

	return message, nil
}

// List returns all announcements, newest first.
func (uc *BroadcastUseCase) List(ctx context.Context) ([]*entity.AdminMessage, error) {
	return uc.broadcastRepo.ListAll(ctx)
}

// MarkSeen records that the user has viewed the announcement. Idempotent.
func (uc *BroadcastUseCase) MarkSeen(ctx context.Context, messageID, userID string) error {
	return uc.broadcastRepo.MarkSeen(ctx, messageID, userID)
}

// UnseenCount returns how many announcements the user has not yet viewed.
func (uc *BroadcastUseCase) UnseenCount(ctx context.Context, userID string) (int, error) {
	messages, err := uc.broadcastRepo.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range messages {
		if !m.SeenByUser(userID) {
			count++
		}
	}
	return count, nil
}
