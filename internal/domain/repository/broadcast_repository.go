package repository

import (
	"context"

	"skillswap/internal/domain/entity"
)

type BroadcastRepository interface {
	Create(ctx context.Context, message *entity.AdminMessage) error
	ListAll(ctx context.Context) ([]*entity.AdminMessage, error)

	// MarkSeen adds userID to the message's seenBy set. Idempotent.
	MarkSeen(ctx context.Context, messageID, userID string) error

	Subscribe(ctx context.Context, onChange func([]*entity.AdminMessage)) (func(), error)
}
