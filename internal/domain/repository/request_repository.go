package repository

import (
	"context"

	"skillswap/internal/domain/entity"
)

type RequestRepository interface {
	Create(ctx context.Context, request *entity.SkillRequest) error
	GetByID(ctx context.Context, id string) (*entity.SkillRequest, error)
	ListByReceiver(ctx context.Context, userID string) ([]*entity.SkillRequest, error)
	ListBySender(ctx context.Context, userID string) ([]*entity.SkillRequest, error)
	ListAll(ctx context.Context) ([]*entity.SkillRequest, error)
	SetFields(ctx context.Context, id string, fields map[string]interface{}) error

	// CountAccepted returns the number of accepted requests from one user to
	// another, in that direction only.
	CountAccepted(ctx context.Context, fromUserID, toUserID string) (int, error)

	// SubscribeByReceiver streams the full set of requests addressed to userID
	// every time the collection changes. The callback may fire on an internal
	// goroutine and must be idempotent. The returned func cancels the stream.
	SubscribeByReceiver(ctx context.Context, userID string, onChange func([]*entity.SkillRequest)) (func(), error)
}
