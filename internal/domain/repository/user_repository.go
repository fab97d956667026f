package repository

import (
	"context"

	"skillswap/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, uid string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error

	// SetFields does a partial merge write on the user document.
	SetFields(ctx context.Context, uid string, fields map[string]interface{}) error

	// ListPublic returns profiles that are public, complete, and not banned.
	ListPublic(ctx context.Context) ([]*entity.User, error)
	ListAll(ctx context.Context) ([]*entity.User, error)
}
