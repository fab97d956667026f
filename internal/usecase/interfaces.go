package usecase

import (
	"context"
	"io"
)

type FirebaseAuthClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	GenerateToken(ctx context.Context, uid string) (string, error)
	SignInWithEmailPassword(email, password string) (string, error)
}

type ImageUploader interface {
	UploadImage(ctx context.Context, r io.Reader, contentType, folder string) (string, error)
}
