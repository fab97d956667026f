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

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.client.Collection("users").Doc(user.UID).Set(ctx, user); err != nil {
		return errors.Internal("Failed to create user profile", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, uid string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.UID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	iter := r.client.Collection("users").Where("email", "==", email).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("User", nil)
		}
		return nil, errors.Internal("Failed to query user by email", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.UID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	if _, err := r.client.Collection("users").Doc(user.UID).Set(ctx, user); err != nil {
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) SetFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now()

	if _, err := r.client.Collection("users").Doc(uid).Set(ctx, fields, firestore.MergeAll); err != nil {
		log.Printf("Firestore merge write failed for user %s: %v", uid, err)
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) ListPublic(ctx context.Context) ([]*entity.User, error) {
	query := r.client.Collection("users").
		Where("visibility", "==", "public").
		Where("isProfileComplete", "==", true).
		Where("isBanned", "==", false)

	return r.collectUsers(query.Documents(ctx))
}

func (r *firestoreUserRepository) ListAll(ctx context.Context) ([]*entity.User, error) {
	users, err := r.collectUsers(r.client.Collection("users").Documents(ctx))
	if err != nil {
		return nil, err
	}

	// Newest first, sorted here since the query has no order clause.
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	return users, nil
}

func (r *firestoreUserRepository) collectUsers(iter *firestore.DocumentIterator) ([]*entity.User, error) {
	var users []*entity.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate users", err)
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			log.Printf("Skipping malformed user document %s: %v", doc.Ref.ID, err)
			continue
		}
		user.UID = doc.Ref.ID
		users = append(users, &user)
	}
	return users, nil
}
