package repository

import (
	"context"
	"log"
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

type firestoreBroadcastRepository struct {
	client *firestore.Client
}

func NewFirestoreBroadcastRepository(client *firestore.Client) repository.BroadcastRepository {
	return &firestoreBroadcastRepository{
		client: client,
	}
}

func (r *firestoreBroadcastRepository) Create(ctx context.Context, message *entity.AdminMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()
	if message.SeenBy == nil {
		message.SeenBy = []string{}
	}

	if _, err := r.client.Collection("adminMessages").Doc(message.ID).Set(ctx, message); err != nil {
		return errors.Internal("Failed to create announcement", err)
	}
	return nil
}

func (r *firestoreBroadcastRepository) ListAll(ctx context.Context) ([]*entity.AdminMessage, error) {
	iter := r.client.Collection("adminMessages").OrderBy("createdAt", firestore.Desc).Documents(ctx)

	var messages []*entity.AdminMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate announcements", err)
		}

		var message entity.AdminMessage
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Skipping malformed announcement document %s: %v", doc.Ref.ID, err)
			continue
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}
	return messages, nil
}

func (r *firestoreBroadcastRepository) MarkSeen(ctx context.Context, messageID, userID string) error {
	_, err := r.client.Collection("adminMessages").Doc(messageID).Update(ctx, []firestore.Update{
		{Path: "seenBy", Value: firestore.ArrayUnion(userID)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Announcement", err)
		}
		return errors.Internal("Failed to mark announcement as seen", err)
	}
	return nil
}

func (r *firestoreBroadcastRepository) Subscribe(ctx context.Context, onChange func([]*entity.AdminMessage)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	query := r.client.Collection("adminMessages").OrderBy("createdAt", firestore.Desc)
	snapshots := query.Snapshots(ctx)

	go func() {
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Announcement snapshot stream ended: %v", err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Printf("Failed to read announcement snapshot: %v", err)
				continue
			}

			var messages []*entity.AdminMessage
			for _, doc := range docs {
				var message entity.AdminMessage
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
