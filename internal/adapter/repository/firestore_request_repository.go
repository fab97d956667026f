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
	"github.com/google/uuid"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type firestoreRequestRepository struct {
	client *firestore.Client
}

func NewFirestoreRequestRepository(client *firestore.Client) repository.RequestRepository {
	return &firestoreRequestRepository{
		client: client,
	}
}

func (r *firestoreRequestRepository) Create(ctx context.Context, request *entity.SkillRequest) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}

	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now

	if _, err := r.client.Collection("requests").Doc(request.ID).Set(ctx, request); err != nil {
		return errors.Internal("Failed to create request", err)
	}
	return nil
}

func (r *firestoreRequestRepository) GetByID(ctx context.Context, id string) (*entity.SkillRequest, error) {
	doc, err := r.client.Collection("requests").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Request", err)
		}
		return nil, errors.Internal("Failed to get request", err)
	}

	var request entity.SkillRequest
	if err := doc.DataTo(&request); err != nil {
		return nil, errors.Internal("Failed to parse request data", err)
	}
	request.ID = doc.Ref.ID

	return &request, nil
}

func (r *firestoreRequestRepository) ListByReceiver(ctx context.Context, userID string) ([]*entity.SkillRequest, error) {
	query := r.client.Collection("requests").Where("toUserId", "==", userID)
	return r.collectRequests(query.Documents(ctx))
}

func (r *firestoreRequestRepository) ListBySender(ctx context.Context, userID string) ([]*entity.SkillRequest, error) {
	query := r.client.Collection("requests").Where("fromUserId", "==", userID)
	return r.collectRequests(query.Documents(ctx))
}

func (r *firestoreRequestRepository) ListAll(ctx context.Context) ([]*entity.SkillRequest, error) {
	return r.collectRequests(r.client.Collection("requests").Documents(ctx))
}

func (r *firestoreRequestRepository) SetFields(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now()

	if _, err := r.client.Collection("requests").Doc(id).Set(ctx, fields, firestore.MergeAll); err != nil {
		return errors.Internal("Failed to update request", err)
	}
	return nil
}

func (r *firestoreRequestRepository) CountAccepted(ctx context.Context, fromUserID, toUserID string) (int, error) {
	query := r.client.Collection("requests").
		Where("fromUserId", "==", fromUserID).
		Where("toUserId", "==", toUserID).
		Where("status", "==", entity.RequestStatusAccepted)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count accepted requests", err)
	}
	return len(docs), nil
}

func (r *firestoreRequestRepository) SubscribeByReceiver(ctx context.Context, userID string, onChange func([]*entity.SkillRequest)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	query := r.client.Collection("requests").Where("toUserId", "==", userID)
	snapshots := query.Snapshots(ctx)

	go func() {
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Request snapshot stream for user %s ended: %v", userID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Printf("Failed to read request snapshot for user %s: %v", userID, err)
				continue
			}

			var requests []*entity.SkillRequest
			for _, doc := range docs {
				var request entity.SkillRequest
				if err := doc.DataTo(&request); err != nil {
					continue
				}
				request.ID = doc.Ref.ID
				requests = append(requests, &request)
			}
			sortRequestsByCreatedAtDesc(requests)

			onChange(requests)
		}
	}()

	return cancel, nil
}

func (r *firestoreRequestRepository) collectRequests(iter *firestore.DocumentIterator) ([]*entity.SkillRequest, error) {
	var requests []*entity.SkillRequest
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate requests", err)
		}

		var request entity.SkillRequest
		if err := doc.DataTo(&request); err != nil {
			log.Printf("Skipping malformed request document %s: %v", doc.Ref.ID, err)
			continue
		}
		request.ID = doc.Ref.ID
		requests = append(requests, &request)
	}

	// The equality filter rules out an order clause without a composite
	// index, so the newest-first ordering happens here.
	sortRequestsByCreatedAtDesc(requests)

	return requests, nil
}

func sortRequestsByCreatedAtDesc(requests []*entity.SkillRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}
