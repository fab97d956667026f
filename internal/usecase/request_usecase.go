package usecase

import (
	"context"
	"strings"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/ratelimit"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

type RequestUseCase struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	chats       *ChatUseCase
	rateLimiter *ratelimit.RateLimiter
}

func NewRequestUseCase(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	chats *ChatUseCase,
	rateLimiter *ratelimit.RateLimiter,
) *RequestUseCase {
	return &RequestUseCase{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		chats:       chats,
		rateLimiter: rateLimiter,
	}
}

type CreateRequestInput struct {
	ToUserID     string
	OfferedSkill string
	WantedSkill  string
	Message      string
}

func (uc *RequestUseCase) Create(ctx context.Context, fromUserID string, input CreateRequestInput) (*entity.SkillRequest, error) {
	if fromUserID == input.ToUserID {
		return nil, errors.BadRequest("You cannot send a swap request to yourself", nil)
	}

	if allowed, _ := uc.rateLimiter.Allow(fromUserID, ratelimit.ActionCreateRequest); !allowed {
		return nil, errors.TooManyRequests("Too many requests sent, please wait")
	}

	sender, err := uc.userRepo.GetByID(ctx, fromUserID)
	if err != nil {
		return nil, err
	}
	receiver, err := uc.userRepo.GetByID(ctx, input.ToUserID)
	if err != nil {
		return nil, err
	}

	request := &entity.SkillRequest{
		FromUserID:    fromUserID,
		FromUserName:  sender.Name,
		FromUserPhoto: sender.ProfilePhotoURL,
		ToUserID:      receiver.UID,
		ToUserName:    receiver.Name,
		OfferedSkill:  strings.TrimSpace(input.OfferedSkill),
		WantedSkill:   strings.TrimSpace(input.WantedSkill),
		Message:       strings.TrimSpace(input.Message),
		Status:        entity.RequestStatusPending,
		IsRead:        false,
	}

	if err := uc.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	return request, nil
}

func (uc *RequestUseCase) ListReceived(ctx context.Context, userID string) ([]*entity.SkillRequest, error) {
	return uc.requestRepo.ListByReceiver(ctx, userID)
}

func (uc *RequestUseCase) ListSent(ctx context.Context, userID string) ([]*entity.SkillRequest, error) {
	return uc.requestRepo.ListBySender(ctx, userID)
}

// SetStatus transitions a pending request to accepted or rejected. Only the
// receiver may act, and the transition is terminal.
//
// Accepting also bootstraps the conversation for the pair. That side effect
// is deliberately non-atomic with the status write: a failed bootstrap is
// logged and the accept still succeeds, since opening the chat re-runs
// get-or-create as a fallback.
func (uc *RequestUseCase) SetStatus(ctx context.Context, userID, requestID, newStatus string) (*entity.SkillRequest, error) {
	if newStatus != entity.RequestStatusAccepted && newStatus != entity.RequestStatusRejected {
		return nil, errors.BadRequest("Status must be accepted or rejected", nil)
	}

	request, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.ToUserID != userID {
		return nil, errors.Forbidden("Only the receiver can respond to a request", nil)
	}
	if request.Status != entity.RequestStatusPending {
		return nil, errors.Conflict("Request has already been " + request.Status)
	}

	if newStatus == entity.RequestStatusAccepted {
		if _, err := uc.chats.GetOrCreate(ctx, request.FromUserID, request.ToUserID); err != nil {
			logger.Warn("Chat bootstrap failed for accepted request %s: %v", requestID, err)
		}
	}

	if err := uc.requestRepo.SetFields(ctx, requestID, map[string]interface{}{
		"status": newStatus,
	}); err != nil {
		return nil, err
	}
	request.Status = newStatus

	return request, nil
}

// HasAcceptedRequest reports whether an accepted request exists between the
// two users in either direction.
func (uc *RequestUseCase) HasAcceptedRequest(ctx context.Context, userA, userB string) (bool, error) {
	n, err := uc.requestRepo.CountAccepted(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	n, err = uc.requestRepo.CountAccepted(ctx, userB, userA)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkRead flags a received request as read. Idempotent.
func (uc *RequestUseCase) MarkRead(ctx context.Context, userID, requestID string) error {
	request, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.ToUserID != userID {
		return errors.Forbidden("Only the receiver can mark a request as read", nil)
	}
	if request.IsRead {
		return nil
	}

	return uc.requestRepo.SetFields(ctx, requestID, map[string]interface{}{
		"isRead": true,
	})
}

// ListAll returns every request, newest first. Admin audit view.
func (uc *RequestUseCase) ListAll(ctx context.Context) ([]*entity.SkillRequest, error) {
	return uc.requestRepo.ListAll(ctx)
}
