package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"time"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/ratelimit"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

type UserUseCase struct {
	userRepo    repository.UserRepository
	requestRepo repository.RequestRepository
	uploader    ImageUploader
	rateLimiter *ratelimit.RateLimiter
}

func NewUserUseCase(
	userRepo repository.UserRepository,
	requestRepo repository.RequestRepository,
	uploader ImageUploader,
	rateLimiter *ratelimit.RateLimiter,
) *UserUseCase {
	return &UserUseCase{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		uploader:    uploader,
		rateLimiter: rateLimiter,
	}
}

type UpdateProfileInput struct {
	Name          string
	Location      *string
	SkillsOffered []string
	SkillsWanted  []string
	Availability  string
	Visibility    string
	ContactInfo   *entity.ContactInfo
}

type SearchInput struct {
	Skill        string
	Availability string
}

type AddFeedbackInput struct {
	TargetUserID string
	Rating       int
	Comment      string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, uid string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, uid)
}

// GetVisibleProfile returns another user's profile, hiding private profiles
// from everyone but their owner and admins.
func (uc *UserUseCase) GetVisibleProfile(ctx context.Context, viewerID, uid string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if user.Visibility == "private" && viewerID != uid {
		viewer, err := uc.userRepo.GetByID(ctx, viewerID)
		if err != nil || viewer.Role != "admin" {
			return nil, errors.NotFound("User", nil)
		}
	}

	return user, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	if input.SkillsOffered != nil {
		user.SkillsOffered = input.SkillsOffered
	}
	if input.SkillsWanted != nil {
		user.SkillsWanted = input.SkillsWanted
	}
	if input.Availability != "" {
		user.Availability = input.Availability
	}
	if input.Visibility != "" {
		user.Visibility = input.Visibility
	}
	if input.ContactInfo != nil {
		user.ContactInfo = input.ContactInfo
	}

	// The profile counts as complete once the form essentials are present.
	user.IsProfileComplete = user.Name != "" && len(user.SkillsOffered) > 0 && len(user.SkillsWanted) > 0
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ListPublicUsers returns the public directory, excluding the viewer.
// Search filtering happens here since the lists are small.
func (uc *UserUseCase) ListPublicUsers(ctx context.Context, viewerID string, search SearchInput) ([]*entity.User, error) {
	users, err := uc.userRepo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*entity.User, 0, len(users))
	for _, user := range users {
		if user.UID == viewerID {
			continue
		}
		if search.Availability != "" && user.Availability != search.Availability {
			continue
		}
		if search.Skill != "" && !matchesSkill(user, search.Skill) {
			continue
		}
		filtered = append(filtered, user)
	}

	return filtered, nil
}

func matchesSkill(user *entity.User, skill string) bool {
	needle := strings.ToLower(skill)
	for _, s := range user.SkillsOffered {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	for _, s := range user.SkillsWanted {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// AddFeedback appends a review to the target's profile and recomputes the
// rating as the mean of all feedback ratings. Only users with an accepted
// swap between them may leave feedback, and only once per target.
func (uc *UserUseCase) AddFeedback(ctx context.Context, authorID string, input AddFeedbackInput) (*entity.User, error) {
	if authorID == input.TargetUserID {
		return nil, errors.BadRequest("You cannot leave feedback on your own profile", nil)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	if allowed, _ := uc.rateLimiter.Allow(authorID, ratelimit.ActionSubmitFeedback); !allowed {
		return nil, errors.TooManyRequests("Too many feedback submissions, please wait")
	}

	accepted, err := uc.hasAcceptedBetween(ctx, authorID, input.TargetUserID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, errors.Forbidden("Feedback requires an accepted swap with this user", nil)
	}

	author, err := uc.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	target, err := uc.userRepo.GetByID(ctx, input.TargetUserID)
	if err != nil {
		return nil, err
	}

	for _, f := range target.Feedback {
		if f.FromUserID == authorID {
			return nil, errors.Conflict("You have already left feedback for this user")
		}
	}

	target.Feedback = append(target.Feedback, entity.Feedback{
		From:       author.Name,
		FromUserID: authorID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		CreatedAt:  time.Now(),
	})

	sum := 0
	for _, f := range target.Feedback {
		sum += f.Rating
	}
	target.Rating = float64(sum) / float64(len(target.Feedback))
	target.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}

	return target, nil
}

func (uc *UserUseCase) hasAcceptedBetween(ctx context.Context, a, b string) (bool, error) {
	n, err := uc.requestRepo.CountAccepted(ctx, a, b)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	n, err = uc.requestRepo.CountAccepted(ctx, b, a)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UploadProfilePhoto accepts a base64 image (optionally a data URI) and
// stores it, recording the public URL on the profile.
func (uc *UserUseCase) UploadProfilePhoto(ctx context.Context, uid, encoded string) (string, error) {
	contentType := "image/jpeg"
	if strings.HasPrefix(encoded, "data:") {
		parts := strings.SplitN(encoded, ";base64,", 2)
		if len(parts) != 2 {
			return "", errors.BadRequest("Malformed image data", nil)
		}
		contentType = strings.TrimPrefix(parts[0], "data:")
		encoded = parts[1]
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.BadRequest("Invalid base64 image data", err)
	}

	url, err := uc.uploader.UploadImage(ctx, bytes.NewReader(raw), contentType, "profile-photos")
	if err != nil {
		return "", errors.Internal("Failed to upload profile photo", err)
	}

	if err := uc.userRepo.SetFields(ctx, uid, map[string]interface{}{
		"profilePhotoUrl": url,
	}); err != nil {
		// The object is already stored; the URL is returned so the client
		// can retry the profile write.
		logger.Warn("Photo uploaded but profile update failed for %s: %v", uid, err)
		return url, err
	}

	return url, nil
}

// Admin operations.

func (uc *UserUseCase) ListAllUsers(ctx context.Context) ([]*entity.User, error) {
	return uc.userRepo.ListAll(ctx)
}

func (uc *UserUseCase) SetBanned(ctx context.Context, uid string, banned bool) error {
	if _, err := uc.userRepo.GetByID(ctx, uid); err != nil {
		return err
	}

	return uc.userRepo.SetFields(ctx, uid, map[string]interface{}{
		"isBanned": banned,
	})
}
