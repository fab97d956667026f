package usecase

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"

	"skillswap/internal/domain/entity"
	"skillswap/internal/infrastructure/ratelimit"
)

func newUserFixture(t *testing.T) (*UserUseCase, *fakeUserRepo, *fakeRequestRepo, *fakeUploader) {
	t.Helper()
	userRepo := newFakeUserRepo()
	requestRepo := newFakeRequestRepo()
	uploader := &fakeUploader{}

	users := NewUserUseCase(userRepo, requestRepo, uploader, ratelimit.NewRateLimiter())

	seedUser(t, userRepo, "alice", "Alice")
	seedUser(t, userRepo, "bob", "Bob")

	return users, userRepo, requestRepo, uploader
}

func TestUpdateProfileCompleteness(t *testing.T) {
	users, userRepo, _, _ := newUserFixture(t)
	ctx := context.Background()

	fresh := newProfile("dave", "Dave", "dave@example.com")
	assert.NoError(t, userRepo.Create(ctx, fresh))
	assert.False(t, fresh.IsProfileComplete)

	// Skills on one side only is still incomplete.
	updated, err := users.UpdateProfile(ctx, "dave", UpdateProfileInput{
		SkillsOffered: []string{"Guitar"},
	})
	assert.NoError(t, err)
	assert.False(t, updated.IsProfileComplete)

	updated, err = users.UpdateProfile(ctx, "dave", UpdateProfileInput{
		SkillsWanted: []string{"Python"},
	})
	assert.NoError(t, err)
	assert.True(t, updated.IsProfileComplete)
}

func TestUpdateProfileClearsLocation(t *testing.T) {
	users, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	city := "Lisbon"
	updated, err := users.UpdateProfile(ctx, "alice", UpdateProfileInput{Location: &city})
	assert.NoError(t, err)
	assert.Equal(t, "Lisbon", updated.Location)

	empty := ""
	updated, err = users.UpdateProfile(ctx, "alice", UpdateProfileInput{Location: &empty})
	assert.NoError(t, err)
	assert.Equal(t, "", updated.Location)
}

func TestListPublicUsersFilters(t *testing.T) {
	users, userRepo, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := users.UpdateProfile(ctx, "alice", UpdateProfileInput{
		SkillsOffered: []string{"Guitar"},
		SkillsWanted:  []string{"Python"},
		Availability:  entity.AvailabilityEvenings,
	})
	assert.NoError(t, err)
	_, err = users.UpdateProfile(ctx, "bob", UpdateProfileInput{
		SkillsOffered: []string{"Cooking"},
		SkillsWanted:  []string{"Photography"},
		Availability:  entity.AvailabilityWeekends,
	})
	assert.NoError(t, err)

	// The viewer never appears in their own directory.
	listed, err := users.ListPublicUsers(ctx, "alice", SearchInput{})
	assert.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.Equal(t, "bob", listed[0].UID)

	// Skill search is a case-insensitive substring over both lists.
	listed, err = users.ListPublicUsers(ctx, "bob", SearchInput{Skill: "gui"})
	assert.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.Equal(t, "alice", listed[0].UID)

	listed, err = users.ListPublicUsers(ctx, "bob", SearchInput{Availability: entity.AvailabilityWeekdays})
	assert.NoError(t, err)
	assert.Empty(t, listed)

	// Banned users drop out of the directory.
	assert.NoError(t, userRepo.SetFields(ctx, "alice", map[string]interface{}{"isBanned": true}))
	listed, err = users.ListPublicUsers(ctx, "bob", SearchInput{})
	assert.NoError(t, err)
	assert.Empty(t, listed)
}

func TestPrivateProfileHidden(t *testing.T) {
	users, userRepo, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := users.UpdateProfile(ctx, "bob", UpdateProfileInput{Visibility: "private"})
	assert.NoError(t, err)

	_, err = users.GetVisibleProfile(ctx, "alice", "bob")
	assert.Error(t, err)

	// The owner still sees it.
	got, err := users.GetVisibleProfile(ctx, "bob", "bob")
	assert.NoError(t, err)
	assert.Equal(t, "bob", got.UID)

	// Admins see everything.
	admin := newProfile("root", "Root", "root@example.com")
	admin.Role = "admin"
	assert.NoError(t, userRepo.Create(ctx, admin))

	got, err = users.GetVisibleProfile(ctx, "root", "bob")
	assert.NoError(t, err)
	assert.Equal(t, "bob", got.UID)
}

func TestAddFeedbackRecomputesMean(t *testing.T) {
	users, userRepo, requestRepo, _ := newUserFixture(t)
	ctx := context.Background()

	seedUser(t, userRepo, "carol", "Carol")
	acceptedRequestBetween(t, requestRepo, "alice", "bob")
	acceptedRequestBetween(t, requestRepo, "bob", "carol")

	target, err := users.AddFeedback(ctx, "alice", AddFeedbackInput{
		TargetUserID: "bob",
		Rating:       5,
		Comment:      "great teacher",
	})
	assert.NoError(t, err)
	assert.Len(t, target.Feedback, 1)
	assert.Equal(t, 5.0, target.Rating)

	target, err = users.AddFeedback(ctx, "carol", AddFeedbackInput{
		TargetUserID: "bob",
		Rating:       2,
	})
	assert.NoError(t, err)
	assert.Len(t, target.Feedback, 2)
	assert.Equal(t, 3.5, target.Rating)
}

func TestAddFeedbackOncePerAuthor(t *testing.T) {
	users, _, requestRepo, _ := newUserFixture(t)
	ctx := context.Background()

	acceptedRequestBetween(t, requestRepo, "alice", "bob")

	_, err := users.AddFeedback(ctx, "alice", AddFeedbackInput{TargetUserID: "bob", Rating: 4})
	assert.NoError(t, err)

	_, err = users.AddFeedback(ctx, "alice", AddFeedbackInput{TargetUserID: "bob", Rating: 1})
	assert.Error(t, err)
}

func TestAddFeedbackRequiresAcceptedSwap(t *testing.T) {
	users, _, _, _ := newUserFixture(t)

	_, err := users.AddFeedback(context.Background(), "alice", AddFeedbackInput{
		TargetUserID: "bob",
		Rating:       4,
	})
	assert.Error(t, err)
}

func TestAddFeedbackSelf(t *testing.T) {
	users, _, _, _ := newUserFixture(t)

	_, err := users.AddFeedback(context.Background(), "alice", AddFeedbackInput{
		TargetUserID: "alice",
		Rating:       5,
	})
	assert.Error(t, err)
}

func TestUploadProfilePhoto(t *testing.T) {
	users, userRepo, _, uploader := newUserFixture(t)
	ctx := context.Background()

	encoded := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))

	url, err := users.UploadProfilePhoto(ctx, "alice", "data:image/png;base64,"+encoded)
	assert.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Equal(t, "image/png", uploader.lastContentType)
	assert.Equal(t, "profile-photos", uploader.lastFolder)

	user, err := userRepo.GetByID(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, url, user.ProfilePhotoURL)
}

func TestUploadProfilePhotoBadData(t *testing.T) {
	users, _, _, _ := newUserFixture(t)

	_, err := users.UploadProfilePhoto(context.Background(), "alice", "not valid base64 !!!")
	assert.Error(t, err)
}

func TestSetBanned(t *testing.T) {
	users, userRepo, _, _ := newUserFixture(t)
	ctx := context.Background()

	assert.NoError(t, users.SetBanned(ctx, "bob", true))

	user, err := userRepo.GetByID(ctx, "bob")
	assert.NoError(t, err)
	assert.True(t, user.IsBanned)

	assert.NoError(t, users.SetBanned(ctx, "bob", false))
	user, err = userRepo.GetByID(ctx, "bob")
	assert.NoError(t, err)
	assert.False(t, user.IsBanned)

	assert.Error(t, users.SetBanned(ctx, "nobody", true))
}
