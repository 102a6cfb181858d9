package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinevibe/cinevibe-server/internal/auth"
	"github.com/cinevibe/cinevibe-server/internal/domain"
	"github.com/cinevibe/cinevibe-server/internal/logger"
)

func newAuthFixture() (*AuthService, *fakeUserStore, *fakeReviewStore, *fakeMedia) {
	reviews := newFakeReviewStore()
	users := newFakeUserStore(reviews)
	media := newFakeMedia()
	return NewAuthService(users, media, logger.Nop()), users, reviews, media
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	svc, users, _, _ := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "Password1")
	require.NoError(t, err)

	stored := users.users[user.ID]
	assert.NotEqual(t, "Password1", stored.PasswordHash)
	assert.True(t, auth.VerifyPassword(stored.PasswordHash, "Password1"))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "Password1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "Password2")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "Password1"},
		{"bad username characters", "al ice", "Password1"},
		{"short password", "alice", "Pw1"},
		{"no uppercase", "alice", "password1"},
		{"no digit", "alice", "Password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "Password1")
	require.NoError(t, err)

	user, err := svc.Login(ctx, "alice", "Password1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Unknown usernames are indistinguishable from wrong passwords.
	_, err = svc.Login(ctx, "nobody", "Password1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDeleteAccountCascadesReviewsAndMedia(t *testing.T) {
	svc, users, reviews, media := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "Password1")
	require.NoError(t, err)

	ref := "blob-1"
	media.blobs[ref] = struct{}{}
	_, _, err = reviews.Upsert(ctx, reviewParams(user.ID, "movie-1", 5, &ref))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, user.ID))

	_, err = users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, reviews.byPair)
	assert.False(t, media.Exists(ref))

	err = svc.DeleteAccount(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
