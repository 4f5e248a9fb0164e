package emailverification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemRepository_CreateAndGet(t *testing.T) {
	repo := NewInMemRepository()
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(24 * time.Hour)

	created, err := repo.CreateVerificationToken(ctx, "u1", "a@x.com", "tok-1", expiresAt)
	require.NoError(t, err)
	assert.Equal(t, "u1", created.UserRef)
	assert.Equal(t, "a@x.com", created.Email)
	assert.Equal(t, "tok-1", created.Token)
	assert.Equal(t, expiresAt, created.ExpiresAt)
	assert.False(t, created.Verified)
	assert.Nil(t, created.VerifiedAt)

	got, err := repo.GetVerificationTokenByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, created.Token, got.Token)

	_, err = repo.GetVerificationTokenByToken(ctx, "unknown")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestInMemRepository_GetReturnsCopy(t *testing.T) {
	repo := NewInMemRepository()
	ctx := context.Background()

	_, err := repo.CreateVerificationToken(ctx, "u1", "a@x.com", "tok-1", time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)

	got, err := repo.GetVerificationTokenByToken(ctx, "tok-1")
	require.NoError(t, err)
	got.Verified = true

	again, err := repo.GetVerificationTokenByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, again.Verified)
}

func TestInMemRepository_MarkTokenVerified(t *testing.T) {
	repo := NewInMemRepository()
	ctx := context.Background()
	verifiedAt := time.Now().UTC()

	_, err := repo.CreateVerificationToken(ctx, "u1", "a@x.com", "tok-1", verifiedAt.Add(time.Hour))
	require.NoError(t, err)

	// First write wins
	updated, err := repo.MarkTokenVerified(ctx, "tok-1", verifiedAt)
	require.NoError(t, err)
	assert.True(t, updated)

	got, err := repo.GetVerificationTokenByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, got.Verified)
	require.NotNil(t, got.VerifiedAt)
	assert.Equal(t, verifiedAt, *got.VerifiedAt)

	// Second write reports the lost race instead of re-updating
	updated, err = repo.MarkTokenVerified(ctx, "tok-1", verifiedAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, updated)

	got, err = repo.GetVerificationTokenByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, verifiedAt, *got.VerifiedAt)

	_, err = repo.MarkTokenVerified(ctx, "unknown", verifiedAt)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestInMemRepository_MarkProfileEmailVerified(t *testing.T) {
	repo := NewInMemRepository()
	ctx := context.Background()
	updatedAt := time.Now().UTC()

	err := repo.MarkProfileEmailVerified(ctx, "u1", updatedAt)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	repo.SeedProfile("u1")
	err = repo.MarkProfileEmailVerified(ctx, "u1", updatedAt)
	require.NoError(t, err)

	profile := repo.GetProfile("u1")
	require.NotNil(t, profile)
	assert.True(t, profile.EmailVerified)
	assert.Equal(t, updatedAt, profile.UpdatedAt)

	assert.Nil(t, repo.GetProfile("unknown"))
}

func TestInMemRepository_ExpireActiveTokens(t *testing.T) {
	repo := NewInMemRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := repo.CreateVerificationToken(ctx, "u1", "a@x.com", "live", now.Add(time.Hour))
	require.NoError(t, err)
	_, err = repo.CreateVerificationToken(ctx, "u1", "a@x.com", "done", now.Add(time.Hour))
	require.NoError(t, err)
	_, err = repo.CreateVerificationToken(ctx, "u2", "b@x.com", "other", now.Add(time.Hour))
	require.NoError(t, err)

	_, err = repo.MarkTokenVerified(ctx, "done", now)
	require.NoError(t, err)

	err = repo.ExpireActiveTokens(ctx, "u1", now)
	require.NoError(t, err)

	// Only u1's live token is clamped
	live, err := repo.GetVerificationTokenByToken(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, now, live.ExpiresAt)

	done, err := repo.GetVerificationTokenByToken(ctx, "done")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), done.ExpiresAt)

	other, err := repo.GetVerificationTokenByToken(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), other.ExpiresAt)
}
