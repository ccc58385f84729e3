package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-volunteer/models"
	"go-volunteer/store"
)

func TestRedeemMarksUserVerified(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "vol@example.com", models.RoleVolunteer)
	token := env.mailer.lastToken()
	require.NotEmpty(t, token)

	user, err := env.verification.Redeem(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "vol@example.com", user.Email)
	assert.True(t, user.IsVerified)

	stored, err := env.users.ByEmail(context.Background(), "vol@example.com")
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
	assert.Empty(t, stored.VerificationToken)
	assert.True(t, stored.VerificationTokenExpire.IsZero())
}

func TestRedeemUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "vol@example.com", models.RoleVolunteer)

	_, err := env.verification.Redeem(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	_, err = env.verification.Redeem(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRedeemTwiceFailsTheSameWay(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "vol@example.com", models.RoleVolunteer)
	token := env.mailer.lastToken()

	_, err := env.verification.Redeem(context.Background(), token)
	require.NoError(t, err)

	// The cleared token is indistinguishable from a wrong one.
	_, err = env.verification.Redeem(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRedeemExpiryBoundary(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "vol@example.com", models.RoleVolunteer)
	token := env.mailer.lastToken()

	// Just inside the 24h window.
	env.advance(24*time.Hour - time.Second)
	_, err := env.verification.Redeem(context.Background(), token)
	require.NoError(t, err)
}

func TestRedeemExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "vol@example.com", models.RoleVolunteer)
	token := env.mailer.lastToken()

	env.advance(25 * time.Hour)
	_, err := env.verification.Redeem(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestRedeemAtExactExpiryFails(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "vol@example.com", models.RoleVolunteer)
	token := env.mailer.lastToken()

	// Expiry must be strictly greater than now.
	env.advance(24 * time.Hour)
	_, err := env.verification.Redeem(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestResendUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	err := env.verification.Resend(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrEmailNotFound)
}

func TestResendAlreadyVerified(t *testing.T) {
	env := newTestEnv(t)
	env.registerVerified(t, "vol@example.com", models.RoleVolunteer)

	err := env.verification.Resend(context.Background(), "vol@example.com")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestResendRotatesToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "vol@example.com", models.RoleVolunteer)
	oldToken := env.mailer.lastToken()

	require.NoError(t, env.verification.Resend(context.Background(), "vol@example.com"))
	newToken := env.mailer.lastToken()
	require.NotEqual(t, oldToken, newToken)

	// Overwriting invalidates the old token.
	_, err := env.verification.Redeem(context.Background(), oldToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	user, err := env.verification.Redeem(context.Background(), newToken)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
}

func TestResendDeliveryFailureClearsToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "vol@example.com", models.RoleVolunteer)

	env.mailer.fail = true
	err := env.verification.Resend(context.Background(), "vol@example.com")
	assert.ErrorIs(t, err, ErrDeliveryFailed)

	user, err := env.users.ByEmail(context.Background(), "vol@example.com")
	require.NoError(t, err)
	assert.Empty(t, user.VerificationToken)
	assert.True(t, user.VerificationTokenExpire.IsZero())
	assert.False(t, user.IsVerified)
}

func TestNewTokenIsOpaqueHex(t *testing.T) {
	env := newTestEnv(t)

	token, expiry, err := env.verification.NewToken()
	require.NoError(t, err)
	assert.Len(t, token, 2*verificationTokenBytes)
	assert.Equal(t, env.now.Add(verificationTokenTTL), expiry)

	other, _, err := env.verification.NewToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestStoreExpiryIsStrict(t *testing.T) {
	users := store.NewMemoryUserStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	user := &models.User{
		Email:                   "x@example.com",
		Role:                    models.RoleVolunteer,
		VerificationToken:       "abc123",
		VerificationTokenExpire: now,
	}
	require.NoError(t, users.Create(context.Background(), user))

	_, err := users.ByVerificationToken(context.Background(), "abc123", now)
	assert.ErrorIs(t, err, store.ErrNotFound)

	found, err := users.ByVerificationToken(context.Background(), "abc123", now.Add(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)
}
