// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharunrega/smansys/internal/config"
	"github.com/tharunrega/smansys/internal/core"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:    "test-secret-0123456789abcdef",
		ExpiresIn: time.Hour,
		Issuer:    "smansys",
		Audience:  "smansys-api",
	}
}

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testJWTConfig())
	require.NoError(t, err)
	return m
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	m := newTestTokenManager(t)

	token, err := m.Issue(SessionClaims{
		UserID:    "u-1",
		Email:     "a@example.com",
		Role:      "manager",
		FirstName: "Asha",
		LastName:  "Rao",
	})
	require.NoError(t, err)

	id, err := m.VerifyAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.ID)
	assert.Equal(t, "manager", id.Role)
	assert.Equal(t, "a@example.com", id.Email)
	assert.Equal(t, "Asha", id.FirstName)
	assert.Equal(t, "Rao", id.LastName)
}

func TestTokenExpired(t *testing.T) {
	t.Parallel()
	m := newTestTokenManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue(SessionClaims{UserID: "u-1", Role: "user"})
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestTokenIssuedInFutureIsInvalidNotExpired(t *testing.T) {
	t.Parallel()
	m := newTestTokenManager(t)
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	token, err := m.Issue(SessionClaims{UserID: "u-1", Role: "user"})
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
	assert.NotErrorIs(t, err, core.ErrTokenExpired)
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	other := testJWTConfig()
	other.Secret = "another-secret-0123456789abcdef"
	foreign, err := NewTokenManager(other)
	require.NoError(t, err)

	token, err := foreign.Issue(SessionClaims{UserID: "u-1", Role: "admin"})
	require.NoError(t, err)

	_, err = newTestTokenManager(t).VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenRejectsWrongAudience(t *testing.T) {
	t.Parallel()

	other := testJWTConfig()
	other.Audience = "someone-else"
	foreign, err := NewTokenManager(other)
	require.NoError(t, err)

	token, err := foreign.Issue(SessionClaims{UserID: "u-1", Role: "admin"})
	require.NoError(t, err)

	_, err = newTestTokenManager(t).VerifyAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := newTestTokenManager(t).VerifyAccessToken(context.Background(), "a.b.c")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestNewTokenManagerValidatesSecret(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	cfg.Secret = "short"
	_, err := NewTokenManager(cfg)
	assert.Error(t, err)
}
