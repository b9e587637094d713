// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("secret123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	_, err := VerifyPassword("x", "not-a-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$AA$AA")
	assert.Error(t, err)
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	t.Parallel()

	ok, _, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	hash, err := HashPassword("pw123456")
	require.NoError(t, err)

	ok, newHash, err := VerifyPasswordTimingSafe("pw123456", &hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, newHash)
}

func TestStaleHashIsUpgraded(t *testing.T) {
	t.Parallel()

	legacyParams := passwordParams
	legacyParams.time = 2
	salt := []byte("0123456789abcdef")
	legacy := argonHash{
		params: legacyParams,
		salt:   salt,
		key:    legacyParams.derive("pw123456", salt),
	}.String()

	ok, upgraded, err := VerifyPasswordTimingSafe("pw123456", &legacy)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, upgraded)

	h, err := parseArgonHash(upgraded)
	require.NoError(t, err)
	assert.False(t, h.stale())

	ok, upgraded, err = VerifyPasswordTimingSafe("wrong", &legacy)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, upgraded)
}

func TestParseArgonHash(t *testing.T) {
	t.Parallel()

	h, err := parseArgonHash("$argon2id$v=19$m=65536,t=2,p=4$" +
		"c29tZXNhbHRzb21lc2FsdA$" +
		"placeholderplaceholderplaceholderplace")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), h.params.time)
	assert.True(t, h.stale())

	for _, bad := range []string{
		"garbage",
		"$argon2id$v=19$m=1,t=1,p=1$AA",
		"$argon2id$v=18$m=1,t=1,p=1$AA$AA",
		"$argon2id$v=19$m=x,t=1,p=1$AA$AA",
		"$argon2id$v=19$m=1,t=1,p=1$!!$AA",
	} {
		_, err := parseArgonHash(bad)
		assert.ErrorIs(t, err, ErrMalformedHash, bad)
	}
}
