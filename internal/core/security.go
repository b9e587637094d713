// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength = 16
	hashPrefix = "$argon2id$"
)

var ErrMalformedHash = errors.New("malformed password hash")

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

// passwordParams is the cost used for new hashes. Stored hashes with other
// parameters still verify and are upgraded on the next successful login.
var passwordParams = argonParams{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
}

type argonHash struct {
	params argonParams
	salt   []byte
	key    []byte
}

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

func (h argonHash) String() string {
	return fmt.Sprintf(
		"%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		hashPrefix,
		argon2.Version,
		h.params.memory,
		h.params.time,
		h.params.threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key),
	)
}

func (h argonHash) matches(password string) bool {
	other := h.params.derive(password, h.salt)
	return subtle.ConstantTimeCompare(h.key, other) == 1
}

func (h argonHash) stale() bool {
	return h.params != passwordParams
}

// HashPassword returns an encoded argon2id hash in the PHC string format.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	h := argonHash{
		params: passwordParams,
		salt:   salt,
		key:    passwordParams.derive(password, salt),
	}
	return h.String(), nil
}

func VerifyPassword(password, encoded string) (bool, error) {
	h, err := parseArgonHash(encoded)
	if err != nil {
		return false, err
	}
	return h.matches(password), nil
}

var placeholderHash = sync.OnceValue(func() argonHash {
	salt := make([]byte, saltLength)
	return argonHash{
		params: passwordParams,
		salt:   salt,
		key:    passwordParams.derive("placeholder", salt),
	}
})

// VerifyPasswordTimingSafe checks password against encoded, or against a
// placeholder when encoded is nil or empty so unknown accounts cost the same.
// The second return value is a fresh hash when the stored one uses outdated
// parameters and the password matched.
func VerifyPasswordTimingSafe(
	password string,
	encoded *string,
) (bool, string, error) {
	if encoded == nil || *encoded == "" {
		placeholderHash().matches(password)
		return false, "", nil
	}

	h, err := parseArgonHash(*encoded)
	if err != nil {
		placeholderHash().matches(password)
		return false, "", err
	}

	if !h.matches(password) {
		return false, "", nil
	}

	if !h.stale() {
		return true, "", nil
	}

	upgraded, err := HashPassword(password)
	if err != nil {
		//nolint:nilerr // the password matched; the upgrade is retried next login
		return true, "", nil
	}
	return true, upgraded, nil
}

func parseArgonHash(encoded string) (argonHash, error) {
	rest, ok := strings.CutPrefix(encoded, hashPrefix)
	if !ok {
		return argonHash{}, fmt.Errorf("%w: unsupported algorithm", ErrMalformedHash)
	}

	parts := strings.Split(rest, "$")
	if len(parts) != 4 {
		return argonHash{}, fmt.Errorf("%w: expected 4 sections", ErrMalformedHash)
	}

	var version int
	if _, err := fmt.Sscanf(parts[0], "v=%d", &version); err != nil {
		return argonHash{}, fmt.Errorf("%w: version: %w", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return argonHash{}, fmt.Errorf("%w: version %d", ErrMalformedHash, version)
	}

	var h argonHash
	if _, err := fmt.Sscanf(
		parts[1],
		"m=%d,t=%d,p=%d",
		&h.params.memory,
		&h.params.time,
		&h.params.threads,
	); err != nil {
		return argonHash{}, fmt.Errorf("%w: params: %w", ErrMalformedHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[2]); err != nil {
		return argonHash{}, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[3]); err != nil {
		return argonHash{}, fmt.Errorf("%w: key: %w", ErrMalformedHash, err)
	}
	if len(h.key) == 0 {
		return argonHash{}, fmt.Errorf("%w: empty key", ErrMalformedHash)
	}

	//nolint:gosec // G115: argon2 keys are a few dozen bytes
	h.params.keyLen = uint32(len(h.key))
	return h, nil
}
