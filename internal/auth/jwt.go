// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/tharunrega/smansys/internal/config"
	"github.com/tharunrega/smansys/internal/core"
	"github.com/tharunrega/smansys/internal/middleware"
)

const minSecretLen = 16

// TokenManager signs and verifies HS256 session tokens. Tokens are stateless:
// validity is signature, expiry, issuer and audience.
type TokenManager struct {
	secret []byte
	config config.JWTConfig
	now    func() time.Time
}

func NewTokenManager(cfg config.JWTConfig) (*TokenManager, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf(
			"jwt secret must be at least %d bytes",
			minSecretLen,
		)
	}
	if cfg.ExpiresIn <= 0 {
		return nil, fmt.Errorf("jwt expiry must be positive")
	}

	return &TokenManager{
		secret: []byte(cfg.Secret),
		config: cfg,
		now:    time.Now,
	}, nil
}

type SessionClaims struct {
	UserID    string
	Email     string
	Role      string
	FirstName string
	LastName  string
}

func (m *TokenManager) Issue(claims SessionClaims) (string, error) {
	now := m.now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		Expiration(now.Add(m.config.ExpiresIn)).
		Claim("email", claims.Email).
		Claim("role", claims.Role).
		Claim("firstName", claims.FirstName).
		Claim("lastName", claims.LastName).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

func (m *TokenManager) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.Identity, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.TokenExpiredError()) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var role string
	if err := token.Get("role", &role); err != nil || role == "" {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	identity := &middleware.Identity{
		ID:   subject,
		Role: role,
	}

	//nolint:errcheck // optional display claims
	_ = token.Get("email", &identity.Email)
	//nolint:errcheck // optional display claims
	_ = token.Get("firstName", &identity.FirstName)
	//nolint:errcheck // optional display claims
	_ = token.Get("lastName", &identity.LastName)

	return identity, nil
}
