// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/tharunrega/smansys/internal/core"
	"github.com/tharunrega/smansys/internal/user"
)

var ErrEmailExists = errors.New("email already exists")

type UserProvider interface {
	Register(ctx context.Context, in user.NewUser) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	Get(ctx context.Context, id string) (*user.User, error)
}

type TokenIssuer interface {
	Issue(claims SessionClaims) (string, error)
}

type Service struct {
	users  UserProvider
	tokens TokenIssuer
}

func NewService(users UserProvider, tokens TokenIssuer) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	u, err := s.users.Register(ctx, user.NewUser{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Message: "User registered successfully",
		User:    toUserResponse(u, false),
		Token:   token,
	}, nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	u, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.issue(u)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Message: "Login successful",
		User:    toUserResponse(u, true),
		Token:   token,
	}, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*MeResponse, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{User: user.ToResponse(u)}, nil
}

func (s *Service) issue(u *user.User) (string, error) {
	token, err := s.tokens.Issue(SessionClaims{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
