// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tharunrega/smansys/internal/core"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrNoChanges          = errors.New("no data to update")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

type NewUser struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

func (s *Service) Register(ctx context.Context, in NewUser) (*User, error) {
	hash, err := core.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	role := in.Role
	if role == "" {
		role = RoleUser
	}

	now := s.now()
	u := &User{
		ID:           uuid.New().String(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Authenticate verifies credentials and records the login time. Unknown
// emails still pay for a hash verification.
func (s *Service) Authenticate(
	ctx context.Context,
	email, password string,
) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	var storedHash *string
	if u != nil {
		storedHash = &u.PasswordHash
	}

	valid, newHash, verifyErr := core.VerifyPasswordTimingSafe(password, storedHash)
	if u == nil || verifyErr != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	if newHash != "" {
		if err := s.repo.UpdatePassword(ctx, u.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", u.ID,
				"error", err,
			)
		}
	}

	now := s.now()
	if err := s.repo.TouchLastLogin(ctx, u.ID, now); err != nil {
		return nil, err
	}
	u.LastLogin = &now

	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies the whitelisted fields. An empty request is rejected
// without touching the store.
func (s *Service) UpdateProfile(
	ctx context.Context,
	id string,
	req UpdateProfileRequest,
) (*User, error) {
	if req.IsEmpty() {
		return nil, ErrNoChanges
	}
	return s.repo.UpdateProfile(ctx, id, req)
}

func (s *Service) ChangePassword(
	ctx context.Context,
	id, currentPassword, newPassword string,
) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	valid, err := core.VerifyPassword(currentPassword, u.PasswordHash)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if !valid {
		return ErrInvalidPassword
	}

	hash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, id, hash)
}

func (s *Service) SetAvatar(
	ctx context.Context,
	id, avatar string,
) (*User, error) {
	return s.repo.UpdateAvatar(ctx, id, avatar)
}
