// AngelaMos | 2026
// service.go

package profile

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/tharunrega/smansys/internal/user"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"

// Store is the slice of the user service that profile operations need.
type Store interface {
	Get(ctx context.Context, id string) (*user.User, error)
	UpdateProfile(ctx context.Context, id string, req user.UpdateProfileRequest) (*user.User, error)
	ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error
	SetAvatar(ctx context.Context, id, avatar string) (*user.User, error)
}

type Service struct {
	users Store
	now   func() time.Time
}

func NewService(users Store) *Service {
	return &Service{
		users: users,
		now:   time.Now,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*user.User, error) {
	return s.users.Get(ctx, id)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req user.UpdateProfileRequest,
) (*user.User, error) {
	return s.users.UpdateProfile(ctx, id, req)
}

func (s *Service) ChangePassword(
	ctx context.Context,
	id string,
	req ChangePasswordRequest,
) error {
	return s.users.ChangePassword(ctx, id, req.CurrentPassword, req.NewPassword)
}

// ReplaceAvatar assigns a generated placeholder avatar. Uploaded bytes are
// not stored anywhere; the URL is derived from the user's name and the
// upload time.
func (s *Service) ReplaceAvatar(ctx context.Context, id string) (string, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return "", err
	}

	avatar := AvatarURL(u.FirstName, u.LastName, s.now())
	updated, err := s.users.SetAvatar(ctx, id, avatar)
	if err != nil {
		return "", fmt.Errorf("replace avatar: %w", err)
	}
	return updated.Avatar, nil
}

func (s *Service) RemoveAvatar(ctx context.Context, id string) (string, error) {
	updated, err := s.users.SetAvatar(ctx, id, "")
	if err != nil {
		return "", err
	}
	return updated.Avatar, nil
}

func AvatarURL(firstName, lastName string, at time.Time) string {
	seed := fmt.Sprintf("%s-%s-%d", firstName, lastName, at.UnixMilli())
	return avatarBaseURL + "?seed=" + url.QueryEscape(seed)
}
