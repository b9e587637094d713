// AngelaMos | 2026
// memory.go

package user

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tharunrega/smansys/internal/core"
)

// MemoryRepository keeps users in process memory. It backs the memory
// database driver and handler tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := m.byEmail[key]; ok {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	stored := *user
	m.byID[user.ID] = &stored
	m.byEmail[key] = user.ID
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryRepository) GetByEmail(
	_ context.Context,
	email string,
) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	cp := *m.byID[id]
	return &cp, nil
}

func (m *MemoryRepository) UpdateProfile(
	_ context.Context,
	id string,
	req UpdateProfileRequest,
) (*User, error) {
	if req.IsEmpty() {
		return nil, fmt.Errorf("update profile: %w", core.ErrInvalidInput)
	}

	return m.mutate(id, "update profile", func(u *User) {
		req.Apply(u)
		u.UpdatedAt = time.Now().UTC()
	})
}

func (m *MemoryRepository) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	_, err := m.mutate(id, "update password", func(u *User) {
		u.PasswordHash = passwordHash
		u.UpdatedAt = time.Now().UTC()
	})
	return err
}

func (m *MemoryRepository) UpdateAvatar(
	_ context.Context,
	id, avatar string,
) (*User, error) {
	return m.mutate(id, "update avatar", func(u *User) {
		u.Avatar = avatar
		u.UpdatedAt = time.Now().UTC()
	})
}

func (m *MemoryRepository) TouchLastLogin(
	_ context.Context,
	id string,
	at time.Time,
) error {
	_, err := m.mutate(id, "touch last login", func(u *User) {
		t := at
		u.LastLogin = &t
	})
	return err
}

// SetActive toggles soft deactivation.
func (m *MemoryRepository) SetActive(id string, active bool) error {
	_, err := m.mutate(id, "set active", func(u *User) {
		u.IsActive = active
	})
	return err
}

func (m *MemoryRepository) CountActive(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, u := range m.byID {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepository) Count(_ context.Context, f Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, u := range m.byID {
		if f.Matches(u) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepository) CountActiveSince(
	_ context.Context,
	since time.Time,
) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, u := range m.byID {
		if u.IsActive && loggedInSince(u, since) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepository) CountByRole(
	_ context.Context,
) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int)
	for _, u := range m.byID {
		if u.IsActive {
			out[u.Role]++
		}
	}
	return out, nil
}

func (m *MemoryRepository) DailySignups(
	_ context.Context,
	f Filter,
) ([]DailyCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int)
	for _, u := range m.byID {
		if f.Matches(u) {
			counts[u.CreatedAt.UTC().Format(time.DateOnly)]++
		}
	}

	out := make([]DailyCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, DailyCount{Date: date, Count: n})
	}
	slices.SortFunc(out, func(a, b DailyCount) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return out, nil
}

func (m *MemoryRepository) Find(
	_ context.Context,
	f Filter,
	offset, limit int,
) ([]User, error) {
	m.mu.RLock()
	matched := make([]User, 0)
	for _, u := range m.byID {
		if f.Matches(u) {
			matched = append(matched, *u)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(matched, func(a, b User) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if offset >= len(matched) {
		return []User{}, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}

func (m *MemoryRepository) RoleStats(
	_ context.Context,
	since time.Time,
) ([]RoleStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type acc struct {
		count    int
		sumMilli int64
		recent   int
	}
	byRole := make(map[string]*acc)

	for _, u := range m.byID {
		if !u.IsActive {
			continue
		}
		a, ok := byRole[u.Role]
		if !ok {
			a = &acc{}
			byRole[u.Role] = a
		}
		a.count++
		a.sumMilli += u.CreatedAt.UnixMilli()
		if loggedInSince(u, since) {
			a.recent++
		}
	}

	out := make([]RoleStat, 0, len(byRole))
	for role, a := range byRole {
		out = append(out, RoleStat{
			Role:           role,
			Count:          a.count,
			AvgCreatedAt:   time.UnixMilli(a.sumMilli / int64(a.count)).UTC(),
			LastLoginCount: a.recent,
		})
	}
	slices.SortFunc(out, func(a, b RoleStat) int {
		return cmp.Compare(a.Role, b.Role)
	})
	return out, nil
}

func (m *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryRepository) mutate(
	id, op string,
	fn func(u *User),
) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	fn(u)
	cp := *u
	return &cp, nil
}

func loggedInSince(u *User, since time.Time) bool {
	return u.LastLogin != nil && !u.LastLogin.Before(since)
}
