// AngelaMos | 2026
// filter.go

package user

import (
	"strings"
	"time"
)

// RoleAll disables the role clause.
const RoleAll = "all"

// Filter selects active users created within [From, To], optionally narrowed
// by role and a case-insensitive search over first name, last name and email.
// Build one with NewFilter and chain WithRole/WithSearch; the zero value of a
// clause means the clause is absent.
type Filter struct {
	From   time.Time
	To     time.Time
	Role   string
	Search string
}

func NewFilter(from, to time.Time) Filter {
	return Filter{From: from, To: to}
}

func (f Filter) WithRole(role string) Filter {
	if role == RoleAll {
		role = ""
	}
	f.Role = role
	return f
}

func (f Filter) WithSearch(search string) Filter {
	f.Search = strings.TrimSpace(search)
	return f
}

// Base drops the role and search clauses, keeping the window.
func (f Filter) Base() Filter {
	return Filter{From: f.From, To: f.To}
}

func (f Filter) HasRole() bool {
	return f.Role != ""
}

func (f Filter) HasSearch() bool {
	return f.Search != ""
}

func (f Filter) Matches(u *User) bool {
	if !u.IsActive {
		return false
	}
	if u.CreatedAt.Before(f.From) || u.CreatedAt.After(f.To) {
		return false
	}
	if f.HasRole() && u.Role != f.Role {
		return false
	}
	if f.HasSearch() {
		needle := strings.ToLower(f.Search)
		return containsFold(u.FirstName, needle) ||
			containsFold(u.LastName, needle) ||
			containsFold(u.Email, needle)
	}
	return true
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
