// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string     `db:"id"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	Avatar       string     `db:"avatar"`
	Bio          string     `db:"bio"`
	Phone        string     `db:"phone"`
	Address      string     `db:"address"`
	Location     string     `db:"location"`
	District     string     `db:"district"`
	Pincode      string     `db:"pincode"`
	State        string     `db:"state"`
	IsActive     bool       `db:"is_active"`
	LastLogin    *time.Time `db:"last_login"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// Roles lists every assignable role in ascending order.
var Roles = []string{RoleAdmin, RoleManager, RoleUser}

type DailyCount struct {
	Date  string `db:"date"  json:"date"`
	Count int    `db:"count" json:"count"`
}

type RoleStat struct {
	Role           string    `db:"role"             json:"role"`
	Count          int       `db:"count"            json:"count"`
	AvgCreatedAt   time.Time `db:"avg_created_at"   json:"avgCreatedAt"`
	LastLoginCount int       `db:"last_login_count" json:"lastLoginCount"`
}
