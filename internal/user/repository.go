// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tharunrega/smansys/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(
		ctx context.Context,
		id string,
		req UpdateProfileRequest,
	) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, avatar string) (*User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	CountActive(ctx context.Context) (int, error)
	Count(ctx context.Context, f Filter) (int, error)
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
	CountByRole(ctx context.Context) (map[string]int, error)
	DailySignups(ctx context.Context, f Filter) ([]DailyCount, error)
	Find(ctx context.Context, f Filter, offset, limit int) ([]User, error)
	RoleStats(ctx context.Context, since time.Time) ([]RoleStat, error)

	Ping(ctx context.Context) error
}

const userColumns = `id, first_name, last_name, email, password_hash, role,
	avatar, bio, phone, address, location, district, pincode, state,
	is_active, last_login, created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash,
		                   role, avatar, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Avatar,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdateProfile(
	ctx context.Context,
	id string,
	req UpdateProfileRequest,
) (*User, error) {
	var sets []string
	args := []any{id}

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("first_name", req.FirstName)
	add("last_name", req.LastName)
	add("bio", req.Bio)
	add("phone", req.Phone)
	add("address", req.Address)
	add("location", req.Location)
	add("district", req.District)
	add("pincode", req.Pincode)
	add("state", req.State)

	if len(sets) == 0 {
		return nil, fmt.Errorf("update profile: %w", core.ErrInvalidInput)
	}

	//nolint:gosec // G201: column names come from the fixed whitelist above
	query := fmt.Sprintf(`
		UPDATE users
		SET %s, updated_at = NOW()
		WHERE id = $1
		RETURNING %s`,
		strings.Join(sets, ", "), userColumns)

	var user User
	err := r.db.GetContext(ctx, &user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *repository) UpdateAvatar(
	ctx context.Context,
	id, avatar string,
) (*User, error) {
	query := `
		UPDATE users
		SET avatar = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var user User
	err := r.db.GetContext(ctx, &user, query, id, avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update avatar: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update avatar: %w", err)
	}

	return &user, nil
}

func (r *repository) TouchLastLogin(
	ctx context.Context,
	id string,
	at time.Time,
) error {
	query := `UPDATE users SET last_login = $2 WHERE id = $1`

	return r.execOne(ctx, "touch last login", query, id, at)
}

func (r *repository) CountActive(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM users WHERE is_active`)
	if err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	return total, nil
}

func (r *repository) Count(ctx context.Context, f Filter) (int, error) {
	where, args := filterWhere(f)

	var total int
	query := "SELECT COUNT(*) FROM users WHERE " + where
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

func (r *repository) CountActiveSince(
	ctx context.Context,
	since time.Time,
) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM users WHERE is_active AND last_login >= $1`,
		since,
	)
	if err != nil {
		return 0, fmt.Errorf("count recently active users: %w", err)
	}
	return total, nil
}

func (r *repository) CountByRole(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Role  string `db:"role"`
		Count int    `db:"count"`
	}

	err := r.db.SelectContext(ctx, &rows, `
		SELECT role, COUNT(*) AS count
		FROM users
		WHERE is_active
		GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("count users by role: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Count
	}
	return out, nil
}

func (r *repository) DailySignups(
	ctx context.Context,
	f Filter,
) ([]DailyCount, error) {
	where, args := filterWhere(f)

	query := `
		SELECT TO_CHAR(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS date,
		       COUNT(*) AS count
		FROM users
		WHERE ` + where + `
		GROUP BY 1
		ORDER BY 1`

	var out []DailyCount
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("daily signups: %w", err)
	}
	if out == nil {
		out = []DailyCount{}
	}
	return out, nil
}

func (r *repository) Find(
	ctx context.Context,
	f Filter,
	offset, limit int,
) ([]User, error) {
	where, args := filterWhere(f)

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, where, len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

func (r *repository) RoleStats(
	ctx context.Context,
	since time.Time,
) ([]RoleStat, error) {
	query := `
		SELECT role,
		       COUNT(*) AS count,
		       TO_TIMESTAMP(AVG(EXTRACT(EPOCH FROM created_at))) AS avg_created_at,
		       COUNT(*) FILTER (WHERE last_login >= $1) AS last_login_count
		FROM users
		WHERE is_active
		GROUP BY role
		ORDER BY role`

	var out []RoleStat
	if err := r.db.SelectContext(ctx, &out, query, since); err != nil {
		return nil, fmt.Errorf("role stats: %w", err)
	}
	if out == nil {
		out = []RoleStat{}
	}
	return out, nil
}

func (r *repository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return fmt.Errorf("ping users store: %w", err)
	}
	return nil
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func filterWhere(f Filter) (string, []any) {
	conditions := []string{
		"is_active",
		"created_at >= $1",
		"created_at <= $2",
	}
	args := []any{f.From, f.To}

	if f.HasRole() {
		args = append(args, f.Role)
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)))
	}

	if f.HasSearch() {
		args = append(args, "%"+core.EscapeLike(f.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)",
			n, n, n))
	}

	return strings.Join(conditions, " AND "), args
}
