// AngelaMos | 2026
// repository.go

package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tharunrega/smansys/internal/core"
)

type Repository interface {
	Create(ctx context.Context, s *Student) error
	GetByID(ctx context.Context, id string) (*Student, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*Student, error)
	Update(ctx context.Context, s *Student) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, f Filter) (int, error)
	Find(ctx context.Context, f Filter, offset, limit int) ([]Student, error)
}

const studentColumns = `id, first_name, last_name, roll_number, class, section,
	gender, date_of_birth, accommodation_type, transport_needed, address,
	location, district, pincode, state, contact_number, email,
	parent_details, academic_details, avatar, is_active, created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Student) error {
	query := `
		INSERT INTO students (` + studentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.FirstName,
		s.LastName,
		s.RollNumber,
		s.Class,
		s.Section,
		s.Gender,
		s.DateOfBirth,
		s.AccommodationType,
		s.TransportNeeded,
		s.Address,
		s.Location,
		s.District,
		s.Pincode,
		s.State,
		s.ContactNumber,
		s.Email,
		s.ParentDetails,
		s.AcademicDetails,
		s.Avatar,
		s.IsActive,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create student: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Student, error) {
	return r.getOne(ctx, "get student", "id = $1", id)
}

func (r *repository) GetByRollNumber(
	ctx context.Context,
	rollNumber string,
) (*Student, error) {
	return r.getOne(ctx, "get student by roll number", "roll_number = $1", rollNumber)
}

func (r *repository) Update(ctx context.Context, s *Student) error {
	query := `
		UPDATE students
		SET first_name = $2,
		    last_name = $3,
		    roll_number = $4,
		    class = $5,
		    section = $6,
		    gender = $7,
		    date_of_birth = $8,
		    accommodation_type = $9,
		    transport_needed = $10,
		    address = $11,
		    location = $12,
		    district = $13,
		    pincode = $14,
		    state = $15,
		    contact_number = $16,
		    email = $17,
		    parent_details = $18,
		    academic_details = $19,
		    avatar = $20,
		    updated_at = $21
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.FirstName,
		s.LastName,
		s.RollNumber,
		s.Class,
		s.Section,
		s.Gender,
		s.DateOfBirth,
		s.AccommodationType,
		s.TransportNeeded,
		s.Address,
		s.Location,
		s.District,
		s.Pincode,
		s.State,
		s.ContactNumber,
		s.Email,
		s.ParentDetails,
		s.AcademicDetails,
		s.Avatar,
		s.UpdatedAt,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("update student: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update student: %w", err)
	}

	return requireOneRow("update student", result)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireOneRow("delete student", result)
}

func (r *repository) Count(ctx context.Context, f Filter) (int, error) {
	where, args := filterWhere(f)

	var total int
	query := "SELECT COUNT(*) FROM students WHERE " + where
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

func (r *repository) Find(
	ctx context.Context,
	f Filter,
	offset, limit int,
) ([]Student, error) {
	where, args := filterWhere(f)

	query := fmt.Sprintf(`
		SELECT %s
		FROM students
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		studentColumns, where, len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	var students []Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("find students: %w", err)
	}
	if students == nil {
		students = []Student{}
	}
	return students, nil
}

func (r *repository) getOne(
	ctx context.Context,
	op, where string,
	arg any,
) (*Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE ` + where

	var s Student
	err := r.db.GetContext(ctx, &s, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &s, nil
}

func requireOneRow(op string, result sql.Result) error {
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
	var (
		conditions []string
		args       []any
	)

	eq := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	eq("class", f.Class)
	eq("section", f.Section)
	eq("accommodation_type", f.AccommodationType)

	if f.TransportNeeded != nil {
		args = append(args, *f.TransportNeeded)
		conditions = append(conditions, fmt.Sprintf("transport_needed = $%d", len(args)))
	}

	if f.Search != "" {
		args = append(args, "%"+core.EscapeLike(f.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR roll_number ILIKE $%d)",
			n, n, n))
	}

	if len(conditions) == 0 {
		return "TRUE", nil
	}
	return strings.Join(conditions, " AND "), args
}
