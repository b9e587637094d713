// AngelaMos | 2026
// service.go

package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tharunrega/smansys/internal/core"
)

var ErrRollNumberTaken = errors.New("roll number already exists")

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

func (s *Service) List(
	ctx context.Context,
	q ListQuery,
) ([]Student, core.Pagination, error) {
	f := q.Filter()
	page := q.PageParams()

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, core.Pagination{}, fmt.Errorf("list students: %w", err)
	}

	students, err := s.repo.Find(ctx, f, page.Offset(), page.Limit)
	if err != nil {
		return nil, core.Pagination{}, fmt.Errorf("list students: %w", err)
	}

	return students, core.NewPagination(page, total), nil
}

// Create checks the roll number up front so the common collision gets a
// friendly error; the unique index still catches concurrent inserts.
func (s *Service) Create(ctx context.Context, req Request) (*Student, error) {
	req.Normalize()

	if err := s.ensureRollNumberFree(ctx, req.RollNumber, ""); err != nil {
		return nil, err
	}

	now := s.now()
	st := &Student{
		ID:        uuid.New().String(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := req.Apply(st); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}

	if err := s.repo.Create(ctx, st); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrRollNumberTaken
		}
		return nil, err
	}

	core.AddSpanEvent(ctx, "student.created",
		attribute.String("student.id", st.ID),
		attribute.String("student.class", st.Class),
	)
	return st, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Student, error) {
	return s.repo.GetByID(ctx, id)
}

// Replace updates the student document. The roll number is only checked
// for collisions when it changes.
func (s *Service) Replace(
	ctx context.Context,
	id string,
	req Request,
) (*Student, error) {
	req.Normalize()

	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.RollNumber != st.RollNumber {
		if err := s.ensureRollNumberFree(ctx, req.RollNumber, id); err != nil {
			return nil, err
		}
	}

	if err := req.Apply(st); err != nil {
		return nil, fmt.Errorf("replace student: %w", err)
	}
	st.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, st); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrRollNumberTaken
		}
		return nil, err
	}

	return st, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	core.AddSpanEvent(ctx, "student.deleted", attribute.String("student.id", id))
	return nil
}

// Count returns the number of stored students.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, Filter{})
}

func (s *Service) ensureRollNumberFree(
	ctx context.Context,
	rollNumber, selfID string,
) error {
	existing, err := s.repo.GetByRollNumber(ctx, rollNumber)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check roll number: %w", err)
	case existing.ID != selfID:
		return ErrRollNumberTaken
	}
	return nil
}
