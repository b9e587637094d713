// AngelaMos | 2026
// memory.go

package student

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/tharunrega/smansys/internal/core"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*Student
	byRoll map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]*Student),
		byRoll: make(map[string]string),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) Create(_ context.Context, s *Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byRoll[s.RollNumber]; ok {
		return fmt.Errorf("create student: %w", core.ErrDuplicateKey)
	}

	stored := *s
	m.byID[s.ID] = &stored
	m.byRoll[s.RollNumber] = s.ID
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id string) (*Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("get student: %w", core.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryRepository) GetByRollNumber(
	_ context.Context,
	rollNumber string,
) (*Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byRoll[rollNumber]
	if !ok {
		return nil, fmt.Errorf("get student by roll number: %w", core.ErrNotFound)
	}
	cp := *m.byID[id]
	return &cp, nil
}

func (m *MemoryRepository) Update(_ context.Context, s *Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.byID[s.ID]
	if !ok {
		return fmt.Errorf("update student: %w", core.ErrNotFound)
	}

	if owner, taken := m.byRoll[s.RollNumber]; taken && owner != s.ID {
		return fmt.Errorf("update student: %w", core.ErrDuplicateKey)
	}

	delete(m.byRoll, current.RollNumber)
	stored := *s
	stored.IsActive = current.IsActive
	stored.CreatedAt = current.CreatedAt
	m.byID[s.ID] = &stored
	m.byRoll[s.RollNumber] = s.ID
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("delete student: %w", core.ErrNotFound)
	}
	delete(m.byRoll, s.RollNumber)
	delete(m.byID, id)
	return nil
}

func (m *MemoryRepository) Count(_ context.Context, f Filter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, s := range m.byID {
		if f.Matches(s) {
			total++
		}
	}
	return total, nil
}

func (m *MemoryRepository) Find(
	_ context.Context,
	f Filter,
	offset, limit int,
) ([]Student, error) {
	m.mu.RLock()
	matched := make([]Student, 0)
	for _, s := range m.byID {
		if f.Matches(s) {
			matched = append(matched, *s)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(matched, func(a, b Student) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if offset >= len(matched) {
		return []Student{}, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}
