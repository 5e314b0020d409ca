package team

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryMemberRepository is an in-memory implementation for scaffolding and tests.
type MemoryMemberRepository struct {
	mu      sync.RWMutex
	members map[uuid.UUID]*Member
}

// NewMemoryMemberRepository creates an empty in-memory team member repository.
func NewMemoryMemberRepository() *MemoryMemberRepository {
	return &MemoryMemberRepository{
		members: make(map[uuid.UUID]*Member),
	}
}

// FetchAll returns all members ordered by creation time descending.
func (m *MemoryMemberRepository) FetchAll(_ context.Context) ([]*Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Member, 0, len(m.members))
	for _, rec := range m.members {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedOn.Equal(out[j].CreatedOn) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedOn.After(out[j].CreatedOn)
	})
	return out, nil
}

// GetByID retrieves a member by identifier.
func (m *MemoryMemberRepository) GetByID(_ context.Context, id uuid.UUID) (*Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.members[id]
	if !ok {
		return nil, &NotFoundError{Resource: "team member", Key: id.String()}
	}
	return rec.Clone(), nil
}

// Create inserts the supplied member.
func (m *MemoryMemberRepository) Create(_ context.Context, record *Member) (*Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[record.ID] = record.Clone()
	return record.Clone(), nil
}

// Update replaces the stored member, failing when the id is unknown.
func (m *MemoryMemberRepository) Update(_ context.Context, record *Member) (*Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "team member", Key: record.ID.String()}
	}
	m.members[record.ID] = record.Clone()
	return record.Clone(), nil
}

// Delete removes the member. Deleting an unknown id is a no-op.
func (m *MemoryMemberRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.members, id)
	return nil
}
