package leads

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryLeadRepository is an in-memory implementation for scaffolding and tests.
type MemoryLeadRepository struct {
	mu    sync.RWMutex
	leads map[uuid.UUID]*Lead
}

// NewMemoryLeadRepository creates an empty in-memory lead repository.
func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{
		leads: make(map[uuid.UUID]*Lead),
	}
}

// FetchAll returns all leads ordered by creation time descending.
func (m *MemoryLeadRepository) FetchAll(_ context.Context) ([]*Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Lead, 0, len(m.leads))
	for _, rec := range m.leads {
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

// GetByID retrieves a lead by identifier.
func (m *MemoryLeadRepository) GetByID(_ context.Context, id uuid.UUID) (*Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.leads[id]
	if !ok {
		return nil, &NotFoundError{Resource: "lead", Key: id.String()}
	}
	return rec.Clone(), nil
}

// Create inserts the supplied lead.
func (m *MemoryLeadRepository) Create(_ context.Context, record *Lead) (*Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[record.ID] = record.Clone()
	return record.Clone(), nil
}

// Update replaces the stored lead, failing when the id is unknown.
func (m *MemoryLeadRepository) Update(_ context.Context, record *Lead) (*Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leads[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "lead", Key: record.ID.String()}
	}
	m.leads[record.ID] = record.Clone()
	return record.Clone(), nil
}

// Delete removes the lead. Deleting an unknown id is a no-op.
func (m *MemoryLeadRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leads, id)
	return nil
}
