package offerings

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryOfferingRepository is an in-memory implementation for scaffolding and tests.
type MemoryOfferingRepository struct {
	mu        sync.RWMutex
	offerings map[uuid.UUID]*Offering
}

// NewMemoryOfferingRepository creates an empty in-memory offering repository.
func NewMemoryOfferingRepository() *MemoryOfferingRepository {
	return &MemoryOfferingRepository{
		offerings: make(map[uuid.UUID]*Offering),
	}
}

// FetchAll returns all offerings ordered by creation time descending.
func (m *MemoryOfferingRepository) FetchAll(_ context.Context) ([]*Offering, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Offering, 0, len(m.offerings))
	for _, rec := range m.offerings {
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

// GetByID retrieves an offering by identifier.
func (m *MemoryOfferingRepository) GetByID(_ context.Context, id uuid.UUID) (*Offering, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.offerings[id]
	if !ok {
		return nil, &NotFoundError{Resource: "offering", Key: id.String()}
	}
	return rec.Clone(), nil
}

// Create inserts the supplied offering.
func (m *MemoryOfferingRepository) Create(_ context.Context, record *Offering) (*Offering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offerings[record.ID] = record.Clone()
	return record.Clone(), nil
}

// Update replaces the stored offering, failing when the id is unknown.
func (m *MemoryOfferingRepository) Update(_ context.Context, record *Offering) (*Offering, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.offerings[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "offering", Key: record.ID.String()}
	}
	m.offerings[record.ID] = record.Clone()
	return record.Clone(), nil
}

// Delete removes the offering. Deleting an unknown id is a no-op.
func (m *MemoryOfferingRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.offerings, id)
	return nil
}
