package products

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryProductRepository is an in-memory implementation for scaffolding and tests.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*Product
}

// NewMemoryProductRepository creates an empty in-memory product repository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uuid.UUID]*Product),
	}
}

// FetchAll returns all products ordered by creation time descending.
func (m *MemoryProductRepository) FetchAll(_ context.Context) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Product, 0, len(m.products))
	for _, rec := range m.products {
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

// GetByID retrieves a product by identifier.
func (m *MemoryProductRepository) GetByID(_ context.Context, id uuid.UUID) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.products[id]
	if !ok {
		return nil, &NotFoundError{Resource: "product", Key: id.String()}
	}
	return rec.Clone(), nil
}

// Create inserts the supplied product.
func (m *MemoryProductRepository) Create(_ context.Context, record *Product) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[record.ID] = record.Clone()
	return record.Clone(), nil
}

// Update replaces the stored product, failing when the id is unknown.
func (m *MemoryProductRepository) Update(_ context.Context, record *Product) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "product", Key: record.ID.String()}
	}
	m.products[record.ID] = record.Clone()
	return record.Clone(), nil
}

// Delete removes the product. Deleting an unknown id is a no-op.
func (m *MemoryProductRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}
