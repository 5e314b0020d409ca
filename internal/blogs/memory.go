package blogs

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryBlogRepository is an in-memory implementation for scaffolding and
// tests. It doubles as the push-feed fixture: every mutation broadcasts a
// fresh snapshot to subscribers.
type MemoryBlogRepository struct {
	mu          sync.RWMutex
	blogs       map[uuid.UUID]*Blog
	subscribers []chan []*Blog
}

// NewMemoryBlogRepository creates an empty in-memory blog repository.
func NewMemoryBlogRepository() *MemoryBlogRepository {
	return &MemoryBlogRepository{
		blogs: make(map[uuid.UUID]*Blog),
	}
}

// FetchAll returns all blogs ordered by creation time descending.
func (m *MemoryBlogRepository) FetchAll(_ context.Context) ([]*Blog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked(), nil
}

// GetByID retrieves a blog by identifier.
func (m *MemoryBlogRepository) GetByID(_ context.Context, id uuid.UUID) (*Blog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.blogs[id]
	if !ok {
		return nil, &NotFoundError{Resource: "blog", Key: id.String()}
	}
	return rec.Clone(), nil
}

// GetByTitleLower retrieves a blog by its precomputed normalized title.
func (m *MemoryBlogRepository) GetByTitleLower(_ context.Context, titleLower string) (*Blog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.blogs {
		if rec.TitleLower == titleLower {
			return rec.Clone(), nil
		}
	}
	return nil, &NotFoundError{Resource: "blog", Key: titleLower}
}

// Create inserts the supplied blog.
func (m *MemoryBlogRepository) Create(_ context.Context, record *Blog) (*Blog, error) {
	m.mu.Lock()
	copied := record.Clone()
	m.blogs[copied.ID] = copied
	snapshot := m.snapshotLocked()
	subs := append([]chan []*Blog(nil), m.subscribers...)
	m.mu.Unlock()

	m.broadcast(subs, snapshot)
	return record.Clone(), nil
}

// Update replaces the stored blog, failing when the id is unknown.
func (m *MemoryBlogRepository) Update(_ context.Context, record *Blog) (*Blog, error) {
	m.mu.Lock()
	if _, ok := m.blogs[record.ID]; !ok {
		m.mu.Unlock()
		return nil, &NotFoundError{Resource: "blog", Key: record.ID.String()}
	}
	m.blogs[record.ID] = record.Clone()
	snapshot := m.snapshotLocked()
	subs := append([]chan []*Blog(nil), m.subscribers...)
	m.mu.Unlock()

	m.broadcast(subs, snapshot)
	return record.Clone(), nil
}

// Delete removes the blog. Deleting an unknown id is a no-op.
func (m *MemoryBlogRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	delete(m.blogs, id)
	snapshot := m.snapshotLocked()
	subs := append([]chan []*Blog(nil), m.subscribers...)
	m.mu.Unlock()

	m.broadcast(subs, snapshot)
	return nil
}

// Watch returns a feed of full snapshots, one per mutation.
func (m *MemoryBlogRepository) Watch(_ context.Context) (<-chan []*Blog, error) {
	ch := make(chan []*Blog, 8)
	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()
	return ch, nil
}

func (m *MemoryBlogRepository) snapshotLocked() []*Blog {
	out := make([]*Blog, 0, len(m.blogs))
	for _, rec := range m.blogs {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedOn.Equal(out[j].CreatedOn) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedOn.After(out[j].CreatedOn)
	})
	return out
}

func (m *MemoryBlogRepository) broadcast(subs []chan []*Blog, snapshot []*Blog) {
	for _, ch := range subs {
		select {
		case ch <- snapshot:
		default:
		}
	}
}
