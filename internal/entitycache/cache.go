// Package entitycache provides the process-wide in-memory mirror shared by
// every entity service. The mirror holds the last full snapshot of a remote
// collection and is only ever replaced wholesale: either by a forced reload
// after a write, or by a push feed from the backing store. Both writers go
// through the same versioned replacement, so concurrent interleavings always
// leave the mirror matching some consistent snapshot of the collection.
package entitycache

import (
	"context"
	"sync"

	"github.com/magvolt/sitecms/internal/logging"
	"github.com/magvolt/sitecms/pkg/interfaces"
)

// Source loads the full remote collection in its canonical order, typically
// descending by creation time.
type Source[T any] func(ctx context.Context) ([]T, error)

// Option configures a cache at construction time.
type Option[T any] func(*Cache[T])

// WithLogger attaches a logger used for reload and watch diagnostics.
func WithLogger[T any](logger interfaces.Logger) Option[T] {
	return func(c *Cache[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Cache mirrors a remote collection in memory.
type Cache[T any] struct {
	mu          sync.RWMutex
	records     []T
	initialized bool
	applied     uint64

	// reloads are ticketed before the remote read so that a slow older
	// reload cannot clobber the result of a newer one.
	ticketMu sync.Mutex
	ticket   uint64

	source Source[T]
	logger interfaces.Logger
}

// New constructs an empty, uninitialized cache over the given source.
func New[T any](source Source[T], opts ...Option[T]) *Cache[T] {
	if source == nil {
		panic("entitycache: source cannot be nil")
	}
	c := &Cache[T]{
		source: source,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the mirrored records. When force is true or the cache has
// never been initialized it performs a full remote read and replaces the
// mirror; otherwise it answers from memory with zero remote reads. An empty
// collection is a valid result. Remote failures propagate unmodified.
func (c *Cache[T]) Snapshot(ctx context.Context, force bool) ([]T, error) {
	if !force {
		c.mu.RLock()
		if c.initialized {
			out := append([]T(nil), c.records...)
			c.mu.RUnlock()
			return out, nil
		}
		c.mu.RUnlock()
	}
	return c.reload(ctx)
}

// Refresh forces a full reload of the mirror and returns the fresh snapshot.
func (c *Cache[T]) Refresh(ctx context.Context) ([]T, error) {
	return c.reload(ctx)
}

// Find scans the mirror for the first record matching the predicate. The
// second return reports whether the scan ran against an initialized mirror
// and found a match; callers fall back to a remote point read otherwise.
func (c *Cache[T]) Find(match func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.initialized {
		for _, rec := range c.records {
			if match(rec) {
				return rec, true
			}
		}
	}
	var zero T
	return zero, false
}

// Len reports the number of mirrored records.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Initialized reports whether the mirror holds a snapshot.
func (c *Cache[T]) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// Replace installs a snapshot pushed by the backing store. The push is
// ticketed like a reload so it participates in the same last-snapshot-wins
// ordering.
func (c *Cache[T]) Replace(records []T) {
	ticket := c.nextTicket()
	c.apply(ticket, records)
}

// Run consumes a push feed until the context ends or the feed closes. Each
// delivery is a full snapshot of the remote collection.
func (c *Cache[T]) Run(ctx context.Context, feed <-chan []T) {
	for {
		select {
		case <-ctx.Done():
			return
		case records, ok := <-feed:
			if !ok {
				return
			}
			c.Replace(records)
			c.logger.Debug("cache snapshot pushed", "count", len(records))
		}
	}
}

func (c *Cache[T]) reload(ctx context.Context) ([]T, error) {
	ticket := c.nextTicket()
	records, err := c.source(ctx)
	if err != nil {
		return nil, err
	}
	c.apply(ticket, records)
	c.logger.Debug("cache reloaded", "count", len(records))

	c.mu.RLock()
	out := append([]T(nil), c.records...)
	c.mu.RUnlock()
	return out, nil
}

func (c *Cache[T]) apply(ticket uint64, records []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket <= c.applied {
		// A newer snapshot already landed; keep it.
		return
	}
	c.records = append([]T(nil), records...)
	c.applied = ticket
	c.initialized = true
}

func (c *Cache[T]) nextTicket() uint64 {
	c.ticketMu.Lock()
	defer c.ticketMu.Unlock()
	c.ticket++
	return c.ticket
}
