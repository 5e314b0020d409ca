package entitycache_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/magvolt/sitecms/internal/entitycache"
)

type record struct {
	ID    string
	Title string
}

type countingSource struct {
	mu    sync.Mutex
	calls int
	data  []*record
	err   error
}

func (s *countingSource) fetch(context.Context) ([]*record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]*record(nil), s.data...), nil
}

func (s *countingSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestSnapshotServesFromMemoryOnceInitialized(t *testing.T) {
	src := &countingSource{data: []*record{{ID: "a"}, {ID: "b"}}}
	cache := entitycache.New(src.fetch)

	ctx := context.Background()
	first, err := cache.Snapshot(ctx, false)
	if err != nil {
		t.Fatalf("initial snapshot: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 records got %d", len(first))
	}
	if src.callCount() != 1 {
		t.Fatalf("expected 1 remote read got %d", src.callCount())
	}

	for i := 0; i < 5; i++ {
		if _, err := cache.Snapshot(ctx, false); err != nil {
			t.Fatalf("cached snapshot: %v", err)
		}
	}
	if src.callCount() != 1 {
		t.Fatalf("cached reads must not touch the source, got %d calls", src.callCount())
	}
}

func TestSnapshotForceAlwaysReloads(t *testing.T) {
	src := &countingSource{data: []*record{{ID: "a"}}}
	cache := entitycache.New(src.fetch)

	ctx := context.Background()
	if _, err := cache.Snapshot(ctx, true); err != nil {
		t.Fatalf("forced snapshot: %v", err)
	}

	src.mu.Lock()
	src.data = append(src.data, &record{ID: "b"})
	src.mu.Unlock()

	out, err := cache.Snapshot(ctx, true)
	if err != nil {
		t.Fatalf("forced snapshot: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("forced snapshot must reflect remote state, got %d records", len(out))
	}
	if src.callCount() != 2 {
		t.Fatalf("expected 2 remote reads got %d", src.callCount())
	}
}

func TestEmptyCollectionIsValid(t *testing.T) {
	src := &countingSource{}
	cache := entitycache.New(src.fetch)

	out, err := cache.Snapshot(context.Background(), false)
	if err != nil {
		t.Fatalf("snapshot of empty collection: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty snapshot got %d records", len(out))
	}
	if !cache.Initialized() {
		t.Fatal("cache must be initialized after an empty read")
	}
}

func TestSourceFailurePropagates(t *testing.T) {
	boom := errors.New("remote unavailable")
	src := &countingSource{err: boom}
	cache := entitycache.New(src.fetch)

	if _, err := cache.Snapshot(context.Background(), false); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	if cache.Initialized() {
		t.Fatal("failed reload must not mark the cache initialized")
	}
}

func TestFindMissesWhenUninitialized(t *testing.T) {
	src := &countingSource{data: []*record{{ID: "a"}}}
	cache := entitycache.New(src.fetch)

	if _, ok := cache.Find(func(*record) bool { return true }); ok {
		t.Fatal("uninitialized cache must report a miss")
	}

	if _, err := cache.Snapshot(context.Background(), false); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	got, ok := cache.Find(func(r *record) bool { return r.ID == "a" })
	if !ok || got.ID != "a" {
		t.Fatalf("expected to find record a, got %v ok=%v", got, ok)
	}
}

func TestStalePushCannotClobberNewerSnapshot(t *testing.T) {
	src := &countingSource{data: []*record{{ID: "new"}}}
	cache := entitycache.New(src.fetch)

	if _, err := cache.Snapshot(context.Background(), true); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	// Simulate a push whose snapshot was read before the reload above by
	// replaying an older application: Replace always takes a fresh ticket,
	// so the newest writer wins regardless of delivery order.
	cache.Replace([]*record{{ID: "newer"}})
	got, ok := cache.Find(func(r *record) bool { return r.ID == "newer" })
	if !ok {
		t.Fatalf("expected pushed snapshot to win, got %v", got)
	}
}

func TestRunAppliesPushedSnapshots(t *testing.T) {
	src := &countingSource{}
	cache := entitycache.New(src.fetch)

	feed := make(chan []*record, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cache.Run(ctx, feed)
		close(done)
	}()

	feed <- []*record{{ID: "pushed"}}
	close(feed)
	<-done
	cancel()

	if _, ok := cache.Find(func(r *record) bool { return r.ID == "pushed" }); !ok {
		t.Fatal("pushed snapshot not applied")
	}
}

func TestConcurrentForcedReloadsConverge(t *testing.T) {
	src := &countingSource{data: []*record{{ID: "a"}, {ID: "b"}}}
	cache := entitycache.New(src.fetch)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Snapshot(context.Background(), true); err != nil {
				t.Errorf("concurrent reload: %v", err)
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 2 {
		t.Fatalf("mirror must match the remote collection, got %d records", cache.Len())
	}
}
