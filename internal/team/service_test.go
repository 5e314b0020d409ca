package team

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func newTestService(t *testing.T, opts ...ServiceOption) Service {
	t.Helper()
	return NewService(NewMemoryMemberRepository(), opts...)
}

func strptr(s string) *string { return &s }

func TestCreateRequiresNameAndPosition(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateMemberRequest{Position: "CTO"}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateMemberRequest{Name: "Asha Rao"}); !errors.Is(err, ErrPositionRequired) {
		t.Fatalf("expected ErrPositionRequired, got %v", err)
	}
}

func TestCreateTrimsFields(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreateMemberRequest{
		Name:     "  Asha Rao ",
		Position: " Chief Engineer ",
		Email:    " asha@example.com ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Asha Rao" || created.Position != "Chief Engineer" || created.Email != "asha@example.com" {
		t.Fatalf("fields not trimmed: %#v", created)
	}
}

func TestAddThenListIncludesRecordWithoutForce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.List(ctx, false); err != nil {
		t.Fatalf("initial list: %v", err)
	}
	created, err := svc.Create(ctx, CreateMemberRequest{Name: "Asha Rao", Position: "CTO"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	listed, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("expected freshly created member in cached list, got %d records", len(listed))
	}
}

func TestConcurrentCreatesBothSurvive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, name := range []string{"Asha Rao", "Ben Okoye"} {
		wg.Add(1)
		go func(slot int, n string) {
			defer wg.Done()
			_, errs[slot] = svc.Create(ctx, CreateMemberRequest{Name: n, Position: "Engineer"})
		}(i, name)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			t.Fatalf("concurrent create: %v", err)
		}
	}

	listed, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected both concurrently created members, got %d", len(listed))
	}
}

func TestUpdateTouchesOnlySuppliedFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateMemberRequest{
		Name:     "Asha Rao",
		Position: "CTO",
		Bio:      "Grid storage specialist",
		LinkedIn: "https://linkedin.com/in/asharao",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, UpdateMemberRequest{ID: created.ID, Position: strptr("CEO")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Position != "CEO" {
		t.Fatalf("position not updated: %q", updated.Position)
	}
	if updated.Name != "Asha Rao" || updated.Bio != "Grid storage specialist" || updated.LinkedIn == "" {
		t.Fatalf("untouched fields changed: %#v", updated)
	}
}

func TestUpdateUnknownIDFails(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Update(context.Background(), UpdateMemberRequest{ID: uuid.New(), Bio: strptr("x")})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteThenGetReturnsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateMemberRequest{Name: "Asha Rao", Position: "CTO"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = svc.Get(ctx, created.ID)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}
}

func TestDeleteMissingIDIsIdempotent(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Delete(context.Background(), uuid.New()); err != nil {
		t.Fatalf("deleting unknown member should succeed, got %v", err)
	}
}
