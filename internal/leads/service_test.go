package leads

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newTestService(t *testing.T, opts ...ServiceOption) Service {
	t.Helper()
	return NewService(NewMemoryLeadRepository(), opts...)
}

func TestCreateStartsInNewStatus(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreateLeadRequest{
		Name:    "Priya Shah",
		Email:   "priya@example.com",
		Phone:   "+91 98765 43210",
		Message: "Interested in a rooftop quote",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != StatusNew {
		t.Fatalf("expected new lead status %q, got %q", StatusNew, created.Status)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected a generated id")
	}
}

func TestCreateValidatesSubmission(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateLeadRequest{Email: "priya@example.com"}); err == nil {
		t.Fatal("expected validation error for missing name")
	}
	if _, err := svc.Create(ctx, CreateLeadRequest{Name: "Priya", Email: "not-an-email"}); err == nil {
		t.Fatal("expected validation error for malformed email")
	}
}

func TestAddThenListIncludesRecordWithoutForce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.List(ctx, false); err != nil {
		t.Fatalf("initial list: %v", err)
	}
	created, err := svc.Create(ctx, CreateLeadRequest{Name: "Priya", Email: "priya@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	listed, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("expected freshly created lead in cached list, got %d records", len(listed))
	}
}

func TestUpdateStatusWalksFunnel(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateLeadRequest{Name: "Priya", Email: "priya@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	contacted, err := svc.UpdateStatus(ctx, created.ID, StatusContacted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if contacted.Status != StatusContacted {
		t.Fatalf("expected %q, got %q", StatusContacted, contacted.Status)
	}

	converted, err := svc.UpdateStatus(ctx, created.ID, StatusConverted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if converted.Status != StatusConverted {
		t.Fatalf("expected %q, got %q", StatusConverted, converted.Status)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateLeadRequest{Name: "Priya", Email: "priya@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, created.ID, Status("Archived")); !errors.Is(err, ErrStatusInvalid) {
		t.Fatalf("expected ErrStatusInvalid, got %v", err)
	}
}

func TestUpdateStatusUnknownIDFails(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), StatusContacted)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteThenGetReturnsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateLeadRequest{Name: "Priya", Email: "priya@example.com"})
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
		t.Fatalf("deleting unknown lead should succeed, got %v", err)
	}
}
