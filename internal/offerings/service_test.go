package offerings

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newTestService(t *testing.T, opts ...ServiceOption) Service {
	t.Helper()
	return NewService(NewMemoryOfferingRepository(), opts...)
}

func strptr(s string) *string { return &s }

func TestCreateRequiresTitleAndDescription(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateOfferingRequest{Description: "d"}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateOfferingRequest{Title: "t"}); !errors.Is(err, ErrDescriptionRequired) {
		t.Fatalf("expected ErrDescriptionRequired, got %v", err)
	}
}

func TestCreateNormalizesCategory(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreateOfferingRequest{
		Title:       "Solar Installation",
		Description: "Full rooftop installation service",
		Category:    " Commercial ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Category != "commercial" {
		t.Fatalf("expected lowercased category, got %q", created.Category)
	}
}

func TestCreateDefaultsCategoryToOthers(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreateOfferingRequest{
		Title:       "Maintenance",
		Description: "Yearly panel maintenance",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Category != "others" {
		t.Fatalf("expected default category others, got %q", created.Category)
	}
}

func TestAddThenListIncludesRecordWithoutForce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.List(ctx, false); err != nil {
		t.Fatalf("initial list: %v", err)
	}
	created, err := svc.Create(ctx, CreateOfferingRequest{Title: "Audit", Description: "Energy audit"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	listed, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("expected freshly created offering in cached list, got %d records", len(listed))
	}
}

func TestUpdateReplacesImagesWholesale(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateOfferingRequest{
		Title:       "Audit",
		Description: "Energy audit",
		Images:      []string{"a.jpg", "b.jpg"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	next := []string{"c.jpg"}
	updated, err := svc.Update(ctx, UpdateOfferingRequest{ID: created.ID, Images: &next})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Images) != 1 || updated.Images[0] != "c.jpg" {
		t.Fatalf("expected images replaced wholesale, got %#v", updated.Images)
	}
}

func TestUpdateTouchesOnlySuppliedFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateOfferingRequest{
		Title:       "Audit",
		Description: "Energy audit",
		Features:    []string{"on-site"},
		Category:    "consulting",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, UpdateOfferingRequest{ID: created.ID, Description: strptr("Detailed energy audit")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "Detailed energy audit" {
		t.Fatalf("description not updated: %q", updated.Description)
	}
	if updated.Title != "Audit" || updated.Category != "consulting" || len(updated.Features) != 1 {
		t.Fatalf("untouched fields changed: %#v", updated)
	}
}

func TestUpdateUnknownIDFails(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Update(context.Background(), UpdateOfferingRequest{ID: uuid.New(), Title: strptr("x")})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteThenGetReturnsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateOfferingRequest{Title: "Audit", Description: "Energy audit"})
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
		t.Fatalf("deleting unknown offering should succeed, got %v", err)
	}
}
