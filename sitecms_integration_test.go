package sitecms_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	sitecms "github.com/magvolt/sitecms"
	"github.com/magvolt/sitecms/internal/blogs"
	"github.com/magvolt/sitecms/internal/di"
	"github.com/magvolt/sitecms/internal/leads"
	"github.com/magvolt/sitecms/internal/products"
	"github.com/magvolt/sitecms/pkg/testsupport"
)

func newTestModule(t *testing.T) *sitecms.Module {
	t.Helper()

	db, err := testsupport.NewBunMemoryDB(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	cfg := sitecms.DefaultConfig()
	cfg.Database.DSN = "unused"
	cfg.Storage.Root = t.TempDir()
	cfg.Storage.SigningKey = "integration-secret"
	cfg.Storage.PublicURL = "/objects"
	cfg.Auth.Enabled = false
	cfg.Logging.Provider = "noop"

	module, err := sitecms.New(cfg, di.WithBunDB(db))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}

	if err := sitecms.EnsureSchema(context.Background(), module.DB()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return module
}

func TestModuleBlogLifecycleWithBun(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()

	created, err := module.Blogs().Create(ctx, blogs.CreateBlogRequest{
		Title:   "Grid Storage Basics",
		Summary: "How home batteries smooth the duck curve.",
		Body:    "# Storage\n\nBody text.",
	})
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}
	if created.Slug != "grid-storage-basics" {
		t.Fatalf("slug %q", created.Slug)
	}

	records, err := module.Blogs().List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].ID != created.ID {
		t.Fatalf("list mismatch: %#v", records)
	}

	bySlug, err := module.Blogs().GetBySlug(ctx, "grid-storage-basics")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.BodyHTML == "" {
		t.Fatal("expected rendered body on single-record read")
	}

	_, err = module.Blogs().Create(ctx, blogs.CreateBlogRequest{
		Title:   "  grid   STORAGE basics ",
		Summary: "duplicate",
	})
	if !errors.Is(err, blogs.ErrTitleExists) {
		t.Fatalf("expected duplicate title error, got %v", err)
	}

	if err := module.Blogs().Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	records, _ = module.Blogs().List(ctx, false)
	if len(records) != 0 {
		t.Fatalf("blog survived delete: %#v", records)
	}
}

func TestModuleProductSpecificationsSchema(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()

	_, err := module.Products().Create(ctx, products.CreateProductRequest{
		Name:    "Inverter X",
		Summary: "Hybrid inverter",
		Power:   "5kW",
		Specifications: map[string]any{
			"nested": map[string]any{"not": "allowed"},
		},
	})
	if !errors.Is(err, products.ErrSpecInvalid) {
		t.Fatalf("expected schema rejection, got %v", err)
	}

	created, err := module.Products().Create(ctx, products.CreateProductRequest{
		Name:    "Inverter X",
		Summary: "Hybrid inverter",
		Power:   "5kW",
		Specifications: map[string]any{
			"efficiency": "97.5%",
			"phases":     3,
		},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if created.Category != "others" {
		t.Fatalf("default category %q, want others", created.Category)
	}
}

func TestModuleLeadFunnel(t *testing.T) {
	module := newTestModule(t)
	ctx := context.Background()

	lead, err := module.Leads().Create(ctx, leads.CreateLeadRequest{
		Name:  "Dana Ortiz",
		Email: "dana@example.com",
	})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if lead.Status != leads.StatusNew {
		t.Fatalf("status %q, want New", lead.Status)
	}

	updated, err := module.Leads().UpdateStatus(ctx, lead.ID, leads.StatusContacted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != leads.StatusContacted {
		t.Fatalf("status %q, want Contacted", updated.Status)
	}

	if _, err := module.Leads().UpdateStatus(ctx, lead.ID, leads.Status("Lost")); !errors.Is(err, leads.ErrStatusInvalid) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestModuleHandlerServesEnvelope(t *testing.T) {
	module := newTestModule(t)

	handler, err := module.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/blogs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}

	var body struct {
		StatusCode int             `json:"statusCode"`
		Data       json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.StatusCode != http.StatusOK {
		t.Fatalf("envelope statusCode %d", body.StatusCode)
	}
}
