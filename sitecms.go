package sitecms

import (
	"net/http"

	"github.com/magvolt/sitecms/internal/auth"
	"github.com/magvolt/sitecms/internal/blogs"
	"github.com/magvolt/sitecms/internal/di"
	"github.com/magvolt/sitecms/internal/leads"
	"github.com/magvolt/sitecms/internal/media"
	"github.com/magvolt/sitecms/internal/offerings"
	"github.com/magvolt/sitecms/internal/products"
	"github.com/magvolt/sitecms/internal/storage"
	"github.com/magvolt/sitecms/internal/team"
	"github.com/uptrace/bun"
)

// BlogService exports the blog service contract for consumers of the module.
type BlogService = blogs.Service

// ProductService exports the product service contract.
type ProductService = products.Service

// OfferingService exports the offering service contract.
type OfferingService = offerings.Service

// TeamService exports the team service contract.
type TeamService = team.Service

// LeadService exports the lead service contract.
type LeadService = leads.Service

// MediaService exports the image pipeline contract.
type MediaService = media.Service

// AuthService exports the admin session contract.
type AuthService = auth.Service

// Module represents the top level site runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a site module using the provided configuration and optional
// DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases resources the module opened itself.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// DB exposes the database handle, mainly so hosts can run migrations.
func (m *Module) DB() *bun.DB {
	return m.container.BunDB()
}

// Blogs returns the configured blog service.
func (m *Module) Blogs() BlogService {
	return m.container.BlogService()
}

// Products returns the configured product service.
func (m *Module) Products() ProductService {
	return m.container.ProductService()
}

// Offerings returns the configured offering service.
func (m *Module) Offerings() OfferingService {
	return m.container.OfferingService()
}

// Team returns the configured team service.
func (m *Module) Team() TeamService {
	return m.container.TeamService()
}

// Leads returns the configured lead service.
func (m *Module) Leads() LeadService {
	return m.container.LeadService()
}

// Media returns the configured image pipeline.
func (m *Module) Media() MediaService {
	return m.container.MediaService()
}

// Auth returns the configured auth service, nil when the gate is disabled.
func (m *Module) Auth() AuthService {
	return m.container.AuthService()
}

// Objects returns the configured object store.
func (m *Module) Objects() *storage.LocalStorage {
	return m.container.ObjectStore()
}

// Register mounts the module's HTTP routes on the provided mux.
func (m *Module) Register(mux *http.ServeMux) error {
	return m.container.API().Register(mux)
}

// Handler returns a ready-to-serve handler with all routes mounted.
func (m *Module) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := m.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}
