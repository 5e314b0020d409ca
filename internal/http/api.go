package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/magvolt/sitecms/internal/auth"
	"github.com/magvolt/sitecms/internal/blogs"
	"github.com/magvolt/sitecms/internal/leads"
	"github.com/magvolt/sitecms/internal/logging"
	"github.com/magvolt/sitecms/internal/media"
	"github.com/magvolt/sitecms/internal/offerings"
	"github.com/magvolt/sitecms/internal/products"
	"github.com/magvolt/sitecms/internal/storage"
	"github.com/magvolt/sitecms/internal/team"
	"github.com/magvolt/sitecms/pkg/interfaces"
)

// API registers the site endpoints: public content reads, the contact form,
// and the authenticated admin mutations behind the dashboard.
type API struct {
	basePath    string
	blogs       blogs.Service
	products    products.Service
	offerings   offerings.Service
	team        team.Service
	leads       leads.Service
	media       media.Service
	auth        auth.Service
	objects     *storage.LocalStorage
	objectsPath string
	cookieName  string
	authEnabled bool
	logger      interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath:    "/api",
		objectsPath: "/objects",
		cookieName:  "site_session",
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithBlogService wires the blog service.
func WithBlogService(service blogs.Service) Option {
	return func(api *API) { api.blogs = service }
}

// WithProductService wires the product service.
func WithProductService(service products.Service) Option {
	return func(api *API) { api.products = service }
}

// WithOfferingService wires the service-line service.
func WithOfferingService(service offerings.Service) Option {
	return func(api *API) { api.offerings = service }
}

// WithTeamService wires the team roster service.
func WithTeamService(service team.Service) Option {
	return func(api *API) { api.team = service }
}

// WithLeadService wires the lead service.
func WithLeadService(service leads.Service) Option {
	return func(api *API) { api.leads = service }
}

// WithMediaService wires the image pipeline.
func WithMediaService(service media.Service) Option {
	return func(api *API) { api.media = service }
}

// WithAuthService wires the admin session service and enables the auth gate
// on mutating endpoints.
func WithAuthService(service auth.Service) Option {
	return func(api *API) {
		api.auth = service
		api.authEnabled = service != nil
	}
}

// WithSessionCookie overrides the cookie name carrying the session token.
func WithSessionCookie(name string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			api.cookieName = trimmed
		}
	}
}

// WithObjectStore wires the local object store so signed URLs resolve. path
// is the mount point, defaulting to "/objects".
func WithObjectStore(store *storage.LocalStorage, path string) Option {
	return func(api *API) {
		api.objects = store
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.objectsPath = trimmed
		}
	}
}

// WithLogger attaches the module logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the site endpoints to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerBlogRoutes(mux, base)
	api.registerProductRoutes(mux, base)
	api.registerOfferingRoutes(mux, base)
	api.registerTeamRoutes(mux, base)
	api.registerLeadRoutes(mux, base)
	api.registerAuthRoutes(mux, base)
	api.registerObjectRoutes(mux)

	return nil
}

// requireAdmin wraps mutating handlers behind the session cookie check. When
// no auth service is wired the gate is open, matching deployments that sit
// behind an external proxy.
func (api *API) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !api.authEnabled {
			next(w, r)
			return
		}
		cookie, err := r.Cookie(api.cookieName)
		if err != nil || cookie.Value == "" {
			writeErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		if _, err := api.auth.Verify(cookie.Value); err != nil {
			writeErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		next(w, r)
	}
}
