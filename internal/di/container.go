package di

import (
	"database/sql"
	"fmt"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/magvolt/sitecms/internal/auth"
	"github.com/magvolt/sitecms/internal/blogs"
	sitehttp "github.com/magvolt/sitecms/internal/http"
	"github.com/magvolt/sitecms/internal/leads"
	"github.com/magvolt/sitecms/internal/logging"
	"github.com/magvolt/sitecms/internal/logging/gologger"
	"github.com/magvolt/sitecms/internal/markdown"
	"github.com/magvolt/sitecms/internal/media"
	"github.com/magvolt/sitecms/internal/offerings"
	"github.com/magvolt/sitecms/internal/products"
	"github.com/magvolt/sitecms/internal/runtimeconfig"
	"github.com/magvolt/sitecms/internal/storage"
	"github.com/magvolt/sitecms/internal/team"
	"github.com/magvolt/sitecms/pkg/interfaces"
)

// Container wires module dependencies from configuration. Every binding can
// be overridden through an Option before construction finalises.
type Container struct {
	Config runtimeconfig.Config

	bunDB  *bun.DB
	ownsDB bool

	loggerProvider interfaces.LoggerProvider
	cacheService   repocache.CacheService
	keySerializer  repocache.KeySerializer

	objectStore *storage.LocalStorage

	blogRepo     blogs.Repository
	productRepo  products.Repository
	offeringRepo offerings.Repository
	teamRepo     team.Repository
	leadRepo     leads.Repository
	adminRepo    auth.Repository

	blogSvc     blogs.Service
	productSvc  products.Service
	offeringSvc offerings.Service
	teamSvc     team.Service
	leadSvc     leads.Service
	mediaSvc    media.Service
	authSvc     auth.Service

	api *sitehttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an already opened database handle. The container will
// not close handles it did not open.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCache overrides the default repository cache bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithObjectStorage overrides the default local object store.
func WithObjectStorage(store *storage.LocalStorage) Option {
	return func(c *Container) {
		c.objectStore = store
	}
}

// WithBlogService overrides the default blog service binding.
func WithBlogService(svc blogs.Service) Option {
	return func(c *Container) {
		c.blogSvc = svc
	}
}

// WithProductService overrides the default product service binding.
func WithProductService(svc products.Service) Option {
	return func(c *Container) {
		c.productSvc = svc
	}
}

// WithOfferingService overrides the default offering service binding.
func WithOfferingService(svc offerings.Service) Option {
	return func(c *Container) {
		c.offeringSvc = svc
	}
}

// WithTeamService overrides the default team service binding.
func WithTeamService(svc team.Service) Option {
	return func(c *Container) {
		c.teamSvc = svc
	}
}

// WithLeadService overrides the default lead service binding.
func WithLeadService(svc leads.Service) Option {
	return func(c *Container) {
		c.leadSvc = svc
	}
}

// WithMediaService overrides the default media pipeline binding.
func WithMediaService(svc media.Service) Option {
	return func(c *Container) {
		c.mediaSvc = svc
	}
}

// WithAuthService overrides the default auth service binding.
func WithAuthService(svc auth.Service) Option {
	return func(c *Container) {
		c.authSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureDatabase(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureStorage(); err != nil {
		c.closeOwnedDB()
		return nil, err
	}
	c.configureServices()
	c.configureAPI()

	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	switch c.Config.Logging.Provider {
	case "", "noop":
		return nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
		return nil
	default:
		return runtimeconfig.ErrLoggingProviderUnknown
	}
}

func (c *Container) configureDatabase() error {
	if c.bunDB != nil {
		return nil
	}

	switch c.Config.Database.Driver {
	case "sqlite":
		sqldb, err := sql.Open("sqlite3", c.Config.Database.DSN)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		c.bunDB = bun.NewDB(sqldb, sqlitedialect.New())
	case "postgres":
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(c.Config.Database.DSN)))
		c.bunDB = bun.NewDB(sqldb, pgdialect.New())
	default:
		return runtimeconfig.ErrDatabaseDriverUnknown
	}
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.blogRepo == nil {
		c.blogRepo = blogs.NewBunBlogRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}
	if c.productRepo == nil {
		c.productRepo = products.NewBunProductRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}
	if c.offeringRepo == nil {
		c.offeringRepo = offerings.NewBunOfferingRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}
	if c.teamRepo == nil {
		c.teamRepo = team.NewBunMemberRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}
	if c.leadRepo == nil {
		c.leadRepo = leads.NewBunLeadRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	}
	if c.adminRepo == nil {
		c.adminRepo = auth.NewBunAdminUserRepository(c.bunDB)
	}
}

func (c *Container) configureStorage() error {
	if c.objectStore != nil {
		return nil
	}

	publicURL := c.Config.Storage.PublicURL
	if publicURL == "" {
		publicURL = "/objects"
	}

	storeOpts := []storage.Option{}
	if c.Config.Media.SignedURLTTL > 0 {
		storeOpts = append(storeOpts, storage.WithMaxTTL(c.Config.Media.SignedURLTTL))
	}

	store, err := storage.NewLocalStorage(c.Config.Storage.Root, publicURL, c.Config.Storage.SigningKey, storeOpts...)
	if err != nil {
		return err
	}
	c.objectStore = store
	return nil
}

func (c *Container) configureServices() {
	if c.blogSvc == nil {
		c.blogSvc = blogs.NewService(c.blogRepo,
			blogs.WithRenderer(markdown.NewGoldmarkParser()),
			blogs.WithLogger(logging.BlogsLogger(c.loggerProvider)),
		)
	}
	if c.productSvc == nil {
		c.productSvc = products.NewService(c.productRepo,
			products.WithLogger(logging.ProductsLogger(c.loggerProvider)),
		)
	}
	if c.offeringSvc == nil {
		c.offeringSvc = offerings.NewService(c.offeringRepo,
			offerings.WithLogger(logging.OfferingsLogger(c.loggerProvider)),
		)
	}
	if c.teamSvc == nil {
		c.teamSvc = team.NewService(c.teamRepo,
			team.WithLogger(logging.TeamLogger(c.loggerProvider)),
		)
	}
	if c.leadSvc == nil {
		c.leadSvc = leads.NewService(c.leadRepo,
			leads.WithLogger(logging.LeadsLogger(c.loggerProvider)),
		)
	}

	if c.mediaSvc == nil {
		mediaOpts := []media.ServiceOption{
			media.WithLogger(logging.MediaLogger(c.loggerProvider)),
		}
		if c.Config.Storage.PathPrefix != "" {
			mediaOpts = append(mediaOpts, media.WithPathPrefix(c.Config.Storage.PathPrefix))
		}
		if c.Config.Media.MaxImageWidth > 0 {
			mediaOpts = append(mediaOpts, media.WithMaxWidth(c.Config.Media.MaxImageWidth))
		}
		if c.Config.Media.JPEGQuality > 0 {
			mediaOpts = append(mediaOpts, media.WithJPEGQuality(c.Config.Media.JPEGQuality))
		}
		if c.Config.Media.SignedURLTTL > 0 {
			mediaOpts = append(mediaOpts, media.WithSignedURLTTL(c.Config.Media.SignedURLTTL))
		}
		c.mediaSvc = media.NewService(c.objectStore, mediaOpts...)
	}

	if c.authSvc == nil && c.Config.Auth.Enabled {
		authOpts := []auth.ServiceOption{
			auth.WithLogger(logging.AuthLogger(c.loggerProvider)),
		}
		if c.Config.Auth.SessionTTL > 0 {
			authOpts = append(authOpts, auth.WithSessionTTL(c.Config.Auth.SessionTTL))
		}
		c.authSvc = auth.NewService(c.adminRepo, c.Config.Auth.Secret, authOpts...)
	}
}

func (c *Container) configureAPI() {
	if c.api != nil {
		return
	}

	apiOpts := []sitehttp.Option{
		sitehttp.WithBlogService(c.blogSvc),
		sitehttp.WithProductService(c.productSvc),
		sitehttp.WithOfferingService(c.offeringSvc),
		sitehttp.WithTeamService(c.teamSvc),
		sitehttp.WithLeadService(c.leadSvc),
		sitehttp.WithMediaService(c.mediaSvc),
		sitehttp.WithObjectStore(c.objectStore, "/objects"),
		sitehttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	}
	if c.Config.Server.BasePath != "" {
		apiOpts = append(apiOpts, sitehttp.WithBasePath(c.Config.Server.BasePath))
	}
	if c.authSvc != nil {
		apiOpts = append(apiOpts, sitehttp.WithAuthService(c.authSvc))
	}
	if c.Config.Auth.CookieName != "" {
		apiOpts = append(apiOpts, sitehttp.WithSessionCookie(c.Config.Auth.CookieName))
	}

	c.api = sitehttp.NewAPI(apiOpts...)
}

func (c *Container) closeOwnedDB() {
	if c.ownsDB && c.bunDB != nil {
		_ = c.bunDB.Close()
	}
}

// Close releases resources the container opened itself.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}

// BunDB exposes the database handle for migrations and host integrations.
func (c *Container) BunDB() *bun.DB { return c.bunDB }

// LoggerProvider returns the provider backing the module loggers. It is nil
// when logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// ObjectStore returns the configured object store.
func (c *Container) ObjectStore() *storage.LocalStorage { return c.objectStore }

// BlogService returns the configured blog service.
func (c *Container) BlogService() blogs.Service { return c.blogSvc }

// ProductService returns the configured product service.
func (c *Container) ProductService() products.Service { return c.productSvc }

// OfferingService returns the configured offering service.
func (c *Container) OfferingService() offerings.Service { return c.offeringSvc }

// TeamService returns the configured team service.
func (c *Container) TeamService() team.Service { return c.teamSvc }

// LeadService returns the configured lead service.
func (c *Container) LeadService() leads.Service { return c.leadSvc }

// MediaService returns the configured media pipeline.
func (c *Container) MediaService() media.Service { return c.mediaSvc }

// AuthService returns the configured auth service. It is nil when the admin
// gate is disabled.
func (c *Container) AuthService() auth.Service { return c.authSvc }

// BlogRepository returns the blog repository binding for command handlers.
func (c *Container) BlogRepository() blogs.Repository { return c.blogRepo }

// API returns the HTTP surface over the configured services.
func (c *Container) API() *sitehttp.API { return c.api }
