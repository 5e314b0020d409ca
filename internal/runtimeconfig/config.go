package runtimeconfig

import (
	"errors"
	"time"
)

// ErrDatabaseDriverUnknown reports a driver outside sqlite/postgres.
var ErrDatabaseDriverUnknown = errors.New("site config: database driver must be sqlite or postgres")

// ErrDatabaseDSNRequired reports a missing connection string.
var ErrDatabaseDSNRequired = errors.New("site config: database dsn is required")

// ErrStorageRootRequired reports a missing object storage root.
var ErrStorageRootRequired = errors.New("site config: storage root directory is required")

// ErrStorageSigningKeyRequired reports a missing URL signing secret.
var ErrStorageSigningKeyRequired = errors.New("site config: storage signing key is required")

// ErrAuthSecretRequired reports a missing session signing secret.
var ErrAuthSecretRequired = errors.New("site config: auth secret is required when auth is enabled")

var ErrLoggingProviderUnknown = errors.New("site config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("site config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("site config: logging format is invalid")
var ErrMaxImageWidthInvalid = errors.New("site config: media max image width must be positive")

// Config aggregates runtime settings for the site module. Fields use simple
// types so host applications can extend them later.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Media    MediaConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Logging  LoggingConfig
}

// ServerConfig captures HTTP listener settings.
type ServerConfig struct {
	Addr            string        `env:"SITE_HTTP_ADDR"`
	BasePath        string        `env:"SITE_HTTP_BASE_PATH"`
	ShutdownTimeout time.Duration `env:"SITE_HTTP_SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig selects the backing store.
type DatabaseConfig struct {
	Driver string `env:"SITE_DB_DRIVER"`
	DSN    string `env:"SITE_DB_DSN"`
}

// StorageConfig configures the object storage provider backing uploads.
type StorageConfig struct {
	Root       string `env:"SITE_STORAGE_ROOT"`
	PublicURL  string `env:"SITE_STORAGE_PUBLIC_URL"`
	SigningKey string `env:"SITE_STORAGE_SIGNING_KEY"`
	PathPrefix string `env:"SITE_STORAGE_PATH_PREFIX"`
}

// MediaConfig bounds the image pipeline.
type MediaConfig struct {
	MaxImageWidth int           `env:"SITE_MEDIA_MAX_WIDTH"`
	JPEGQuality   int           `env:"SITE_MEDIA_JPEG_QUALITY"`
	SignedURLTTL  time.Duration `env:"SITE_MEDIA_SIGNED_URL_TTL"`
}

// CacheConfig toggles the repository read-through cache layered under the
// entity mirrors.
type CacheConfig struct {
	Enabled    bool          `env:"SITE_CACHE_ENABLED"`
	DefaultTTL time.Duration `env:"SITE_CACHE_TTL"`
}

// AuthConfig configures the admin session gate.
type AuthConfig struct {
	Enabled    bool          `env:"SITE_AUTH_ENABLED"`
	Secret     string        `env:"SITE_AUTH_SECRET"`
	SessionTTL time.Duration `env:"SITE_AUTH_SESSION_TTL"`
	CookieName string        `env:"SITE_AUTH_COOKIE"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `env:"SITE_LOG_PROVIDER"`
	Level     string   `env:"SITE_LOG_LEVEL"`
	Format    string   `env:"SITE_LOG_FORMAT"`
	AddSource bool     `env:"SITE_LOG_SOURCE"`
	Focus     []string `env:"SITE_LOG_FOCUS"`
}

// DefaultConfig returns the baseline configuration used by the binaries and
// integration tests.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			BasePath:        "/api",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "file:site.db?cache=shared&_fk=1",
		},
		Storage: StorageConfig{
			Root:       "./data/objects",
			PathPrefix: "green-energy",
		},
		Media: MediaConfig{
			MaxImageWidth: 1200,
			JPEGQuality:   80,
			// The original mints effectively non-expiring links; a decade is
			// the closest honest equivalent for a re-mintable URL.
			SignedURLTTL: 10 * 365 * 24 * time.Hour,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: 5 * time.Minute,
		},
		Auth: AuthConfig{
			Enabled:    true,
			SessionTTL: 24 * time.Hour,
			CookieName: "site_session",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// Validate checks cross-field consistency before the module boots.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return ErrDatabaseDriverUnknown
	}
	if c.Database.DSN == "" {
		return ErrDatabaseDSNRequired
	}
	if c.Storage.Root == "" {
		return ErrStorageRootRequired
	}
	if c.Storage.SigningKey == "" {
		return ErrStorageSigningKeyRequired
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		return ErrAuthSecretRequired
	}
	if c.Media.MaxImageWidth <= 0 {
		return ErrMaxImageWidthInvalid
	}
	if err := validateLogging(c.Logging); err != nil {
		return err
	}
	return nil
}

func validateLogging(cfg LoggingConfig) error {
	switch cfg.Provider {
	case "", "noop", "gologger":
	default:
		return ErrLoggingProviderUnknown
	}
	switch cfg.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}
	switch cfg.Format {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}
	return nil
}
