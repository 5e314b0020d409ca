package sitecms

import (
	"github.com/magvolt/sitecms/internal/runtimeconfig"
)

// Config aggregates runtime settings for the site module.
type Config = runtimeconfig.Config

// ServerConfig captures HTTP listener settings.
type ServerConfig = runtimeconfig.ServerConfig

// DatabaseConfig selects the backing store.
type DatabaseConfig = runtimeconfig.DatabaseConfig

// StorageConfig configures the object storage provider backing uploads.
type StorageConfig = runtimeconfig.StorageConfig

// MediaConfig bounds the image pipeline.
type MediaConfig = runtimeconfig.MediaConfig

// CacheConfig toggles the repository read-through cache.
type CacheConfig = runtimeconfig.CacheConfig

// AuthConfig configures the admin session gate.
type AuthConfig = runtimeconfig.AuthConfig

// LoggingConfig captures provider-specific logging options.
type LoggingConfig = runtimeconfig.LoggingConfig

// DefaultConfig returns the baseline configuration used by the binaries and
// integration tests.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ConfigFromEnv overlays environment variables onto the default
// configuration.
func ConfigFromEnv() (Config, error) {
	return runtimeconfig.FromEnv()
}
