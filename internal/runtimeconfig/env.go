package runtimeconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// FromEnv overlays environment variables onto the default configuration.
func FromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
