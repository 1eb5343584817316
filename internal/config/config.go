// Package config holds the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds the configuration for the application.
type Config struct {
	// APIBaseURL is the remote backend host. Only the base URL is
	// configurable; local mode ignores it entirely.
	APIBaseURL string `env:"FITMATE_API_URL" envDefault:"http://localhost:8000"`

	// StorePath is the location of the local store document. Defaults
	// to ~/.fitmate/store.json when unset.
	StorePath string `env:"FITMATE_STORE_PATH"`

	// JWTSecret signs session tokens in local mode.
	JWTSecret string `env:"FITMATE_JWT_SECRET" envDefault:"fitmate-dev-secret"`

	// Debug switches on development logging.
	Debug bool `env:"FITMATE_DEBUG"`
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.StorePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.StorePath = filepath.Join(home, ".fitmate", "store.json")
	}

	return cfg, nil
}
