// Package config loads client configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all client configuration.
type Config struct {
	Backend BackendConfig
	Storage StorageConfig
	Logging LogConfig
}

// BackendConfig holds the agent backend endpoint configuration.
type BackendConfig struct {
	BaseURL string        `envconfig:"BACKEND_URL" default:"http://localhost:8000"`
	Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"60s"`
}

// StorageConfig holds local persistence configuration.
type StorageConfig struct {
	Dir string `envconfig:"STORAGE_DIR" default:".studypartner"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 60 * time.Second,
		},
		Storage: StorageConfig{
			Dir: ".studypartner",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
