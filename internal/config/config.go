// Package config defines the storefront's environment-driven configuration.
package config

import (
	"fmt"
	"time"

	"github.com/daduke1/practica-ecommerce/pkg/config"
)

// Storage backend names accepted by STORAGE_BACKEND.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config holds everything the server needs, loaded from the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8084"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// CatalogAPIURL is the collection endpoint of the product CRUD API.
	CatalogAPIURL string `env:"CATALOG_API_URL" envDefault:"http://localhost:9090/productos"`
	// CatalogSeed controls whether an empty catalog is seeded with the
	// default plants on startup.
	CatalogSeed bool `env:"CATALOG_SEED" envDefault:"true"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	// StoragePath is the record file used by the file backend.
	StoragePath string `env:"STORAGE_PATH" envDefault:"plantcart.json"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.HTTPPort)
	}
	switch c.StorageBackend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of memory, file, redis; got %q", c.StorageBackend)
	}
	if c.StorageBackend == BackendFile && c.StoragePath == "" {
		return fmt.Errorf("STORAGE_PATH is required for the file backend")
	}
	if c.CatalogAPIURL == "" {
		return fmt.Errorf("CATALOG_API_URL must not be empty")
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool { return c.Environment == "development" }
