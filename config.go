package main

import (
	"fmt"
	"os"
)

// Config holds all environment variables for the catalog-service.
type Config struct {
	Port       string // Service port (default: 8082)
	RedisURL   string // Redis connection URL for caching and the import queue
	Store      string // Catalog store backend: "memory" (default) or "redis"
	StorageDir string // Directory for staged async import uploads
}

// LoadConfig loads environment variables into Config struct and validates them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:       os.Getenv("PORT"),
		RedisURL:   os.Getenv("REDIS_URL"),
		Store:      os.Getenv("CATALOG_STORE"),
		StorageDir: os.Getenv("IMPORT_STORAGE_DIR"),
	}

	// Set default port if not provided
	if cfg.Port == "" {
		cfg.Port = "8082"
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://redis:6379"
	}
	if cfg.Store == "" {
		cfg.Store = "memory"
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = os.TempDir()
	}

	if cfg.Store != "memory" && cfg.Store != "redis" {
		return nil, fmt.Errorf("CATALOG_STORE must be \"memory\" or \"redis\", got %q", cfg.Store)
	}

	return cfg, nil
}
