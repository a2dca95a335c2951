package config

import (
	"os"
	"strconv"

	"tabula/domain/ingest"
	"tabula/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Limits   ingest.Limits
	Preview  PreviewConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	OpsPort string
	GinMode string
}

// DatabaseConfig holds optional persistence settings. An empty URL disables
// the postgres dataset repository.
type DatabaseConfig struct {
	URL string
}

// PreviewConfig holds interactive preview settings
type PreviewConfig struct {
	DefaultLimit int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			OpsPort: getEnvOrDefault("OPS_PORT", "6060"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Limits: ingest.Limits{
			MaxFileBytes: int64(getEnvIntOrDefault("MAX_FILE_BYTES", 50*1024*1024)),
			MaxRows:      getEnvIntOrDefault("MAX_ROWS", 200000),
			MaxColumns:   getEnvIntOrDefault("MAX_COLUMNS", 512),
		},
		Preview: PreviewConfig{
			DefaultLimit: getEnvIntOrDefault("PREVIEW_LIMIT", ingest.DefaultPreviewLimit),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if cfg.Limits.MaxFileBytes < 0 || cfg.Limits.MaxRows < 0 || cfg.Limits.MaxColumns < 0 {
		return errors.ConfigInvalid("size limits must be non-negative")
	}
	if cfg.Preview.DefaultLimit <= 0 {
		return errors.ConfigInvalid("PREVIEW_LIMIT must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
