package config

import (
	"fmt"
	"os"
	"strconv"

	apperrors "goanova/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Data     DataConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection settings. An empty URL means
// runs are kept in memory only.
type DatabaseConfig struct {
	URL string
}

// DataConfig holds data input settings
type DataConfig struct {
	File         string
	DefaultAlpha float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Data: DataConfig{
			File:         getEnvOrDefault("DATA_FILE", ""),
			DefaultAlpha: getEnvFloatOrDefault("DEFAULT_ALPHA", 0.05),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Data.DefaultAlpha <= 0 || c.Data.DefaultAlpha >= 1 {
		return apperrors.ConfigInvalid(
			fmt.Sprintf("DEFAULT_ALPHA must be in (0, 1), got %g", c.Data.DefaultAlpha))
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
