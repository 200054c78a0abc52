// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service.
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string

	// SQLitePath is the productivity warehouse mirror database.
	SQLitePath string

	// PostgresURL points at the call platform's connected-time store.
	// Empty disables enrichment: reports render without rate columns.
	PostgresURL string

	// OutputDir receives generated .xlsx files.
	OutputDir string

	// RoundPlaces is the heatmap presentation rounding (1 or 2).
	RoundPlaces int
}

// Load reads configuration from a .env file (if present) and the
// environment, with defaults for local development.
func Load() (*Config, error) {
	// Missing .env is fine; env vars alone are a valid configuration.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGINS", "*")},
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SQLitePath:     getEnv("SQLITE_PATH", "productivity.db"),
		PostgresURL:    getEnv("POSTGRES_URL", ""),
		OutputDir:      getEnv("EXCEL_OUTPUT_PATH", "./output"),
	}

	places, err := strconv.Atoi(getEnv("ROUND_PLACES", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid ROUND_PLACES: %w", err)
	}
	if places != 1 && places != 2 {
		return nil, fmt.Errorf("ROUND_PLACES must be 1 or 2, got %d", places)
	}
	cfg.RoundPlaces = places

	return cfg, nil
}

// getEnv gets an environment variable with a fallback default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
