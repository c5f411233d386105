// Package config handles application configuration.
//
// Go Pattern: Configuration via environment variables with sensible
// defaults. A struct holds the values and a Load function reads them —
// explicit, no framework, no global state.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// defaultCORSOrigin is the Vite dev server. Fine for development,
// refused in release mode.
const defaultCORSOrigin = "http://localhost:5173"

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    string
	GinMode string // "debug", "release", or "test"

	// Preview limits for POST /api/v1/convert/preview
	PreviewRows  int // table rows per preview
	PreviewChars int // text characters per preview

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
//
// Go Pattern: Functions that can fail return (value, error). This is Go's
// alternative to exceptions — the caller MUST handle the error.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// Preview defaults
		PreviewRows:  getEnvInt("PREVIEW_ROWS", 10),
		PreviewChars: getEnvInt("PREVIEW_CHARS", 2000),

		// CORS — in production, set this to your frontend URL
		AllowedOrigins: []string{
			getEnv("CORS_ORIGIN", defaultCORSOrigin),
		},
	}

	// Security: a real origin MUST be set in production mode.
	// In release mode, we refuse to start with the dev default.
	if cfg.GinMode == "release" && cfg.AllowedOrigins[0] == defaultCORSOrigin {
		return nil, fmt.Errorf("CORS_ORIGIN must be set in production; refusing to start with the dev default")
	}

	if cfg.PreviewRows < 1 {
		return nil, fmt.Errorf("PREVIEW_ROWS must be at least 1")
	}
	if cfg.PreviewChars < 1 {
		return nil, fmt.Errorf("PREVIEW_CHARS must be at least 1")
	}

	return cfg, nil
}

// getEnv reads an environment variable with a fallback default.
// Go Pattern: Small helper functions are idiomatic. Go favors simple,
// composable functions over complex frameworks.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}
