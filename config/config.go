/*
Package config loads runtime configuration and owns the shared logger.

SOURCES, in increasing precedence:
  1. Built-in defaults
  2. A .env file in the working directory (godotenv, optional)
  3. Process environment variables
Command-line flags in cmd/server override individual fields on top.

VARIABLES:
  PORT                 HTTP port                      (default 8080)
  DB_PATH              SQLite snapshot database       (default inventory.db)
  STATE_FILE           JSON fallback snapshot file    (default inventory_state.json)
  DATA_DIR             reference table directory      (default inventory)
  CONVERSION_FILE      conversion table CSV name      (default conversion.csv)
  RECIPE_FILE          recipe table CSV name          (default recipes.csv)
  MAX_UPLOAD_BYTES     per-request upload cap         (default 16 MiB)
  LOG_LEVEL, LOG_FORMAT  see logging.go
*/
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the server's runtime settings.
type Config struct {
	Port           int
	DBPath         string
	StateFile      string
	DataDir        string
	ConversionFile string
	RecipeFile     string
	MaxUploadBytes int64
}

// Load reads configuration from .env (if present) and the environment.
func Load() Config {
	godotenv.Load()

	return Config{
		Port:           envInt("PORT", 8080),
		DBPath:         envOr("DB_PATH", "inventory.db"),
		StateFile:      envOr("STATE_FILE", "inventory_state.json"),
		DataDir:        envOr("DATA_DIR", "inventory"),
		ConversionFile: envOr("CONVERSION_FILE", "conversion.csv"),
		RecipeFile:     envOr("RECIPE_FILE", "recipes.csv"),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 16<<20),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
