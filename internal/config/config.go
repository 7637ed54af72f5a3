// Package config reads application configuration from the environment.
//
// A .env file in the working directory is loaded first (godotenv), then
// real environment variables override it. Everything has a development
// default so `go run ./cmd/server` works out of the box — but the JWT
// secret default is insecure and the server says so loudly at startup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// InsecureDefaultSecret is the fallback signing secret used when
// JWT_SECRET is not set. Anyone who knows it can forge tokens, so it
// must never be used outside local development.
const InsecureDefaultSecret = "your-very-secure-secret-key"

// Config holds all runtime configuration for the server.
type Config struct {
	Port      int    // HTTP listen port (PORT, default 3000)
	DBPath    string // SQLite database file (DB_PATH, default data/autotrack.db)
	StaticDir string // front-end files served at / (STATIC_DIR, default public)
	JWTSecret string // token signing secret (JWT_SECRET)
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file just means plain env vars.
	_ = godotenv.Load()

	cfg := &Config{
		Port:      3000,
		DBPath:    "data/autotrack.db",
		StaticDir: "public",
		JWTSecret: InsecureDefaultSecret,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}

	return cfg, nil
}

// UsingInsecureSecret reports whether the signing secret is still the
// hardcoded development fallback.
func (c *Config) UsingInsecureSecret() bool {
	return c.JWTSecret == InsecureDefaultSecret
}
