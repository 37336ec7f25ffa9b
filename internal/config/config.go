// Package config loads runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port        int
	DatabaseURL string
	SchemaPath  string
	SchemaURL   string
	SessionKey  string
	RequireAuth bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present; real environment
// variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        envInt("PORT", 8080),
		DatabaseURL: envStr("DATABASE_URL", "file:roster.db?_pragma=busy_timeout(5000)"),
		SchemaPath:  envStr("SCHEMA_PATH", "schema.json"),
		SchemaURL:   os.Getenv("SCHEMA_URL"),
		SessionKey:  envStr("SESSION_KEY", "dev-session-key-change-me"),
		RequireAuth: envBool("REQUIRE_AUTH", false),
	}
}

func envStr(key, fallback string) string {
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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
