package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.SchemaPath != "schema.json" {
		t.Errorf("SchemaPath = %q", cfg.SchemaPath)
	}
	if cfg.RequireAuth {
		t.Error("RequireAuth defaults on")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("DATABASE_URL", "file:other.db")

	cfg := Load()
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if !cfg.RequireAuth {
		t.Error("RequireAuth not read from env")
	}
	if cfg.DatabaseURL != "file:other.db" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("REQUIRE_AUTH", "sometimes")

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want default on parse failure", cfg.Port)
	}
	if cfg.RequireAuth {
		t.Error("malformed REQUIRE_AUTH enabled auth")
	}
}
