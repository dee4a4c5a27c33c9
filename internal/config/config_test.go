package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.DBDriver != "pgx" {
		t.Fatalf("expected pgx driver, got %s", cfg.DBDriver)
	}
	if !cfg.UsesMemoryStores() {
		t.Fatal("expected memory stores without DATABASE_URL")
	}
	if cfg.ApplyRateLimitPerMin != 10 {
		t.Fatalf("expected 10 applies per minute, got %d", cfg.ApplyRateLimitPerMin)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/jobs")
	t.Setenv("DB_DRIVER", "POSTGRES")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()
	if cfg.UsesMemoryStores() {
		t.Fatal("expected postgres stores")
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("expected postgres driver, got %s", cfg.DBDriver)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m ttl, got %s", cfg.AccessTokenTTL)
	}
	if cfg.RunMigrations {
		t.Fatal("expected migrations disabled")
	}
	if cfg.DBMaxOpenConns != 25 {
		t.Fatalf("expected fallback on bad int, got %d", cfg.DBMaxOpenConns)
	}
}
