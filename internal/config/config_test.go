package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_HOST", "db")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseDriver != DriverPostgres {
		t.Fatalf("driver = %q", cfg.DatabaseDriver)
	}
	if !strings.Contains(cfg.DatabaseURL, "@db:5432/") {
		t.Fatalf("url = %q", cfg.DatabaseURL)
	}
	if cfg.AccessTTL != 15*time.Minute || cfg.RefreshTTL != 30*24*time.Hour {
		t.Fatalf("ttls = %v %v", cfg.AccessTTL, cfg.RefreshTTL)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 2 {
		t.Fatalf("pool = %d/%d, want 10/2", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MIN_CONNS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseDriver != DriverSQLite || cfg.LogLevel != slog.LevelDebug || cfg.AccessTTL != 5*time.Minute {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.AllowedOrigins != "https://a.example,https://b.example" {
		t.Fatalf("origins = %q", cfg.AllowedOrigins)
	}
	if cfg.DBMaxConns != 25 || cfg.DBMinConns != 0 {
		t.Fatalf("pool = %d/%d, want 25/0", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestLoadRejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("missing JWT_SECRET must fail")
	}

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatal("unknown driver must fail")
	}

	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "5")
	if _, err := Load(); err == nil {
		t.Fatal("min above max must fail")
	}
}
