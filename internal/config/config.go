package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"carelink-backend/internal/oauth"
	"carelink-backend/internal/utils"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port           string
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string
	DBMaxConns     int32
	DBMinConns     int32
	JWTSecret      string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	KakaoAPIURL    string
	LogLevel       slog.Level
	AllowedOrigins string
}

// Load reads the process environment (after .env, if present).
func Load() (*Config, error) {
	if err := utils.LoadEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           utils.GetEnv("PORT", "3001"),
		DatabaseDriver: strings.ToLower(utils.GetEnv("DATABASE_DRIVER", DriverPostgres)),
		DatabaseURL:    utils.GetEnv("DATABASE_URL", ""),
		SQLitePath:     utils.GetEnv("SQLITE_PATH", "carelink.db"),
		DBMaxConns:     int32(utils.GetEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns:     int32(utils.GetEnvInt("DB_MIN_CONNS", 2)),
		JWTSecret:      utils.GetEnv("JWT_SECRET", ""),
		AccessTTL:      utils.GetEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:     utils.GetEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		KakaoAPIURL:    utils.GetEnv("KAKAO_API_URL", oauth.DefaultKakaoAPIURL),
		AllowedOrigins: strings.Join(utils.GetEnvList("ALLOWED_ORIGINS", []string{"*"}), ","),
	}

	if cfg.DatabaseURL == "" {
		// Fallback to individual vars
		cfg.DatabaseURL = "postgres://" + utils.GetEnv("POSTGRES_USER", "postgres") + ":" +
			utils.GetEnv("POSTGRES_PASSWORD", "postgres") + "@" +
			utils.GetEnv("POSTGRES_HOST", "localhost") + ":" +
			utils.GetEnv("POSTGRES_PORT", "5432") + "/" +
			utils.GetEnv("POSTGRES_DB", "carelink") + "?sslmode=disable"
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(utils.GetEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DatabaseDriver)
	}
	if c.DBMaxConns < 1 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS out of range: %d/%d", c.DBMinConns, c.DBMaxConns)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}
