package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort             string
	DBDriver             string
	PostgresDSN          string
	RedisURL             string
	JWTSecret            string
	InternalAPIKey       string
	UploadsDir           string
	LogLevel             string
	AccessTokenTTL       time.Duration
	RequestTimeout       time.Duration
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxIdle        time.Duration
	DBConnMaxLife        time.Duration
	DBConnectTimeout     time.Duration
	ApplyRateLimitPerMin int
	RunMigrations        bool
	AdminName            string
	AdminEmail           string
	AdminPassword        string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: skipping .env: %v", err)
	}

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DBDriver:             strings.ToLower(getEnv("DB_DRIVER", "pgx")),
		PostgresDSN:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		InternalAPIKey:       getEnv("INTERNAL_API_KEY", ""),
		UploadsDir:           getEnv("UPLOADS_DIR", "storage"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		AccessTokenTTL:       getDuration("ACCESS_TOKEN_TTL", 2*time.Hour),
		RequestTimeout:       getDuration("REQUEST_TIMEOUT", 10*time.Second),
		DBMaxOpenConns:       getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdle:        getDuration("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:        getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),
		DBConnectTimeout:     getDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		ApplyRateLimitPerMin: getInt("APPLY_RATE_LIMIT_PER_MIN", 10),
		RunMigrations:        getBool("RUN_MIGRATIONS", true),
		AdminName:            getEnv("ADMIN_NAME", ""),
		AdminEmail:           getEnv("ADMIN_EMAIL", ""),
		AdminPassword:        getEnv("ADMIN_PASSWORD", ""),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.DBDriver != "pgx" && cfg.DBDriver != "postgres" {
		log.Fatalf("DB_DRIVER must be pgx or postgres, got %q", cfg.DBDriver)
	}

	return cfg
}

// UsesMemoryStores reports whether the service runs without Postgres.
func (c *Config) UsesMemoryStores() bool {
	return c.PostgresDSN == ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
