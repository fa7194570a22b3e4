package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the immutable process configuration, built once at startup
// and passed explicitly to the components that need it.
type Config struct {
	DatabaseURL     string
	RedisURL        string
	TokenSecret     string
	TokenExpiry     time.Duration
	CookieName      string
	Port            string
	CORSOrigin      string
	CatalogCacheTTL time.Duration
	MigrationsPath  string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		TokenSecret:     os.Getenv("TOKEN_SECRET"),
		TokenExpiry:     time.Duration(getEnvInt("TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		CookieName:      getEnv("AUTH_COOKIE", "auth_token"),
		Port:            getEnv("PORT", "8080"),
		CORSOrigin:      getEnv("CORS_ORIGIN", "http://localhost:5174"),
		CatalogCacheTTL: time.Duration(getEnvInt("CATALOG_CACHE_TTL_SECONDS", 300)) * time.Second,
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		DBMaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  getEnvInt("DB_MAX_IDLE_CONNS", 5),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
