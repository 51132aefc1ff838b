package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	DBConnString    string
	ShutdownTimeout time.Duration
	LogLevel        string

	RedisAddr       string
	CatalogCacheTTL time.Duration

	MediaDir     string
	MediaURLHost string

	AdminSessionTTL time.Duration
	CartIdleTTL     time.Duration
	CORSOrigins     []string

	// Used only by cmd/seed to create the first admin account.
	AdminEmail    string
	AdminPassword string
}

// Load reads an optional .env file into the process environment and then
// builds Config from it. Variables already set in the environment win.
func Load(files ...string) Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// a missing file is fine, the environment alone is enough
		_ = godotenv.Load(f)
	}
	return FromEnv()
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DBConnString:    os.Getenv("DB_DSN"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", time.Second, 10*time.Second),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		CatalogCacheTTL: envDuration("CATALOG_CACHE_TTL_SECONDS", time.Second, 5*time.Minute),
		MediaDir:        envOrDefault("MEDIA_DIR", "./media"),
		MediaURLHost:    os.Getenv("MEDIA_URL_HOST"),
		AdminSessionTTL: envDuration("ADMIN_SESSION_TTL_MINUTES", time.Minute, 12*time.Hour),
		CartIdleTTL:     envDuration("CART_IDLE_TTL_MINUTES", time.Minute, 2*time.Hour),
		CORSOrigins:     envList("CORS_ORIGINS", []string{"*"}),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
	}
}

// Validate reports configuration the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBConnString) == "" {
		errs = append(errs, errors.New("DB_DSN is required"))
	}
	if strings.TrimSpace(c.MediaURLHost) == "" {
		errs = append(errs, errors.New("MEDIA_URL_HOST is required"))
	}
	return errors.Join(errs...)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, unit, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n >= 0 {
			return time.Duration(n) * unit
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
