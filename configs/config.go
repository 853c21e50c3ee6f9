package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	Render    RenderConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	Environment    string
}

type CacheConfig struct {
	// TTL applies to both cache tiers.
	TTL time.Duration
	// HTTPCacheTTL drives the Cache-Control max-age on responses.
	HTTPCacheTTL time.Duration
	// Capacity bounds the memory tier entry count.
	Capacity int
	// Dir is the disk tier directory.
	Dir string
	// SweepInterval is the period of the background expiry sweep.
	SweepInterval time.Duration
}

type RenderConfig struct {
	Timeout  time.Duration
	Attempts int
	Backoff  time.Duration
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

type AdminConfig struct {
	// Token guards the cache-mutation endpoints. Empty disables them.
	Token string
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8080"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:    getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			AllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),
			Environment:    getEnv("ENVIRONMENT", "development"),
		},
		Cache: CacheConfig{
			TTL:           time.Duration(getIntEnv("CACHE_TTL_SECONDS", 3600)) * time.Second,
			HTTPCacheTTL:  time.Duration(getIntEnv("HTTP_CACHE_TTL_SECONDS", 86400)) * time.Second,
			Capacity:      getIntEnv("CACHE_CAPACITY", 100),
			Dir:           getEnv("CACHE_DIR", "./cache"),
			SweepInterval: getDurationEnv("CACHE_SWEEP_INTERVAL", time.Minute),
		},
		Render: RenderConfig{
			Timeout:  getDurationEnv("RENDER_TIMEOUT", 15*time.Second),
			Attempts: getIntEnv("RENDER_ATTEMPTS", 3),
			Backoff:  getDurationEnv("RENDER_BACKOFF", 250*time.Millisecond),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getIntEnv("RATE_LIMIT_MAX", 60),
			Window:      getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
		Admin: AdminConfig{
			Token: getEnv("ADMIN_TOKEN", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
