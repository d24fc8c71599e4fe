package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port     string
	Env      string
	RedisURL string // empty selects the in-memory store

	// Chat behavior
	MaxConnections  int           // 0 = unlimited
	HistoryLimit    int           // catch-up payload size on join
	RoomLogCapacity int           // bounded room log size
	TypingTimeout   time.Duration // typing auto-expiry

	// CORS
	AllowedOrigins []string // empty = allow all
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		RedisURL:        os.Getenv("REDIS_URL"),
		MaxConnections:  getEnvInt("MAX_CONNECTIONS", 0),
		HistoryLimit:    getEnvInt("HISTORY_LIMIT", 50),
		RoomLogCapacity: getEnvInt("ROOM_LOG_CAPACITY", 100),
		TypingTimeout:   getEnvDuration("TYPING_TIMEOUT", 3*time.Second),
	}

	// Parse allowed origins (comma-separated)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, entry := range strings.Split(origins, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, entry)
			}
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
