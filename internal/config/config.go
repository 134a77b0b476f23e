// Package config loads the server configuration from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	GinMode        string
	BackendURL     string
	BackendTimeout time.Duration
	MaxUploadBytes int64
	SessionTTL     time.Duration
	MaxSessions    int
	TopRiskN       int
	LogLevel       string
	EnableDB       bool
	DatabaseURL    string
	AllowOrigins   []string
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		GinMode:      getEnv("GIN_MODE", "release"),
		BackendURL:   strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:5000"), "/"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		EnableDB:     strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		AllowOrigins: splitList(getEnv("ALLOW_ORIGINS", "*")),
	}

	var err error
	if cfg.BackendTimeout, err = getDuration("BACKEND_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MaxUploadBytes, err = getInt64("MAX_UPLOAD_BYTES", 10<<20); err != nil {
		return nil, err
	}
	maxSessions, err := getInt64("MAX_SESSIONS", 10000)
	if err != nil {
		return nil, err
	}
	cfg.MaxSessions = int(maxSessions)
	topN, err := getInt64("TOP_RISK_N", 10)
	if err != nil {
		return nil, err
	}
	cfg.TopRiskN = int(topN)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the cross-field rules. It is also run after command-line overrides.
func (c *Config) Validate() error {
	if c.EnableDB && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL must not be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("MAX_SESSIONS must be positive, got %d", c.MaxSessions)
	}
	if c.TopRiskN <= 0 {
		return fmt.Errorf("TOP_RISK_N must be positive, got %d", c.TopRiskN)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
