// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Caption provider identifiers.
const (
	CaptionProviderGemini = "gemini"
	CaptionProviderOpenAI = "openai"
	CaptionProviderNone   = "none"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"NOOR_DB_PATH" envDefault:"./data/noorshare.db"`
	SessionSecret string `env:"NOOR_SESSION_SECRET,required"`
	ServerHost    string `env:"NOOR_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"NOOR_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"NOOR_ENV" envDefault:"development"`
	LogLevel      string `env:"NOOR_LOG_LEVEL" envDefault:"info"`
	Timezone      string `env:"NOOR_TIMEZONE" envDefault:"Local"`

	// Bootstrap operator, created when the users table is empty
	AdminEmail    string `env:"NOOR_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"NOOR_ADMIN_PASSWORD"`
	AdminName     string `env:"NOOR_ADMIN_NAME" envDefault:"Administrator"`

	// Mock connection toggle
	ToggleDelay time.Duration `env:"NOOR_TOGGLE_DELAY" envDefault:"1500ms"`

	// Caption generation
	CaptionProvider string        `env:"NOOR_CAPTION_PROVIDER" envDefault:"gemini"`
	CaptionAPIKey   string        `env:"NOOR_CAPTION_API_KEY"`
	CaptionModel    string        `env:"NOOR_CAPTION_MODEL"`
	CaptionBaseURL  string        `env:"NOOR_CAPTION_BASE_URL"`
	CaptionTimeout  time.Duration `env:"NOOR_CAPTION_TIMEOUT" envDefault:"20s"`
	CaptionRate     float64       `env:"NOOR_CAPTION_RATE" envDefault:"1"` // requests per second
	CaptionBurst    int           `env:"NOOR_CAPTION_BURST" envDefault:"3"`

	// Cache configuration
	RedisURL     string `env:"NOOR_REDIS_URL"`                          // Optional Redis URL for the caption cache
	CachePrefix  string `env:"NOOR_CACHE_PREFIX" envDefault:"noor:"`    // Redis key prefix
	CacheTTL     int    `env:"NOOR_CACHE_TTL" envDefault:"86400"`       // Caption cache TTL in seconds
	CacheMaxSize int    `env:"NOOR_CACHE_MAX_SIZE" envDefault:"1000"`   // Max memory cache entries

	// Event log retention, enforced by a daily maintenance job
	EventRetention time.Duration `env:"NOOR_EVENT_RETENTION" envDefault:"720h"`

	// Seeding configuration
	DoSeed bool `env:"NOOR_DO_SEED" envDefault:"true"` // Seed hadiths and accounts on an empty database
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CaptionEnabled returns true if a caption provider is configured with credentials.
func (c Config) CaptionEnabled() bool {
	return c.CaptionProvider != CaptionProviderNone && c.CaptionAPIKey != ""
}

// Location resolves the configured timezone. Unknown names fall back to time.Local.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("unknown timezone, using local time", "timezone", c.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that struct tags cannot express.
func (c *Config) Validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("NOOR_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("NOOR_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("NOOR_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch c.CaptionProvider {
	case CaptionProviderGemini, CaptionProviderOpenAI, CaptionProviderNone:
	default:
		return fmt.Errorf("NOOR_CAPTION_PROVIDER must be one of %q, %q or %q, got %q",
			CaptionProviderGemini, CaptionProviderOpenAI, CaptionProviderNone, c.CaptionProvider)
	}

	if c.EventRetention <= 0 {
		return fmt.Errorf("NOOR_EVENT_RETENTION must be positive, got %s", c.EventRetention)
	}

	if c.ToggleDelay < 0 {
		return fmt.Errorf("NOOR_TOGGLE_DELAY must not be negative, got %s", c.ToggleDelay)
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
