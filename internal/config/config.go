// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// knownWeakPasswords contains default/example credentials that must be
// rejected in production.
var knownWeakPasswords = []string{
	"changeme",
	"password",
	"Admin123",
	"administrator",
	"correcthorsebatterystaple",
}

// MinAdminPasswordLength is the minimum required length for the admin password.
const MinAdminPasswordLength = 12

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"LABELD_DB_PATH" envDefault:"./data/labeld.db"`
	ServerHost string `env:"LABELD_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"LABELD_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"LABELD_ENV" envDefault:"development"`
	LogLevel   string `env:"LABELD_LOG_LEVEL" envDefault:"info"`

	// Admin credentials for the protected API surface (HTTP Basic)
	AdminEmail    string `env:"LABELD_ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword string `env:"LABELD_ADMIN_PASSWORD,required"`

	// Cache configuration
	RedisURL     string `env:"LABELD_REDIS_URL"`                        // Optional Redis URL for distributed caching
	CachePrefix  string `env:"LABELD_CACHE_PREFIX" envDefault:"labeld:"` // Redis key prefix
	CacheTTL     int    `env:"LABELD_CACHE_TTL" envDefault:"1800"`      // Default cache TTL in seconds
	CacheMaxSize int    `env:"LABELD_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Event log retention for the pruning job
	EventRetentionDays int `env:"LABELD_EVENT_RETENTION_DAYS" envDefault:"30"`

	// Seeding configuration
	DoSeed bool `env:"LABELD_DO_SEED" envDefault:"false"` // Enable sample data seeding
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

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.AdminPassword) < MinAdminPasswordLength {
		return nil, fmt.Errorf("LABELD_ADMIN_PASSWORD must be at least %d characters long, got %d; "+
			"generate one with: openssl rand -base64 24",
			MinAdminPasswordLength, len(cfg.AdminPassword))
	}

	for _, weak := range knownWeakPasswords {
		if cfg.AdminPassword == weak {
			return nil, fmt.Errorf("LABELD_ADMIN_PASSWORD is a known default value and must not be used; " +
				"generate one with: openssl rand -base64 24")
		}
	}

	if cfg.EventRetentionDays < 1 {
		return nil, fmt.Errorf("LABELD_EVENT_RETENTION_DAYS must be at least 1, got %d", cfg.EventRetentionDays)
	}

	return cfg, nil
}
