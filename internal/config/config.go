// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
// A local .env file, when present, is merged into the environment first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DotEnvFile is the optional file merged into the environment by Load.
const DotEnvFile = ".env"

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	// Session store (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Sessions
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"resumeforge_session"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"336h"`
	// CookieSecure is "true", "false" or "auto" (Secure everywhere except development).
	CookieSecure string `env:"COOKIE_SECURE" envDefault:"auto"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// PDF export
	ChromePath       string        `env:"CHROME_PATH"`
	PDFRenderTimeout time.Duration `env:"PDF_RENDER_TIMEOUT" envDefault:"30s"`
	PDFFilename      string        `env:"PDF_FILENAME" envDefault:"resume.pdf"`

	// Rate limiting of login/register submissions (per IP). Off unless enabled.
	RateLimitAuthEnabled bool `env:"RATE_LIMIT_AUTH_ENABLED" envDefault:"false"`
	RateLimitAuthRPS     int  `env:"RATE_LIMIT_AUTH_RPS" envDefault:"1"`
	RateLimitAuthBurst   int  `env:"RATE_LIMIT_AUTH_BURST" envDefault:"10"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SecureCookies reports whether session and flash cookies carry the Secure attribute.
func (c *Config) SecureCookies() bool {
	switch c.CookieSecure {
	case "true":
		return true
	case "false":
		return false
	default:
		return !c.IsDevelopment()
	}
}

// Load merges DotEnvFile into the environment (without overriding variables
// that are already set), parses it and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
