// Package config loads the server configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "console"}
	validDrivers    = []string{"sqlite", "postgres"}
)

// Config holds every setting the server and the follow-up job need.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`
	Port   int    `env:"PORT" envDefault:"5000"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// Database
	DBDriver         string        `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	DBHost           string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort           string        `env:"DB_PORT" envDefault:"5432"`
	DBUser           string        `env:"DB_USER"`
	DBPassword       string        `env:"DB_PASSWORD"`
	DBName           string        `env:"DB_NAME" envDefault:"jobtrack"`
	DBSSLMode        string        `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath       string        `env:"SQLITE_PATH" envDefault:"./jobtrack.db"`
	RunMigrations    bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"60s"`

	// Tokens
	JWTSecret     string        `env:"JWT_SECRET,required"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"168h"`

	// Redis is optional; an empty address disables the stats cache.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"5m"`

	// Follow-up reminders
	FollowUpEnabled  bool   `env:"FOLLOWUP_ENABLED" envDefault:"true"`
	FollowUpSchedule string `env:"FOLLOWUP_SCHEDULE" envDefault:"0 * * * *"`

	// HTTP
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	AuthRateLimitRPS   float64       `env:"AUTH_RATE_LIMIT_RPS" envDefault:"5"`
	AuthRateLimitBurst int           `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`
	ReadTimeout        time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout       time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// SMTP is optional; without a host reminders are only logged.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`
}

// Load reads .env (if any), parses the environment and validates the result.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q", c.LogFormat)
	}
	if !slices.Contains(validDrivers, c.DBDriver) {
		return fmt.Errorf("invalid database driver %q", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.DatabaseURL == "" && c.DBUser == "" {
		return errors.New("postgres requires DATABASE_URL or DB_USER")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	if c.FollowUpEnabled {
		if _, err := cron.ParseStandard(c.FollowUpSchedule); err != nil {
			return fmt.Errorf("invalid FOLLOWUP_SCHEDULE %q: %w", c.FollowUpSchedule, err)
		}
	}
	if c.AuthRateLimitRPS <= 0 || c.AuthRateLimitBurst <= 0 {
		return errors.New("auth rate limit must be positive")
	}
	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MailEnabled reports whether reminders should be sent by email.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}
