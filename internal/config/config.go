package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName    string `env:"APP_NAME" envDefault:"Time Deposit"`
	AppEnv     string `env:"APP_ENV,required"` // 'development' or 'production'
	AppURL     string `env:"APP_URL,required"` // base URL for email links and OAuth redirects
	Port       string `env:"PORT" envDefault:"8090"`
	AppTagline string `env:"APP_TAGLINE" envDefault:"Save toward what matters, one month at a time"`

	// Database: "sqlite" or "pgx" (PostgreSQL)
	DBDriver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBConnection string `env:"DB_CONNECTION" envDefault:"./data/timedeposit.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"`

	// Security
	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"168h"`

	// OAuth
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	// Email (RESEND_API_KEY optional in development)
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"noreply@example.com"`
	ResendAPIKey string `env:"RESEND_API_KEY"`

	// Observability
	SentryDSN string `env:"SENTRY_DSN"`

	// Export storage (S3-compatible). Exports are streamed directly when
	// S3_BUCKET is empty.
	S3Region        string        `env:"S3_REGION" envDefault:"us-east-1"`
	S3Bucket        string        `env:"S3_BUCKET"`
	S3AccessKey     string        `env:"S3_ACCESS_KEY"`
	S3SecretKey     string        `env:"S3_SECRET_KEY"`
	S3Endpoint      string        `env:"S3_ENDPOINT"`
	S3PresignExpiry time.Duration `env:"S3_PRESIGN_EXPIRY" envDefault:"15m"`
}

// Load reads .env if present and parses the environment.
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "pgx" {
		return nil, fmt.Errorf("invalid configuration: unknown DB_DRIVER %q", cfg.DBDriver)
	}

	if cfg.IsProduction() {
		err = validateProduction(&cfg)
		if err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// validateProduction ensures services that have a development fallback are
// configured for real deployments.
func validateProduction(cfg *Config) error {
	if cfg.ResendAPIKey == "" {
		return errors.New("production deployment requires RESEND_API_KEY")
	}
	if len(cfg.JWTSecret) < 32 {
		return errors.New("production deployment requires a JWT_SECRET of at least 32 characters")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}

func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Sanitized returns a copy of the config with only public fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:    c.AppName,
		AppEnv:     c.AppEnv,
		AppURL:     c.AppURL,
		Port:       c.Port,
		AppTagline: c.AppTagline,

		// Only presence matters to templates.
		GoogleClientID:     c.GoogleClientID,
		GoogleClientSecret: redact(c.GoogleClientSecret),
		GitHubClientID:     c.GitHubClientID,
		GitHubClientSecret: redact(c.GitHubClientSecret),

		S3Bucket: c.S3Bucket,
	}
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "redacted"
}
