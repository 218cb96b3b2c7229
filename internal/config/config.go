package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int           `env:"PORT" env-default:"8080"`
	DatabasePath string        `env:"DATABASE_PATH" env-default:"./diary.db"`
	AppEnv       string        `env:"APP_ENV" env-default:"development"`
	LogLevel     string        `env:"LOG_LEVEL" env-default:"info"`
	BcryptCost   int           `env:"BCRYPT_COST" env-default:"10"`
	CORSOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:8080" env-separator:","`
	Session      SessionConfig
	Seed         SeedConfig
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET"`
	TTL    time.Duration `env:"SESSION_TTL" env-default:"24h"`
}

// SeedConfig describes the default account created on an empty database.
// It exists for local testing only and is never applied in production.
type SeedConfig struct {
	Enabled  bool   `env:"SEED_DEFAULT_USER" env-default:"true"`
	Email    string `env:"SEED_EMAIL" env-default:"admin@diario.com"`
	Password string `env:"SEED_PASSWORD" env-default:"12345"`
}

// ErrMissingSecret is returned when SESSION_SECRET is not set.
var ErrMissingSecret = errors.New("SESSION_SECRET must be set")

// Load loads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		return ErrMissingSecret
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.ServerPort)
	}
	return nil
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SeedAllowed reports whether the default account may be created.
func (c *Config) SeedAllowed() bool {
	return c.Seed.Enabled && !c.IsProduction()
}
