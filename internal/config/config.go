package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const devJWTSecret = "openfacture-development-secret-do-not-use"

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"OpenFacture"`
		Env      string `envconfig:"APP_ENV" default:"development"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		URL      string `envconfig:"DATABASE_URL"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"openfacture"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ClientOrigin   string        `envconfig:"CLIENT_ORIGIN" default:"http://localhost:5173"`
		AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS"`
	}

	Auth struct {
		Secret string `envconfig:"JWT_SECRET"`
		Issuer string `envconfig:"JWT_ISSUER" default:"openfacture"`
	}

	Billing struct {
		Tolerance decimal.Decimal `envconfig:"BILLING_TOLERANCE" default:"0.02"`
	}

	TUI struct {
		OwnerID string `envconfig:"TUI_OWNER_ID"`
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) ConnectionString() string {
	if c.DB.URL != "" {
		return c.DB.URL
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Origins is the CORS allow-list: ALLOWED_ORIGINS when set, otherwise the
// single client origin.
func (c *Config) Origins() []string {
	if len(c.Server.AllowedOrigins) > 0 {
		return c.Server.AllowedOrigins
	}

	return []string{c.Server.ClientOrigin}
}

func (c *Config) TUIOwner() (uuid.UUID, error) {
	if c.TUI.OwnerID == "" {
		return uuid.Nil, errors.New("TUI_OWNER_ID is not set")
	}

	id, err := uuid.Parse(c.TUI.OwnerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parsing TUI_OWNER_ID: %w", err)
	}

	return id, nil
}

func (c *Config) validate() error {
	if c.Auth.Secret == "" && c.IsDevelopment() {
		c.Auth.Secret = devJWTSecret
	}

	if len(c.Auth.Secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}

	if c.Billing.Tolerance.IsNegative() {
		return errors.New("BILLING_TOLERANCE must not be negative")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
