package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/openfacture/internal/config"
)

// unsetenv clears keys for the duration of the test. envconfig treats a
// variable set to "" as present, which would bypass the defaults.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()

	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetenv(t, "APP_ENV", "PORT", "SERVER_TIMEOUT", "JWT_SECRET", "DATABASE_URL",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"CLIENT_ORIGIN", "ALLOWED_ORIGINS", "BILLING_TOLERANCE")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.True(t, cfg.Billing.Tolerance.Equal(decimal.RequireFromString("0.02")))
	assert.GreaterOrEqual(t, len(cfg.Auth.Secret), 32)
	assert.Equal(t, "postgres://postgres:@localhost:5432/openfacture?sslmode=disable", cfg.ConnectionString())
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Origins())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("ALLOWED_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("BILLING_TOLERANCE", "0.05")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.ConnectionString())
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Origins())
	assert.True(t, cfg.Billing.Tolerance.Equal(decimal.RequireFromString("0.05")))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "MissingSecretInProduction",
			env:  map[string]string{"APP_ENV": "production"},
		},
		{
			name: "ShortSecret",
			env:  map[string]string{"APP_ENV": "development", "JWT_SECRET": "short"},
		},
		{
			name: "NegativeTolerance",
			env:  map[string]string{"APP_ENV": "development", "BILLING_TOLERANCE": "-0.01"},
		},
		{
			name: "BadTolerance",
			env:  map[string]string{"APP_ENV": "development", "BILLING_TOLERANCE": "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetenv(t, "JWT_SECRET", "BILLING_TOLERANCE")

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestConfig_TUIOwner(t *testing.T) {
	var cfg config.Config

	_, err := cfg.TUIOwner()
	assert.Error(t, err)

	cfg.TUI.OwnerID = "not-a-uuid"
	_, err = cfg.TUIOwner()
	assert.Error(t, err)

	cfg.TUI.OwnerID = "6f1c1e0a-2f55-4c0e-9d1d-6a8f0b2c3d4e"
	id, err := cfg.TUIOwner()
	require.NoError(t, err)
	assert.Equal(t, cfg.TUI.OwnerID, id.String())
}
