package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123")
	t.Setenv("ADMIN_PASSWORD", "s3cret-pass")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.ContactResetDelay)
	assert.Equal(t, 10, cfg.LoginRatePerMin)
	assert.Equal(t, "@every 5m", cfg.RefreshSchedule)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
	assert.Empty(t, cfg.Warnings)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "https://coal.dev, https://admin.coal.dev ,")
	t.Setenv("LOGIN_RATE_PER_MIN", "3")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://coal.dev", "https://admin.coal.dev"}, cfg.CORSOrigins)
	assert.Equal(t, 3, cfg.LoginRatePerMin)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RefreshScheduleOff(t *testing.T) {
	setRequired(t)
	t.Setenv("REFRESH_SCHEDULE", "OFF")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.RefreshSchedule)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("LOGIN_RATE_PER_MIN", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.LoginRatePerMin)
	require.Len(t, cfg.Warnings, 2)
	assert.Contains(t, cfg.Warnings[0], "SESSION_TTL")
	assert.Contains(t, cfg.Warnings[1], "LOGIN_RATE_PER_MIN")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"missing dsn", func(c *Config) { c.DBDSN = "" }, "DB_DSN"},
		{"missing secret", func(c *Config) { c.SessionSecret = "" }, "SESSION_SECRET is not set"},
		{"short secret", func(c *Config) { c.SessionSecret = "short" }, "at least 16 bytes"},
		{"no admin credential", func(c *Config) { c.AdminPassword = ""; c.AdminPasswordHash = "" }, "ADMIN_PASSWORD"},
		{"bad driver", func(c *Config) { c.DBDriver = "oracle" }, "not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				DBDriver:      "postgres",
				DBDSN:         "dsn",
				ServerPort:    "8080",
				SessionSecret: "0123456789abcdef",
				AdminPassword: "pw",
			}
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
