package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AUTH0_DOMAIN", "")
	t.Setenv("AUTH0_AUDIENCE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 10, cfg.DBMaxOpenConns, "invalid integers fall back to the default")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.RateLimitEnabled)
	assert.False(t, cfg.UsesAuth0())
	assert.True(t, cfg.IsTest())
	assert.Same(t, cfg, GetConfig())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DatabaseURL:    "postgres://localhost/complaints",
			DatabaseDriver: "postgres",
			DBMaxOpenConns: 10,
			JWTSecret:      "secret",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid with shared secret", func(c *Config) {}, ""},
		{"valid with auth0", func(c *Config) {
			c.JWTSecret = ""
			c.Auth0Domain = "tenant.auth0.com"
			c.Auth0Audience = "https://api.complaints.test"
		}, ""},
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL is required"},
		{"unknown driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "DATABASE_DRIVER"},
		{"no identity source", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET"},
		{"auth0 without audience", func(c *Config) { c.Auth0Domain = "tenant.auth0.com" }, "AUTH0_AUDIENCE"},
		{"empty pool", func(c *Config) { c.DBMaxOpenConns = 0 }, "DB_MAX_OPEN_CONNS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{GoEnv: "production", AWSS3Bucket: "complaint-files"}
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.UsesS3())
}
