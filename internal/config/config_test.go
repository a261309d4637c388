package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StatusPolicyPermissive, cfg.Order.StatusPolicy)
	assert.Equal(t, 7*24*time.Hour, cfg.Cart.TTL)
	assert.Equal(t, "session_id", cfg.Cart.CookieName)
	assert.Equal(t, 99, cfg.Cart.MaxQuantity)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ORDER_STATUS_POLICY", "STRICT")
	t.Setenv("CART_TTL", "2h")
	t.Setenv("CART_MAX_QUANTITY", "24")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, StatusPolicyStrict, cfg.Order.StatusPolicy)
	assert.Equal(t, 2*time.Hour, cfg.Cart.TTL)
	assert.Equal(t, 24, cfg.Cart.MaxQuantity)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
	assert.Contains(t, cfg.GetDatabaseDSN(), "host=db.internal")
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"short jwt secret", func(c *Config) { c.JWT.Secret = "short" }},
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"missing redis host", func(c *Config) { c.Redis.Host = "" }},
		{"unknown status policy", func(c *Config) { c.Order.StatusPolicy = "chaotic" }},
		{"non positive cart ttl", func(c *Config) { c.Cart.TTL = 0 }},
		{"zero cart max quantity", func(c *Config) { c.Cart.MaxQuantity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
