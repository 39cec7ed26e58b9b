package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hanbutik/backend-butik/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost/butik",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "secret",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "TRY", cfg.CurrencyCode)
	require.Equal(t, int64(1500), cfg.StandardShippingCost)
	require.Equal(t, 24*time.Hour, cfg.AbandonedCartWindow)
	require.Equal(t, "butik", cfg.MetricsNamespace)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := config.LoadForTests(map[string]string{
		"DATABASE_URL":           "postgres://localhost/butik",
		"REDIS_URL":              "redis://localhost:6379/0",
		"JWT_SECRET":             "secret",
		"PORT":                   "9090",
		"STANDARD_SHIPPING_COST": "2500",
		"CORS_ALLOWED_ORIGINS":   "https://butik.example.com, https://admin.butik.example.com",
		"RATE_LIMIT_PER_MINUTE":  "30",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, int64(2500), cfg.StandardShippingCost)
	require.Equal(t, []string{"https://butik.example.com", "https://admin.butik.example.com"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30, cfg.RateLimitPerMinute)
}

func TestLoadRequiresDatabase(t *testing.T) {
	_, err := config.LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "secret",
	})
	require.Error(t, err)
}
