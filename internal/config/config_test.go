package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, ConfirmPaymentCode, cfg.Checkout.Confirmation)
	assert.Equal(t, "2004", cfg.Checkout.PaymentCode)
	assert.Equal(t, "30", cfg.Checkout.DeliveryFee.String())
	assert.Equal(t, 10*time.Minute, cfg.Redis.CountTTL)
	assert.True(t, cfg.Development())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
env: production
storage: memory
redis:
  url: redis://cache:6379/0
  count_ttl: 30s
checkout:
  confirmation: place_order
  delivery_fee: "45.50"
postgres:
  host: pg.internal
log:
  level: warn
`)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_NAME", "shop")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.Development())
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
	assert.Equal(t, 30*time.Second, cfg.Redis.CountTTL)
	assert.Equal(t, ConfirmPlaceOrder, cfg.Checkout.Confirmation)
	assert.Equal(t, "45.5", cfg.Checkout.DeliveryFee.String())
	assert.Equal(t, "pg.internal", cfg.Postgres.Host)
	assert.Equal(t, "shop", cfg.Postgres.DBName)
	assert.Equal(t, 5432, cfg.Postgres.Port, "unset fields keep their defaults")
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_ConfigFileVariable(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeFile(t, "storage: memory\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
}

func TestLoad_EnvParsing(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DELIVERY_FEE", "12.25")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("CART_COUNT_TTL", "1m")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "12.25", cfg.Checkout.DeliveryFee.String())
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, time.Minute, cfg.Redis.CountTTL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad fee", map[string]string{"DELIVERY_FEE": "thirty"}},
		{"bad tracing flag", map[string]string{"TRACING_ENABLED": "maybe"}},
		{"bad ttl", map[string]string{"CART_COUNT_TTL": "soon"}},
		{"bad db port", map[string]string{"DB_PORT": "x"}},
		{"unknown storage", map[string]string{"STORAGE": "sqlite"}},
		{"unknown confirmation", map[string]string{"CHECKOUT_CONFIRMATION": "otp"}},
		{"negative fee", map[string]string{"DELIVERY_FEE": "-1"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_PaymentCodeRequired(t *testing.T) {
	cfg := Default()
	cfg.Checkout.PaymentCode = ""
	assert.Error(t, cfg.Validate())

	cfg.Checkout.Confirmation = ConfirmPlaceOrder
	assert.NoError(t, cfg.Validate())
}
