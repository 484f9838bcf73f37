package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPostgresConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "shop")

	cfg, err := LoadPostgresConfig(DefaultPostgresConfig())
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "postgres://postgres:@db.internal:6543/shop?sslmode=disable", cfg.ConnString())
}

func TestLoadPostgresConfig_BadPort(t *testing.T) {
	t.Setenv("DB_PORT", "five")

	_, err := LoadPostgresConfig(DefaultPostgresConfig())
	assert.Error(t, err)
}

func TestConnString_DSNWins(t *testing.T) {
	cfg := DefaultPostgresConfig()
	cfg.DSN = "postgres://u:p@h/d"
	assert.Equal(t, "postgres://u:p@h/d", cfg.ConnString())
}
