package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SHOP_DB_DSN", "postgres://localhost/shop")
	t.Setenv("ADMIN_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "GA", cfg.Shop.PhoneRegion)
	assert.Equal(t, "Sensations by Arda J", cfg.Shop.Name)
	assert.Equal(t, 24*time.Hour, cfg.Shop.CartTTL)
	assert.Equal(t, 12*time.Hour, cfg.Admin.TokenTTL)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoad_RequiresDSN(t *testing.T) {
	t.Setenv("SHOP_DB_DSN", "")
	t.Setenv("ADMIN_JWT_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("SHOP_DB_DSN", "postgres://localhost/shop")
	t.Setenv("ADMIN_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_FromDefaultsToSMTPUser(t *testing.T) {
	t.Setenv("SHOP_DB_DSN", "postgres://localhost/shop")
	t.Setenv("ADMIN_JWT_SECRET", "secret")
	t.Setenv("SMTP_USER", "shop@example.com")
	t.Setenv("SMTP_FROM", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "shop@example.com", cfg.SMTP.From)
}
