package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DATABASE_URL_DEV", "")
	t.Setenv("ALLOWED_QUOTAS", "")
	t.Setenv("PUBLIC_BASE_URL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite:invitacion.db", cfg.DatabaseURL)
	assert.Equal(t, []int{2, 4, 6, 10}, cfg.AllowedQuotas)
	assert.Equal(t, "http://localhost:5173", cfg.PublicBaseURL)
	assert.False(t, cfg.LockAfterResponse)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL_PROD", "postgres://u:p@db/invitacion")
	t.Setenv("ALLOWED_QUOTAS", "1, 3,5")
	t.Setenv("BOOTSTRAP_ADMINS", "a@example.com, ,b@example.com")
	t.Setenv("PUBLIC_BASE_URL", "https://boda.example.com/")
	t.Setenv("RSVP_LOCK_AFTER_RESPONSE", "TRUE")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres://u:p@db/invitacion", cfg.DatabaseURL)
	assert.Equal(t, []int{1, 3, 5}, cfg.AllowedQuotas)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.BootstrapAdmins)
	assert.Equal(t, "https://boda.example.com", cfg.PublicBaseURL)
	assert.True(t, cfg.LockAfterResponse)
}

func TestLoad_BadQuota(t *testing.T) {
	t.Setenv("ALLOWED_QUOTAS", "2,many")
	_, err := Load()
	assert.Error(t, err)
}
