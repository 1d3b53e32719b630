package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SENDGRID_API_KEY", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Server.Production)
	assert.False(t, cfg.Database.Enabled())
	assert.False(t, cfg.Mail.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5, cfg.RateLimit.LoginPerMinute)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://temple@localhost/temple")
	t.Setenv("PRODUCTION", "true")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("MAIL_SENDER", "noreply@example.org")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MAIL_WORKERS", "not-a-number")
	t.Setenv("SESSION_SECRET", "a-long-random-secret")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.1")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.True(t, cfg.Database.Enabled())
	assert.True(t, cfg.Server.Production)
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 2, cfg.Mail.Workers)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, cfg.Server.TrustedProxies)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_ValidateSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	t.Setenv("PRODUCTION", "false")
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, DevSessionSecret, cfg.Session.Secret)
	assert.NoError(t, cfg.Validate())

	t.Setenv("PRODUCTION", "true")
	cfg, err = Load()
	assert.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ErrDefaultSessionSecret)
}

func TestSiteConfig_Location(t *testing.T) {
	loc := SiteConfig{Timezone: "Nowhere/Invalid"}.Location()
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 8*60*60, offset)
}
