package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "user-service", cfg.Service.Name)
	assert.Equal(t, "8080", cfg.Service.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Session.TTLMinutes)
	assert.False(t, cfg.Tracing.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Service.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.GetSessionTTLDuration())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Service.Port = "" }},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }},
		{"empty redis addr", func(c *Config) { c.Redis.Addr = "" }},
		{"zero session ttl", func(c *Config) { c.Session.TTLMinutes = 0 }},
		{"sample rate above one", func(c *Config) { c.Tracing.SampleRate = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestShutdownDurations(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "20")
	t.Setenv("READINESS_DRAIN_DELAY_SECONDS", "3")

	cfg := Load()

	assert.Equal(t, 20*time.Second, cfg.GetShutdownTimeoutDuration())
	assert.Equal(t, 3*time.Second, cfg.GetReadinessDrainDelayDuration())
}
