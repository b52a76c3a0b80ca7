package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.PlanTimeout)
	assert.Equal(t, 2000, cfg.MaxTasks)
	assert.Equal(t, 1500, cfg.MaxStations)
	assert.Equal(t, 8*1024*1024, cfg.BodyLimit)
	assert.False(t, cfg.EnableRateLimit)
	assert.False(t, cfg.EnableAnalytics)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("PLAN_TIMEOUT", "250ms")
	t.Setenv("MAX_TASKS", "50")
	t.Setenv("MAX_STATIONS", "300")
	t.Setenv("ENABLE_RATE_LIMIT", "true")
	t.Setenv("DB_MAX_CONNS", "3")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.PlanTimeout)
	assert.Equal(t, 50, cfg.MaxTasks)
	assert.Equal(t, 300, cfg.MaxStations)
	assert.True(t, cfg.EnableRateLimit)
	assert.Equal(t, int32(3), cfg.Database.MaxConns)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("REDIS_HOST=cache.internal\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("REDIS_HOST") })

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "cache.internal", cfg.Redis.Host)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("PLAN_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PLAN_TIMEOUT", "0s")
	_, err = Load()
	assert.Error(t, err)
}
