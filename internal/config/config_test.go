package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envKeys {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
	t.Setenv("PLANNER_CONFIG", "")
	require.NoError(t, os.Unsetenv("PLANNER_CONFIG"))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://localhost:7168", cfg.GatewayURL)
	assert.Equal(t, ":7168", cfg.ListenAddr)
	assert.Equal(t, "planner.db", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Hour, cfg.ReportInterval)
	assert.False(t, cfg.InsecureTLS)
	assert.ErrorIs(t, cfg.RequireTelegram(), ErrNoTelegramToken)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"gateway_url: http://files:8080\n"+
			"database_url: /tmp/from-file.db\n"+
			"report_interval_hours: 2\n"), 0o600))

	t.Setenv("PLANNER_CONFIG", path)
	t.Setenv("PLANNER_GATEWAY_URL", "http://env:9090")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("PLANNER_INSECURE_TLS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env:9090", cfg.GatewayURL)
	assert.Equal(t, "/tmp/from-file.db", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.ReportInterval)
	assert.True(t, cfg.InsecureTLS)
	assert.NoError(t, cfg.RequireTelegram())
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANNER_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
