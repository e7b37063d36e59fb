package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "lantern", cfg.Service)
	assert.Equal(t, "0.0.0.0:4001", cfg.Addr())
	assert.Equal(t, time.Hour, cfg.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL())
	assert.Equal(t, "error.log", cfg.Logs.ErrorFile)
	assert.Equal(t, "combined.log", cfg.Logs.CombinedFile)
	assert.Empty(t, cfg.Tokens.AccessSecret)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
env: production
server:
  port: 9000
tokens:
  access_secret: file-access
  refresh_secret: file-refresh
  refresh_ttl_days: 30
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, "file-access", cfg.Tokens.AccessSecret)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTTL())
	// Untouched keys keep their defaults.
	assert.Equal(t, "lantern", cfg.Service)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600))

	t.Setenv("LANTERN_SERVER__PORT", "8080")
	t.Setenv("LANTERN_TOKENS__ACCESS_SECRET", "env-access")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "env-access", cfg.Tokens.AccessSecret)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
}
