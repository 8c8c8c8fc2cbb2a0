package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/okrview/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout.Duration())
	assert.Equal(t, domain.DirectionLR, cfg.View.Direction)
	assert.Equal(t, 150*time.Millisecond, cfg.View.FitDelay.Duration())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath_YAML(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://okr.example.com
  csrf_token: abc
  timeout: 3s
cache:
  path: /tmp/okr.db
view:
  direction: TB
  fit_delay: 40ms
log_calls: true
`)
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "https://okr.example.com", cfg.API.BaseURL)
	assert.Equal(t, "abc", cfg.API.CSRFToken)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout.Duration())
	assert.Equal(t, "/tmp/okr.db", cfg.Cache.Path)
	assert.Equal(t, domain.DirectionTB, cfg.View.Direction)
	assert.Equal(t, 40*time.Millisecond, cfg.View.FitDelay.Duration())
	assert.True(t, cfg.LogCalls)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultConfig().View.MaxZoom, cfg.View.MaxZoom)

	api := cfg.OKRAPI()
	assert.Equal(t, 3000, api.TimeoutMs)
	assert.True(t, api.LogCalls)
}

func TestLoadFromPath_BadDuration(t *testing.T) {
	path := writeConfig(t, "api:\n  timeout: soon\n")
	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadFromPath_InvalidDirection(t *testing.T) {
	path := writeConfig(t, "view:\n  direction: diagonal\n")
	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "view.direction")
}

func TestLoadFromPath_Missing(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: https://file.example.com\n")
	t.Setenv("OKRVIEW_API_URL", "https://env.example.com")
	t.Setenv("OKRVIEW_TIMEOUT_MS", "2500")
	t.Setenv("OKRVIEW_DIRECTION", "vertical")
	t.Setenv("OKRVIEW_SESSION", "laravel_session=x")
	t.Setenv("OKRVIEW_FIT_DELAY_MS", "0")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.API.Timeout.Duration())
	assert.Equal(t, domain.DirectionTB, cfg.View.Direction)
	assert.Equal(t, "laravel_session=x", cfg.API.SessionCookie)
	assert.Zero(t, cfg.View.FitDelay.Duration())
}

func TestEnvInvalidValuesIgnored(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("OKRVIEW_TIMEOUT_MS", "fast")
	t.Setenv("OKRVIEW_DIRECTION", "sideways")
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout.Duration())
	assert.Equal(t, domain.DirectionLR, cfg.View.Direction)
}

func TestFindConfigPath_Order(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv(EnvConfigPath, "")
	t.Chdir(t.TempDir())

	assert.Empty(t, FindConfigPath())

	homeCfg := filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(homeCfg), 0o755))
	require.NoError(t, os.WriteFile(homeCfg, []byte("{}"), 0o644))
	assert.Equal(t, homeCfg, FindConfigPath())

	require.NoError(t, os.WriteFile(ConfigFileName, []byte("{}"), 0o644))
	assert.Equal(t, ConfigFileName, filepath.Base(FindConfigPath()))

	explicit := writeConfig(t, "{}")
	t.Setenv(EnvConfigPath, explicit)
	assert.Equal(t, explicit, FindConfigPath())
}
