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
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, time.Second, cfg.Simulation.AuthDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Simulation.OrderDelay)
	assert.False(t, cfg.AI.Enabled())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tradewise.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
storage:
  backend: sqlite
  sqlite_path: /tmp/tw.db
simulation:
  auth_delay: 250ms
  chat_delay: 2s
rate_limit:
  auth_per_minute: 5
`), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "127.0.0.1:7000")
	t.Setenv("CHAT_DELAY", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/tw.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulation.AuthDelay)
	assert.Equal(t, 10*time.Millisecond, cfg.Simulation.ChatDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Simulation.QuoteDelay)
	assert.Equal(t, 5, cfg.RateLimit.AuthPerMinute)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	t.Setenv("STORAGE_BACKEND", "redis")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("ORDER_DELAY", "soon")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("ORDER_DELAY", "")
	t.Setenv("PORT", "80 80")
	_, err = Load()
	assert.Error(t, err)
}

func TestAIEnabledFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("ARK_API_KEY", "k")
	t.Setenv("ARK_MODEL", "doubao")
	t.Setenv("ARK_TEMPERATURE", "0.3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AI.Enabled())
	require.NotNil(t, cfg.AI.Temperature)
	assert.InDelta(t, 0.3, *cfg.AI.Temperature, 1e-9)
}

func TestCORSOriginsList(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.Server.AllowedOrigins)
}
