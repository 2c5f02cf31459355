package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.GetPollInterval())
	assert.Equal(t, 15*time.Second, cfg.GetStoreTimeout())
	assert.Equal(t, BackendMemory, cfg.Server.Backend)
	assert.NotEmpty(t, cfg.Terminal.Name)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Store, cfg.Store)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kitchen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  endpoint: https://script.google.com/macros/s/abc/exec
sync:
  interval: 10s
terminal:
  name: line-2
redis:
  addr: localhost:6379
  ttl: 5s
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://script.google.com/macros/s/abc/exec", cfg.Store.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.GetPollInterval())
	assert.Equal(t, "line-2", cfg.Terminal.Name)
	assert.Equal(t, 5*time.Second, cfg.GetRedisTTL())
	// 檔案沒寫的欄位保留預設
	assert.Equal(t, 2, cfg.Sync.Workers)
	assert.Equal(t, "15s", cfg.Store.Timeout)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kitchen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unterminated"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("KITCHEN_ENDPOINT", "http://store.local/exec")
	t.Setenv("KITCHEN_POLL_INTERVAL", "5s")
	t.Setenv("KITCHEN_NATS_URL", "nats://localhost:4222")
	t.Setenv("KITCHEN_POSTGRES_DSN", "postgres://kitchen@localhost/kitchen")
	t.Setenv("KITCHEN_REDIS_ADDR", "localhost:6380")
	t.Setenv("KITCHEN_SQLITE_PATH", "/tmp/orders.db")
	t.Setenv("KITCHEN_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://store.local/exec", cfg.Store.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.GetPollInterval())
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "postgres://kitchen@localhost/kitchen", cfg.Postgres.DSN)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
	assert.Equal(t, "/tmp/orders.db", cfg.SQLite.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kitchen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  endpoint: http://from-file/exec\n"), 0644))
	t.Setenv("KITCHEN_ENDPOINT", "http://from-env/exec")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env/exec", cfg.Store.Endpoint)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty endpoint", func(c *Config) { c.Store.Endpoint = "" }, "store.endpoint"},
		{"zero interval", func(c *Config) { c.Sync.Interval = "0s" }, "sync.interval"},
		{"negative interval", func(c *Config) { c.Sync.Interval = "-1m" }, "sync.interval"},
		{"unparseable interval", func(c *Config) { c.Sync.Interval = "soon" }, "sync.interval"},
		{"no workers", func(c *Config) { c.Sync.Workers = 0 }, "sync.workers"},
		{"unknown backend", func(c *Config) { c.Server.Backend = "sheets" }, "server.backend"},
		{"postgres without dsn", func(c *Config) { c.Server.Backend = BackendPostgres }, "postgres.dsn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kitchen.yaml")
	cfg := DefaultConfig()
	cfg.Terminal.Name = "line-3"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "line-3", loaded.Terminal.Name)
}
