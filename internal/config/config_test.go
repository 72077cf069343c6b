package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is a stand-in for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "data/cache", cfg.Data.CacheDir)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "data/cache/query_cache.db", cfg.Cache.Path)
	assert.Equal(t, 3600, cfg.Cache.TTLSecs)
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimit)
	assert.Equal(t, 20, cfg.Server.RateBurst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	chdir(t, t.TempDir())

	yaml := `
cache:
  driver: redis
  redis_addr: redis.internal:6379
server:
  port: 9090
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "redis.internal:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "data", cfg.Data.Dir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SAMARTH_CACHE_DRIVER", "none")
	t.Setenv("SAMARTH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.Cache.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "chatty", Format: "json"}))
}

func TestInitLogger_Console(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
