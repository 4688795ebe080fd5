package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLoadConfig(t *testing.T) {
	t.Run("uses defaults", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, StorageSQLite, cfg.StorageDriver)
		assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL)
		assert.Equal(t, ":8080", cfg.ServerAddress)
	})

	t.Run("layers env over the yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logLevel: debug\napiRateLimit: 5\niotApiKey: from-file\n"), 0o600))
		t.Setenv("CONFIG_FILE", path)
		t.Setenv("IOT_API_KEY", "from-env")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 5, cfg.APIRateLimit)
		assert.Equal(t, "from-env", cfg.IoTAPIKey)
		assert.Equal(t, path, cfg.ConfigFile)
	})

	t.Run("requires a jwt secret in production", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("rejects unknown storage drivers", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("STORAGE_DRIVER", "postgres")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestQueryCacheActive(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   bool
	}{
		{"off by default", func(c *Config) {}, false},
		{"single sqlite instance", func(c *Config) { c.QueryCache = true }, true},
		{"lambda ignores the flag", func(c *Config) { c.QueryCache = true; c.IsLambda = true }, false},
		{"dynamodb ignores the flag", func(c *Config) { c.QueryCache = true; c.StorageDriver = StorageDynamoDB }, false},
		{"zero ttl", func(c *Config) { c.QueryCache = true; c.CacheTTLSeconds = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.Equal(t, tt.want, cfg.QueryCacheActive())
		})
	}
}

func TestApplyLogLevel(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	assert.True(t, ApplyLogLevel(level, "warn"))
	assert.Equal(t, zapcore.WarnLevel, level.Level())

	assert.False(t, ApplyLogLevel(level, "loud"))
	assert.Equal(t, zapcore.WarnLevel, level.Level())
}

func TestWatcherReloadsLogLevel(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: info\n"), 0o600))

	changes := make(chan RuntimeSettings, 4)
	w, err := NewWatcher(path, zap.NewNop(), func(s RuntimeSettings) { changes <- s })
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("logLevel: debug\n"), 0o600))

	select {
	case s := <-changes:
		assert.Equal(t, "debug", s.LogLevel)
	case <-time.After(5 * time.Second):
		t.Fatal("config change not observed")
	}
}
