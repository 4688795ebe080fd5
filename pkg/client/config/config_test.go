package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("uses defaults without a file", func(t *testing.T) {
		t.Setenv("TKP_SERVER", "")
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("reads TOML over defaults", func(t *testing.T) {
		t.Setenv("TKP_SERVER", "")
		path := filepath.Join(t.TempDir(), "client.toml")
		require.NoError(t, os.WriteFile(path, []byte(`
server_url = "https://api.example.com"
timeout = "5s"
burst = 2
`), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", cfg.ServerURL)
		assert.Equal(t, 5*time.Second, cfg.Timeout.Duration)
		assert.Equal(t, 2, cfg.Burst)
		assert.Equal(t, 10.0, cfg.RequestsPerSecond)
	})

	t.Run("lets the environment pick the server", func(t *testing.T) {
		t.Setenv("TKP_SERVER", "http://10.0.0.2:9000")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "http://10.0.0.2:9000", cfg.ServerURL)
	})

	t.Run("rejects a server without a scheme", func(t *testing.T) {
		t.Setenv("TKP_SERVER", "localhost:8080")
		_, err := Load("")
		assert.Error(t, err)
	})
}
