package session

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	t.Run("treats a missing file as logged out", func(t *testing.T) {
		m, err := NewTokenManager(t.TempDir())
		require.NoError(t, err)

		assert.False(t, m.IsLoggedIn())
		assert.Empty(t, m.Token())
		assert.Empty(t, m.RefreshToken())
	})

	t.Run("persists a session across managers", func(t *testing.T) {
		dir := t.TempDir()
		m, err := NewTokenManager(dir)
		require.NoError(t, err)

		require.NoError(t, m.Save(Session{Token: "a", RefreshToken: "r", UserID: "u1", Email: "ada@example.com"}))

		info, err := os.Stat(m.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		reloaded, err := NewTokenManager(dir)
		require.NoError(t, err)
		assert.True(t, reloaded.IsLoggedIn())
		assert.Equal(t, "a", reloaded.Token())
		assert.Equal(t, "r", reloaded.RefreshToken())
		assert.Equal(t, "u1", reloaded.UserID())
		assert.Equal(t, "ada@example.com", reloaded.Email())
	})

	t.Run("swaps tokens and keeps identity", func(t *testing.T) {
		m, err := NewTokenManager(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, m.Save(Session{Token: "a", RefreshToken: "r", UserID: "u1"}))

		require.NoError(t, m.SetTokens("b", "s"))

		assert.Equal(t, "b", m.Token())
		assert.Equal(t, "s", m.RefreshToken())
		assert.Equal(t, "u1", m.UserID())
	})

	t.Run("clears the session and its file", func(t *testing.T) {
		m, err := NewTokenManager(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, m.Save(Session{Token: "a"}))

		require.NoError(t, m.Clear())
		assert.False(t, m.IsLoggedIn())
		_, err = os.Stat(m.Path())
		assert.True(t, os.IsNotExist(err))

		assert.NoError(t, m.Clear())
	})

	t.Run("rejects a corrupt file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("token = ["), 0o600))

		_, err := NewTokenManager(dir)
		assert.Error(t, err)
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		m, err := NewTokenManager(t.TempDir())
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = m.SetTokens("t", "r")
			}()
			go func() {
				defer wg.Done()
				_ = m.Token()
			}()
		}
		wg.Wait()
		assert.Equal(t, "t", m.Token())
	})
}
