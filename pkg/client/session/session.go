// Package session persists the signed-in user's tokens between CLI runs.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// DefaultDirName is created under the user's home directory
const DefaultDirName = ".techknowledgepills"

const fileName = "session.toml"

// Session is the persisted state of a signed-in user
type Session struct {
	Token        string `toml:"token"`
	RefreshToken string `toml:"refresh_token"`
	UserID       string `toml:"user_id"`
	Email        string `toml:"email"`
}

// TokenManager is a file-backed Session store, safe for concurrent use.
// A missing file means the user is logged out.
type TokenManager struct {
	mu       sync.RWMutex
	filePath string
	current  Session
}

// DefaultDir returns ~/.techknowledgepills
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName), nil
}

// NewTokenManager loads the session stored in dir. If dir is empty the
// default directory is used.
func NewTokenManager(dir string) (*TokenManager, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	m := &TokenManager{filePath: filepath.Join(dir, fileName)}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

// Path returns the session file location
func (m *TokenManager) Path() string {
	return m.filePath
}

func (m *TokenManager) load() error {
	data, err := os.ReadFile(m.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := toml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse session %s: %w", m.filePath, err)
	}
	m.current = s
	return nil
}

// Token returns the access token, empty when logged out
func (m *TokenManager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Token
}

func (m *TokenManager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.RefreshToken
}

func (m *TokenManager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.UserID
}

func (m *TokenManager) Email() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Email
}

// IsLoggedIn reports whether an access token is stored
func (m *TokenManager) IsLoggedIn() bool {
	return m.Token() != ""
}

// Save replaces the whole session and writes it to disk
func (m *TokenManager) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = s
	return m.write()
}

// SetTokens keeps the identity and swaps the token pair
func (m *TokenManager) SetTokens(token, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current.Token = token
	m.current.RefreshToken = refreshToken
	return m.write()
}

// Clear forgets the session and removes the file
func (m *TokenManager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = Session{}
	if err := os.Remove(m.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// write must be called with mu held
func (m *TokenManager) write() error {
	if err := os.MkdirAll(filepath.Dir(m.filePath), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	data, err := toml.Marshal(m.current)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := m.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return os.Rename(tmp, m.filePath)
}
