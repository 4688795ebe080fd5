package ports

import (
	"context"
	"errors"
	"time"

	"techknowledgepills/domain/events"
)

// EventPublisher publishes domain events after a successful write
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// Cache is a small key/value cache with TTL in seconds
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenPair is what a client receives after authenticating
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// TokenIssuer signs and verifies session tokens
type TokenIssuer interface {
	Issue(userID, email string) (TokenPair, error)

	// ParseRefresh validates a refresh token and returns its subject
	ParseRefresh(token string) (userID string, err error)
}

// MetricsRecorder receives business counters
type MetricsRecorder interface {
	IncCounter(name string, labels ...string)
	ObserveDuration(name string, d time.Duration, labels ...string)
}

// ErrLockHeld is returned by Locker.TryLock when another owner holds the lock
var ErrLockHeld = errors.New("lock is held by another owner")

// Locker guards work that must run once across processes sharing a store
type Locker interface {
	// TryLock takes the named lock for at most ttl. The returned func releases it.
	TryLock(ctx context.Context, resource string, ttl time.Duration) (release func(context.Context) error, err error)
}
