package ports

import (
	"context"
	"time"

	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"
)

// UserRepository persists accounts. Emails are unique.
type UserRepository interface {
	// Create fails with ErrEmailTaken when the email is in use
	Create(ctx context.Context, user *entities.User) error

	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail expects a normalized address
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update stores mutable fields (last login)
	Update(ctx context.Context, user *entities.User) error
}

// ContentRepository persists knowledge pills
type ContentRepository interface {
	// Save creates or replaces a pill
	Save(ctx context.Context, content *entities.Content) error

	// SaveBatch stores several pills at once (seeding)
	SaveBatch(ctx context.Context, contents []*entities.Content) error

	GetByID(ctx context.Context, id string) (*entities.Content, error)

	// List returns every pill, newest first
	List(ctx context.Context) ([]*entities.Content, error)

	// ListByType returns pills of one type, newest first
	ListByType(ctx context.Context, contentType valueobjects.ContentType) ([]*entities.Content, error)

	// Delete removes a pill; deleting a missing pill is not an error
	Delete(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
}

// StressIndicatorRepository persists stress readings
type StressIndicatorRepository interface {
	Save(ctx context.Context, indicator *entities.StressIndicator) error
	SaveBatch(ctx context.Context, indicators []*entities.StressIndicator) error

	// ListByUser returns readings newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.StressIndicator, error)

	// LatestByUser fails with ErrStressIndicatorNotFound when the user has none
	LatestByUser(ctx context.Context, userID string) (*entities.StressIndicator, error)
}

// HealthMetricRepository persists device readings
type HealthMetricRepository interface {
	Save(ctx context.Context, metric *entities.HealthMetric) error

	// ListByUser returns readings newest first, optionally bounded (inclusive)
	ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]*entities.HealthMetric, error)

	// LatestByUser fails with ErrHealthMetricNotFound when the user has none
	LatestByUser(ctx context.Context, userID string) (*entities.HealthMetric, error)
}

// CipherRepository persists encrypted blobs scoped to a user
type CipherRepository interface {
	// Save creates or replaces a cipher; fails with ErrDuplicateCipher when
	// another cipher of the same user already uses the key name
	Save(ctx context.Context, cipher *entities.Cipher) error

	GetByID(ctx context.Context, userID, id string) (*entities.Cipher, error)
	GetByKeyName(ctx context.Context, userID, keyName string) (*entities.Cipher, error)

	// ListByUser returns ciphers newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.Cipher, error)

	Delete(ctx context.Context, userID, id string) error
}

// InteractionRepository persists content completions
type InteractionRepository interface {
	// Save upserts on (user, content)
	Save(ctx context.Context, interaction *entities.Interaction) error

	// CompletedContentIDs returns the set of pills a user has completed
	CompletedContentIDs(ctx context.Context, userID string) (map[string]bool, error)
}

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}
