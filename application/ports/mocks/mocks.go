// Package mocks holds testify mocks of the application ports.
package mocks

import (
	"context"
	"time"

	"techknowledgepills/application/ports"
	"techknowledgepills/domain/core/entities"
	"techknowledgepills/domain/core/valueobjects"
	"techknowledgepills/domain/events"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) Save(ctx context.Context, content *entities.Content) error {
	return m.Called(ctx, content).Error(0)
}

func (m *MockContentRepository) SaveBatch(ctx context.Context, contents []*entities.Content) error {
	return m.Called(ctx, contents).Error(0)
}

func (m *MockContentRepository) GetByID(ctx context.Context, id string) (*entities.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Content), args.Error(1)
}

func (m *MockContentRepository) List(ctx context.Context) ([]*entities.Content, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Content), args.Error(1)
}

func (m *MockContentRepository) ListByType(ctx context.Context, contentType valueobjects.ContentType) ([]*entities.Content, error) {
	args := m.Called(ctx, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Content), args.Error(1)
}

func (m *MockContentRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockContentRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockStressIndicatorRepository struct {
	mock.Mock
}

func (m *MockStressIndicatorRepository) Save(ctx context.Context, indicator *entities.StressIndicator) error {
	return m.Called(ctx, indicator).Error(0)
}

func (m *MockStressIndicatorRepository) SaveBatch(ctx context.Context, indicators []*entities.StressIndicator) error {
	return m.Called(ctx, indicators).Error(0)
}

func (m *MockStressIndicatorRepository) ListByUser(ctx context.Context, userID string) ([]*entities.StressIndicator, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.StressIndicator), args.Error(1)
}

func (m *MockStressIndicatorRepository) LatestByUser(ctx context.Context, userID string) (*entities.StressIndicator, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.StressIndicator), args.Error(1)
}

type MockHealthMetricRepository struct {
	mock.Mock
}

func (m *MockHealthMetricRepository) Save(ctx context.Context, metric *entities.HealthMetric) error {
	return m.Called(ctx, metric).Error(0)
}

func (m *MockHealthMetricRepository) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]*entities.HealthMetric, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.HealthMetric), args.Error(1)
}

func (m *MockHealthMetricRepository) LatestByUser(ctx context.Context, userID string) (*entities.HealthMetric, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.HealthMetric), args.Error(1)
}

type MockCipherRepository struct {
	mock.Mock
}

func (m *MockCipherRepository) Save(ctx context.Context, cipher *entities.Cipher) error {
	return m.Called(ctx, cipher).Error(0)
}

func (m *MockCipherRepository) GetByID(ctx context.Context, userID, id string) (*entities.Cipher, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Cipher), args.Error(1)
}

func (m *MockCipherRepository) GetByKeyName(ctx context.Context, userID, keyName string) (*entities.Cipher, error) {
	args := m.Called(ctx, userID, keyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Cipher), args.Error(1)
}

func (m *MockCipherRepository) ListByUser(ctx context.Context, userID string) ([]*entities.Cipher, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Cipher), args.Error(1)
}

func (m *MockCipherRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Save(ctx context.Context, interaction *entities.Interaction) error {
	return m.Called(ctx, interaction).Error(0)
}

func (m *MockInteractionRepository) CompletedContentIDs(ctx context.Context, userID string) (map[string]bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	return m.Called(ctx, evts).Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (interface{}, bool) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Bool(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) error {
	return m.Called(hash, password).Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID, email string) (ports.TokenPair, error) {
	args := m.Called(userID, email)
	return args.Get(0).(ports.TokenPair), args.Error(1)
}

func (m *MockTokenIssuer) ParseRefresh(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

var (
	_ ports.UserRepository            = (*MockUserRepository)(nil)
	_ ports.ContentRepository         = (*MockContentRepository)(nil)
	_ ports.StressIndicatorRepository = (*MockStressIndicatorRepository)(nil)
	_ ports.HealthMetricRepository    = (*MockHealthMetricRepository)(nil)
	_ ports.CipherRepository          = (*MockCipherRepository)(nil)
	_ ports.InteractionRepository     = (*MockInteractionRepository)(nil)
	_ ports.EventPublisher            = (*MockEventPublisher)(nil)
	_ ports.Cache                     = (*MockCache)(nil)
	_ ports.PasswordHasher            = (*MockPasswordHasher)(nil)
	_ ports.TokenIssuer               = (*MockTokenIssuer)(nil)
)
