package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"techknowledgepills/application/ports"
	"techknowledgepills/application/ports/mocks"
	"techknowledgepills/domain/config"
	"techknowledgepills/domain/core/entities"
	domainservices "techknowledgepills/domain/services"
	pkgerrors "techknowledgepills/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	users     *mocks.MockUserRepository
	hasher    *mocks.MockPasswordHasher
	tokens    *mocks.MockTokenIssuer
	publisher *mocks.MockEventPublisher
	service   *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:     new(mocks.MockUserRepository),
		hasher:    new(mocks.MockPasswordHasher),
		tokens:    new(mocks.MockTokenIssuer),
		publisher: new(mocks.MockEventPublisher),
	}
	f.service = NewAuthService(f.users, f.hasher, f.tokens, f.publisher, zap.NewNop())
	return f
}

var testPair = ports.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}

func TestAuthServiceRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user with a normalized email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "ada@example.com").Return(nil, pkgerrors.ErrUserNotFound)
		f.hasher.On("Hash", "secret1").Return("hashed", nil)
		f.users.On("Create", ctx, mock.MatchedBy(func(u *entities.User) bool {
			return u.Email == "ada@example.com" && u.PasswordHash == "hashed"
		})).Return(nil)
		f.publisher.On("Publish", ctx, mock.Anything).Return(nil)
		f.tokens.On("Issue", mock.AnythingOfType("string"), "ada@example.com").Return(testPair, nil)

		result, err := f.service.Register(ctx, RegisterRequest{Email: " Ada@Example.com ", Password: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, "access", result.Token)
		assert.Equal(t, "refresh", result.RefreshToken)
		assert.Equal(t, "ada@example.com", result.Email)
		assert.NotEmpty(t, result.UserID)
		f.users.AssertExpectations(t)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "ada@example.com").Return(&entities.User{ID: "u1"}, nil)

		_, err := f.service.Register(ctx, RegisterRequest{Email: "ada@example.com", Password: "secret1"})

		assert.ErrorIs(t, err, pkgerrors.ErrEmailTaken)
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeConflict))
	})

	t.Run("rejects a short password", func(t *testing.T) {
		f := newAuthFixture()

		_, err := f.service.Register(ctx, RegisterRequest{Email: "ada@example.com", Password: "123"})

		assert.True(t, pkgerrors.IsValidation(err))
		f.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()
	user := &entities.User{ID: "u1", Email: "ada@example.com", PasswordHash: "hashed"}

	t.Run("stamps the last login", func(t *testing.T) {
		f := newAuthFixture()
		u := *user
		f.users.On("GetByEmail", ctx, "ada@example.com").Return(&u, nil)
		f.hasher.On("Compare", "hashed", "secret1").Return(nil)
		f.users.On("Update", ctx, mock.MatchedBy(func(x *entities.User) bool { return x.LastLogin != nil })).Return(nil)
		f.tokens.On("Issue", "u1", "ada@example.com").Return(testPair, nil)

		result, err := f.service.Login(ctx, LoginRequest{Email: "ADA@example.com", Password: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, "u1", result.UserID)
	})

	t.Run("answers unknown email and wrong password the same way", func(t *testing.T) {
		f := newAuthFixture()
		u := *user
		f.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, pkgerrors.ErrUserNotFound)
		f.users.On("GetByEmail", ctx, "ada@example.com").Return(&u, nil)
		f.hasher.On("Compare", "hashed", "wrong").Return(errors.New("mismatch"))

		_, errUnknown := f.service.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "wrong"})
		_, errWrong := f.service.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong"})

		assert.ErrorIs(t, errUnknown, pkgerrors.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, pkgerrors.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})
}

func TestAuthServiceRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a new pair", func(t *testing.T) {
		f := newAuthFixture()
		f.tokens.On("ParseRefresh", "r1").Return("u1", nil)
		f.users.On("GetByID", ctx, "u1").Return(&entities.User{ID: "u1", Email: "ada@example.com"}, nil)
		f.tokens.On("Issue", "u1", "ada@example.com").Return(testPair, nil)

		result, err := f.service.Refresh(ctx, "r1")

		require.NoError(t, err)
		assert.Equal(t, "access", result.Token)
	})

	t.Run("rejects tokens of deleted users", func(t *testing.T) {
		f := newAuthFixture()
		f.tokens.On("ParseRefresh", "r1").Return("u1", nil)
		f.users.On("GetByID", ctx, "u1").Return(nil, pkgerrors.ErrUserNotFound)

		_, err := f.service.Refresh(ctx, "r1")

		assert.ErrorIs(t, err, pkgerrors.ErrInvalidRefreshToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		f := newAuthFixture()
		f.tokens.On("ParseRefresh", "junk").Return("", errors.New("malformed"))

		_, err := f.service.Refresh(ctx, "junk")

		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeUnauthorized))
	})
}

func TestStressServiceGenerateMock(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultDomainConfig()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	generator := domainservices.NewSeededMockStressGenerator(cfg, 7, func() time.Time { return now })

	t.Run("clamps the count and returns newest first", func(t *testing.T) {
		repo := new(mocks.MockStressIndicatorRepository)
		publisher := new(mocks.MockEventPublisher)
		cache := new(mocks.MockCache)
		svc := NewStressService(repo, generator, publisher, cache, cfg, zap.NewNop())

		repo.On("SaveBatch", ctx, mock.MatchedBy(func(b []*entities.StressIndicator) bool { return len(b) == 365 })).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)
		cache.On("Delete", ctx, "recommendations:u1").Return(nil)

		results, err := svc.GenerateMock(ctx, "u1", 10000)

		require.NoError(t, err)
		require.Len(t, results, 365)
		for i := 1; i < len(results); i++ {
			assert.False(t, results[i].Timestamp.After(results[i-1].Timestamp))
		}
		assert.Equal(t, "mock", results[0].Source)
	})

	t.Run("fails without storing when the batch cannot be saved", func(t *testing.T) {
		repo := new(mocks.MockStressIndicatorRepository)
		publisher := new(mocks.MockEventPublisher)
		svc := NewStressService(repo, generator, publisher, new(mocks.MockCache), cfg, zap.NewNop())
		repo.On("SaveBatch", ctx, mock.Anything).Return(errors.New("locked"))

		_, err := svc.GenerateMock(ctx, "u1", 0)

		assert.Error(t, err)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}
