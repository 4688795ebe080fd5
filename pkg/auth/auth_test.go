package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestJWTIssuer(t *testing.T) {
	issuer, err := NewJWTIssuer("test-secret", "techknowledgepills", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	pair, err := issuer.Issue("u1", "ada@example.com")
	require.NoError(t, err)

	t.Run("round-trips an access token", func(t *testing.T) {
		claims, err := issuer.ParseAccess(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
		assert.Equal(t, "ada@example.com", claims.Email)
		assert.WithinDuration(t, time.Now().Add(time.Hour), pair.ExpiresAt, 5*time.Second)
	})

	t.Run("does not accept a refresh token as access", func(t *testing.T) {
		_, err := issuer.ParseAccess(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrWrongTokenType)

		userID, err := issuer.ParseRefresh(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "u1", userID)
	})

	t.Run("rejects tokens signed with another secret", func(t *testing.T) {
		other, err := NewJWTIssuer("other-secret", "techknowledgepills", time.Hour, time.Hour)
		require.NoError(t, err)

		_, err = other.ParseAccess(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired tokens", func(t *testing.T) {
		expiring, err := NewJWTIssuer("test-secret", "techknowledgepills", time.Minute, time.Minute)
		require.NoError(t, err)
		p, err := expiring.Issue("u1", "a@b.c")
		require.NoError(t, err)

		expiring.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, err = expiring.ParseAccess(p.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("requires a secret", func(t *testing.T) {
		_, err := NewJWTIssuer("", "x", time.Hour, time.Hour)
		assert.Error(t, err)
	})
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.NoError(t, h.Compare(hash, "secret1"))
	assert.Error(t, h.Compare(hash, "secret2"))
}

func TestSlidingWindowLimiter(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	l := NewSlidingWindowLimiter(2, time.Minute)
	defer l.Close()

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	ip := NewIPRateLimiter(l)

	allowed, _ := ip.Allow(ctx, "10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = ip.Allow(ctx, "10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = ip.Allow(ctx, "10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, 0, l.Remaining("ip:10.0.0.1"))

	allowed, _ = ip.Allow(ctx, "10.0.0.2")
	assert.True(t, allowed, "keys are independent")

	clock = clock.Add(61 * time.Second)
	allowed, _ = ip.Allow(ctx, "10.0.0.1")
	assert.True(t, allowed, "window slides")

	clock = clock.Add(2 * time.Minute)
	l.sweep()
	assert.Equal(t, 2, l.Remaining("ip:10.0.0.2"))
}

type MockCounterAPI struct {
	mock.Mock
}

func (m *MockCounterAPI) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.UpdateItemOutput), args.Error(1)
}

func TestDistributedRateLimiter(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC)

	t.Run("counts within a window keyed by PK and SK", func(t *testing.T) {
		client := new(MockCounterAPI)
		l := NewDistributedRateLimiter(client, "table", 5, time.Minute)
		l.now = func() time.Time { return start }

		client.On("UpdateItem", ctx, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			pk := in.Key["PK"].(*types.AttributeValueMemberS).Value
			sk := in.Key["SK"].(*types.AttributeValueMemberS).Value
			return aws.ToString(in.TableName) == "table" && pk == "RATELIMIT#ip:1.2.3.4" && sk == "WINDOW#1704103200"
		})).Return(&dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
			"Count": &types.AttributeValueMemberN{Value: "3"},
		}}, nil)

		allowed, err := l.Allow(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("denies when the condition fails", func(t *testing.T) {
		client := new(MockCounterAPI)
		l := NewDistributedRateLimiter(client, "table", 5, time.Minute)
		client.On("UpdateItem", ctx, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		allowed, err := l.Allow(ctx, "k")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("fails open on storage errors", func(t *testing.T) {
		client := new(MockCounterAPI)
		l := NewDistributedRateLimiter(client, "table", 5, time.Minute)
		client.On("UpdateItem", ctx, mock.Anything).Return(nil, errors.New("throttled"))

		allowed, err := l.Allow(ctx, "k")
		assert.Error(t, err)
		assert.True(t, allowed)
	})
}
