package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pillsQuery struct {
	UserID string
}

func (q pillsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user id is required")
	}
	return nil
}

func (q pillsQuery) CacheKey() string { return "pills:" + q.UserID }

type plainQuery struct{}

func (plainQuery) Validate() error { return nil }

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) (interface{}, bool) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Bool(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl int) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

type countingHandler struct {
	calls  int
	result interface{}
	err    error
}

func (h *countingHandler) Handle(context.Context, Query) (interface{}, error) {
	h.calls++
	return h.result, h.err
}

func TestCachingMiddleware(t *testing.T) {
	ctx := context.Background()

	t.Run("serves a hit without calling the handler", func(t *testing.T) {
		cache := &mockCache{}
		cache.On("Get", ctx, "pills:u1").Return([]string{"cached"}, true)

		h := &countingHandler{result: []string{"fresh"}}
		b := NewQueryBus(NewCachingMiddleware(cache, 60, zap.NewNop()))
		require.NoError(t, b.Register(pillsQuery{}, h))

		got, err := b.Ask(ctx, pillsQuery{UserID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"cached"}, got)
		assert.Zero(t, h.calls)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stores a miss with the configured ttl", func(t *testing.T) {
		cache := &mockCache{}
		cache.On("Get", ctx, "pills:u2").Return(nil, false)
		cache.On("Set", ctx, "pills:u2", []string{"fresh"}, 60).Return(nil)

		h := &countingHandler{result: []string{"fresh"}}
		b := NewQueryBus(NewCachingMiddleware(cache, 60, zap.NewNop()))
		require.NoError(t, b.Register(pillsQuery{}, h))

		got, err := b.Ask(ctx, pillsQuery{UserID: "u2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"fresh"}, got)
		assert.Equal(t, 1, h.calls)
		cache.AssertExpectations(t)
	})

	t.Run("does not cache failures", func(t *testing.T) {
		cache := &mockCache{}
		cache.On("Get", ctx, "pills:u3").Return(nil, false)

		h := &countingHandler{err: errors.New("storage down")}
		b := NewQueryBus(NewCachingMiddleware(cache, 60, zap.NewNop()))
		require.NoError(t, b.Register(pillsQuery{}, h))

		_, err := b.Ask(ctx, pillsQuery{UserID: "u3"})
		assert.EqualError(t, err, "storage down")
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("still answers when the cache write fails", func(t *testing.T) {
		cache := &mockCache{}
		cache.On("Get", ctx, "pills:u4").Return(nil, false)
		cache.On("Set", ctx, "pills:u4", "fresh", 60).Return(errors.New("full"))

		b := NewQueryBus(NewCachingMiddleware(cache, 60, zap.NewNop()))
		require.NoError(t, b.Register(pillsQuery{}, &countingHandler{result: "fresh"}))

		got, err := b.Ask(ctx, pillsQuery{UserID: "u4"})
		require.NoError(t, err)
		assert.Equal(t, "fresh", got)
	})

	t.Run("passes through queries without a cache key", func(t *testing.T) {
		cache := &mockCache{}
		h := &countingHandler{result: 1}
		b := NewQueryBus(NewCachingMiddleware(cache, 60, zap.NewNop()))
		require.NoError(t, b.Register(plainQuery{}, h))

		_, err := b.Ask(ctx, plainQuery{})
		require.NoError(t, err)
		assert.Equal(t, 1, h.calls)
		cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestQueryBus(t *testing.T) {
	ctx := context.Background()

	t.Run("validates before dispatch", func(t *testing.T) {
		h := &countingHandler{}
		b := NewQueryBus()
		require.NoError(t, b.Register(pillsQuery{}, h))

		_, err := b.Ask(ctx, pillsQuery{})
		assert.EqualError(t, err, "user id is required")
		assert.Zero(t, h.calls)
	})

	t.Run("reports unregistered query types", func(t *testing.T) {
		_, err := NewQueryBus().Ask(ctx, plainQuery{})
		assert.ErrorIs(t, err, ErrHandlerNotFound)
	})

	t.Run("refuses a second handler for the same type", func(t *testing.T) {
		b := NewQueryBus()
		require.NoError(t, b.Register(plainQuery{}, &countingHandler{}))
		assert.Error(t, b.Register(plainQuery{}, &countingHandler{}))
	})

	t.Run("records success and failure counts", func(t *testing.T) {
		metrics := &mockMetrics{}
		metrics.On("StartTimer", "query_duration", "plainQuery").Twice()
		metrics.On("Increment", "query_count", "plainQuery").Twice()
		metrics.On("Increment", "query_success", "plainQuery").Once()
		metrics.On("Increment", "query_errors", "plainQuery").Once()

		h := &countingHandler{result: "ok"}
		b := NewQueryBus(TracingMiddleware{}, NewMetricsMiddleware(metrics))
		require.NoError(t, b.Register(plainQuery{}, h))

		_, err := b.Ask(ctx, plainQuery{})
		require.NoError(t, err)
		h.err = errors.New("boom")
		_, err = b.Ask(ctx, plainQuery{})
		require.Error(t, err)

		metrics.AssertExpectations(t)
	})
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) StartTimer(metric, label string) Timer {
	m.Called(metric, label)
	return stopFunc(func() {})
}

func (m *mockMetrics) Increment(metric, label string) {
	m.Called(metric, label)
}

type stopFunc func()

func (f stopFunc) Stop() { f() }
