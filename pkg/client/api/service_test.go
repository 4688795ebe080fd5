package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"techknowledgepills/pkg/client/config"
	"techknowledgepills/pkg/client/model"
)

type memoryTokens struct {
	mu      sync.Mutex
	token   string
	refresh string
	cleared bool
}

func (m *memoryTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memoryTokens) RefreshToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *memoryTokens) SetTokens(token, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.refresh = token, refresh
	return nil
}

func (m *memoryTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token, m.refresh, m.cleared = "", "", true
	return nil
}

func newTestService(t *testing.T, h http.Handler, tokens *memoryTokens) *Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.Defaults()
	cfg.ServerURL = srv.URL
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 100

	svc, err := NewService(cfg, NewHTTPClient(cfg, tokens, zap.NewNop()), NewCodec(), tokens, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestService(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the bearer token and decodes enums", func(t *testing.T) {
		tokens := &memoryTokens{token: "access"}
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/recommendation", r.URL.Path)
			assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"c1","title":"Breathing","type":2},{"id":"c2","title":"Sleep","type":"Article"}]`))
		}), tokens)

		got, err := svc.GetRecommendations(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, model.ContentTypeVideo, got[0].Type)
		assert.Equal(t, model.ContentTypeArticle, got[1].Type)
	})

	t.Run("encodes stress levels as integers", func(t *testing.T) {
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(3), body["stressLevel"])
			writeJSON(w, http.StatusCreated, map[string]interface{}{"id": "s1", "stressLevel": 3})
		}), &memoryTokens{token: "access"})

		got, err := svc.CreateStressIndicator(ctx, model.CreateStressIndicatorRequest{StressLevel: model.StressLevelHigh})
		require.NoError(t, err)
		assert.Equal(t, model.StressLevelHigh, got.StressLevel)
	})

	t.Run("maps 404 to ErrNotFound", func(t *testing.T) {
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND", "message": "no stress indicators found", "code": "NOT_FOUND"})
		}), &memoryTokens{token: "access"})

		_, err := svc.GetLatestStressIndicator(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "no stress indicators found", apiErr.Message)
	})

	t.Run("refreshes once on 401 and retries", func(t *testing.T) {
		tokens := &memoryTokens{token: "expired", refresh: "refresh-1"}
		var calls int32
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			var req model.RefreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "refresh-1", req.RefreshToken)
			writeJSON(w, http.StatusOK, model.AuthResponse{Token: "fresh", RefreshToken: "refresh-2"})
		})
		mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED", "code": "INVALID_TOKEN"})
				return
			}
			writeJSON(w, http.StatusOK, model.User{ID: "u1", Email: "ada@example.com"})
		})
		svc := newTestService(t, mux, tokens)

		user, err := svc.Me(ctx)
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
		assert.Equal(t, "fresh", tokens.Token())
		assert.Equal(t, "refresh-2", tokens.RefreshToken())
	})

	t.Run("clears the session when refresh is rejected", func(t *testing.T) {
		tokens := &memoryTokens{token: "expired", refresh: "revoked"}
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED"})
		}), tokens)

		_, err := svc.GetAllContent(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnauthorized))
		assert.True(t, tokens.cleared)
	})

	t.Run("does not refresh failed logins", func(t *testing.T) {
		tokens := &memoryTokens{refresh: "refresh-1"}
		var calls int32
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "UNAUTHORIZED", "message": "invalid email or password"})
		}), tokens)

		_, err := svc.Login(ctx, model.LoginRequest{Email: "a@b.c", Password: "nope"})
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		assert.False(t, tokens.cleared)
	})

	t.Run("sends the count and the device key", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/stressindicator/generate-mock", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "7", r.URL.Query().Get("count"))
			writeJSON(w, http.StatusOK, []model.StressIndicator{{ID: "s1", StressLevel: model.StressLevelLow}})
		})
		mux.HandleFunc("/api/healthmetric/iot", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "device-secret", r.Header.Get("X-Device-Key"))
			writeJSON(w, http.StatusOK, model.HealthMetric{ID: "h1", DeviceType: "watch"})
		})
		svc := newTestService(t, mux, &memoryTokens{token: "access"})

		batch, err := svc.GenerateMockStressData(ctx, 7)
		require.NoError(t, err)
		assert.Len(t, batch, 1)

		metric, err := svc.SubmitHealthMetric(ctx, model.HealthMetricRequest{UserID: "u1"}, "device-secret")
		require.NoError(t, err)
		assert.Equal(t, "watch", metric.DeviceType)
	})

	t.Run("accepts an empty completion response", func(t *testing.T) {
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/content/c1/complete", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}), &memoryTokens{token: "access"})

		rating := 5
		assert.NoError(t, svc.CompleteContent(ctx, "c1", &rating))
	})
}

func TestCircuitBreaker(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := config.Defaults()
	cfg.ServerURL = srv.URL
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 100
	cfg.BreakerOpenTimeout = config.Duration{Duration: time.Minute}
	tokens := &memoryTokens{}

	svc, err := NewService(cfg, NewHTTPClient(cfg, tokens, zap.NewNop()), NewCodec(), tokens, zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < int(cfg.BreakerMinRequests); i++ {
		_, err := svc.GetAllContent(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	}

	_, err = svc.GetAllContent(context.Background())
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(cfg.BreakerMinRequests), atomic.LoadInt32(&calls))
}
