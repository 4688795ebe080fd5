package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"techknowledgepills/pkg/auth"
	"techknowledgepills/pkg/common"
	pkgerrors "techknowledgepills/pkg/errors"
)

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) pkgerrors.ErrorResponse {
	t.Helper()
	var body pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticate(t *testing.T) {
	issuer, err := auth.NewJWTIssuer("middleware-secret", "tkp", time.Hour, 24*time.Hour)
	require.NoError(t, err)
	pair, err := issuer.Issue("u1", "ada@example.com")
	require.NoError(t, err)

	errs := pkgerrors.NewErrorHandler(zap.NewNop(), false)
	var seen string
	handler := Authenticate(issuer, errs, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = common.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	call := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("stores the caller of a valid access token", func(t *testing.T) {
		rec := call("Bearer " + pair.AccessToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", seen)
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		rec := call("")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "missing authentication token", errorBody(t, rec).Message)
	})

	t.Run("rejects a refresh token used for access", func(t *testing.T) {
		rec := call("Bearer " + pair.RefreshToken)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_TOKEN", errorBody(t, rec).Code)
	})

	t.Run("rejects a non-bearer scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, call("Basic "+pair.AccessToken).Code)
	})
}

func TestDeviceKey(t *testing.T) {
	errs := pkgerrors.NewErrorHandler(zap.NewNop(), false)
	var trusted bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trusted = common.IsDeviceAuthenticated(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	post := func(h http.Handler, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/healthmetric/iot", nil)
		if key != "" {
			req.Header.Set("X-Device-Key", key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("rejects a wrong key when one is configured", func(t *testing.T) {
		rec := post(DeviceKey("s3cret", errs)(next), "guess")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_DEVICE_KEY", errorBody(t, rec).Code)
	})

	t.Run("rejects a missing key when one is configured", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, post(DeviceKey("s3cret", errs)(next), "").Code)
	})

	t.Run("marks requests with the right key", func(t *testing.T) {
		trusted = false
		rec := post(DeviceKey("s3cret", errs)(next), "s3cret")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, trusted)
	})

	t.Run("lets everything through without a configured key", func(t *testing.T) {
		trusted = true
		rec := post(DeviceKey("", errs)(next), "anything")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, trusted)
	})
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return true, errors.New("counter table unreachable")
}

func (failingLimiter) Limit() int { return 7 }

func TestRateLimit(t *testing.T) {
	defer goleak.VerifyNone(t)

	errs := pkgerrors.NewErrorHandler(zap.NewNop(), false)
	limitErr := pkgerrors.NewRateLimitError(2, "1m0s")

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := auth.NewSlidingWindowLimiter(2, time.Minute)
		defer limiter.Close()
		handler := RateLimit(auth.NewIPRateLimiter(limiter), ByIP, limitErr, errs, zap.NewNop())(http.HandlerFunc(ok))

		var codes []int
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
			assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
			if rec.Code == http.StatusTooManyRequests {
				assert.Equal(t, "RATE_LIMIT", errorBody(t, rec).Error)
			}
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Forwarded-For", "198.51.100.4")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "other clients keep their own budget")
	})

	t.Run("counts authenticated users separately", func(t *testing.T) {
		limiter := auth.NewSlidingWindowLimiter(1, time.Minute)
		defer limiter.Close()
		handler := RateLimit(auth.NewUserRateLimiter(limiter), ByUser, limitErr, errs, zap.NewNop())(http.HandlerFunc(ok))

		send := func(userID string) int {
			req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
			req = req.WithContext(common.WithUserID(req.Context(), userID))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			return rec.Code
		}
		assert.Equal(t, http.StatusOK, send("u1"))
		assert.Equal(t, http.StatusTooManyRequests, send("u1"))
		assert.Equal(t, http.StatusOK, send("u2"))
	})

	t.Run("lets requests through when the limiter fails", func(t *testing.T) {
		handler := RateLimit(failingLimiter{}, ByIP, limitErr, errs, zap.NewNop())(http.HandlerFunc(ok))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "7", rec.Header().Get("X-RateLimit-Limit"))
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"first forwarded address", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}, "10.0.0.2:5000", "203.0.113.9"},
		{"real ip header", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:5000", "198.51.100.4"},
		{"remote address without port", nil, "192.0.2.1:4321", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}
