package api

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"techknowledgepills/pkg/client/config"
)

// TokenSource supplies the current access token
type TokenSource interface {
	Token() string
}

var errServerFailure = errors.New("server error")

// NewHTTPClient builds the client used by Service. Requests pass through
// logging, then auth, then the circuit breaker, then the rate limiter.
func NewHTTPClient(cfg *config.Config, tokens TokenSource, logger *zap.Logger) *http.Client {
	timeout := cfg.Timeout.Duration

	base := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	var rt http.RoundTripper = base
	rt = &rateLimitTransport{
		next:    rt,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
	rt = &breakerTransport{next: rt, cb: newBreaker(cfg, logger)}
	rt = &authTransport{next: rt, tokens: tokens}
	rt = &loggingTransport{next: rt, logger: logger}

	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
	}
}

func newBreaker(cfg *config.Config, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "tkp-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.BreakerOpenTimeout.Duration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

type loggingTransport struct {
	next   http.RoundTripper
	logger *zap.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		t.logger.Debug("HTTP request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	t.logger.Debug("HTTP request", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}

type authTransport struct {
	next   http.RoundTripper
	tokens TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") == "" {
		if token := t.tokens.Token(); token != "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.next.RoundTrip(req)
}

// breakerTransport counts transport errors and 5xx responses as failures.
// 5xx responses are still handed back to the caller.
type breakerTransport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	_, err := t.cb.Execute(func() (interface{}, error) {
		r, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		resp = r
		if r.StatusCode >= 500 {
			return nil, errServerFailure
		}
		return nil, nil
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	case errors.Is(err, errServerFailure):
		return resp, nil
	case err != nil:
		return nil, err
	}
	return resp, nil
}

type rateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
