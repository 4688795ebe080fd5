package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Limit() int
}

// SlidingWindowLimiter allows limit requests per key in any windowSize span
type SlidingWindowLimiter struct {
	mu         sync.Mutex
	windows    map[string]*window
	limit      int
	windowSize time.Duration
	now        func() time.Time

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

type window struct {
	requests []time.Time
	mu       sync.Mutex
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter. Idle keys
// are swept every windowSize until Close.
func NewSlidingWindowLimiter(limit int, windowSize time.Duration) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		windows:    make(map[string]*window),
		limit:      limit,
		windowSize: windowSize,
		now:        time.Now,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow checks if a request is allowed
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	w, exists := l.windows[key]
	if !exists {
		w = &window{}
		l.windows[key] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := l.now()
	w.requests = trimBefore(w.requests, now.Add(-l.windowSize))

	if len(w.requests) >= l.limit {
		return false, nil
	}
	w.requests = append(w.requests, now)
	return true, nil
}

// Remaining reports how many requests key may still make in the current window
func (l *SlidingWindowLimiter) Remaining(key string) int {
	l.mu.Lock()
	w, exists := l.windows[key]
	l.mu.Unlock()
	if !exists {
		return l.limit
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	used := len(trimBefore(w.requests, l.now().Add(-l.windowSize)))
	if used >= l.limit {
		return 0
	}
	return l.limit - used
}

// Limit returns the configured limit
func (l *SlidingWindowLimiter) Limit() int {
	return l.limit
}

// Close stops the sweeper
func (l *SlidingWindowLimiter) Close() {
	l.closeOnce.Do(func() {
		close(l.stopCh)
		<-l.doneCh
	})
}

func (l *SlidingWindowLimiter) cleanup() {
	defer close(l.doneCh)

	ticker := time.NewTicker(l.windowSize)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *SlidingWindowLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.windowSize)
	for key, w := range l.windows {
		w.mu.Lock()
		w.requests = trimBefore(w.requests, cutoff)
		idle := len(w.requests) == 0
		w.mu.Unlock()
		if idle {
			delete(l.windows, key)
		}
	}
}

// trimBefore drops timestamps at or before cutoff; requests are in arrival order
func trimBefore(requests []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(requests) && !requests[i].After(cutoff) {
		i++
	}
	return requests[i:]
}

// KeyedRateLimiter namespaces keys so several limiters can share a backend
type KeyedRateLimiter struct {
	limiter RateLimiter
	prefix  string
}

// NewIPRateLimiter limits by client address
func NewIPRateLimiter(limiter RateLimiter) *KeyedRateLimiter {
	return &KeyedRateLimiter{limiter: limiter, prefix: "ip:"}
}

// NewUserRateLimiter limits by authenticated user
func NewUserRateLimiter(limiter RateLimiter) *KeyedRateLimiter {
	return &KeyedRateLimiter{limiter: limiter, prefix: "user:"}
}

func (l *KeyedRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.limiter.Allow(ctx, l.prefix+key)
}

func (l *KeyedRateLimiter) Limit() int {
	return l.limiter.Limit()
}
