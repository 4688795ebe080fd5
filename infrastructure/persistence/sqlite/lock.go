package sqlite

import (
	"context"
	"sync"
	"time"

	"techknowledgepills/application/ports"
)

type localLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func (l *localLocker) TryLock(_ context.Context, resource string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if until, ok := l.held[resource]; ok && now.Before(until) {
		return nil, ports.ErrLockHeld
	}
	if l.held == nil {
		l.held = make(map[string]time.Time)
	}
	expires := now.Add(ttl)
	l.held[resource] = expires

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[resource].Equal(expires) {
			delete(l.held, resource)
		}
		return nil
	}, nil
}
