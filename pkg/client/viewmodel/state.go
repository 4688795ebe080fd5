// Package viewmodel holds per-screen presentation state for the CLI.
package viewmodel

import (
	"context"
	"sync"
)

// State is an observable value. Subscribers always see the latest value;
// intermediate values may be skipped when a subscriber is slow.
type State[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[int]chan T
	next  int
}

// NewState creates a state holding initial
func NewState[T any](initial T) *State[T] {
	return &State[T]{value: initial, subs: make(map[int]chan T)}
}

func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores v and notifies every subscriber
func (s *State[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	for _, ch := range s.subs {
		offer(ch, v)
	}
}

// Subscribe delivers the current value and every later one until ctx is
// done, then closes the channel.
func (s *State[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	ch <- s.value
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

// offer replaces any unread value; ch has capacity one and is only
// written with the state lock held.
func offer[T any](ch chan T, v T) {
	select {
	case <-ch:
	default:
	}
	ch <- v
}
