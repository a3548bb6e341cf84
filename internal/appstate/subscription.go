package appstate

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Next after Close
var ErrClosed = errors.New("subscription closed")

// Subscription delivers every published state in order. Publishing only
// appends to the queue, so a slow reader never blocks the Store.
type Subscription struct {
	store   *Store
	mu      sync.Mutex
	pending []State
	notify  chan struct{}
	closed  bool
}

func newSubscription(store *Store) *Subscription {
	return &Subscription{
		store:  store,
		notify: make(chan struct{}, 1),
	}
}

func (s *Subscription) push(state State) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = append(s.pending, state)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Next blocks until the next state is available
func (s *Subscription) Next(ctx context.Context) (State, error) {
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return State{}, ErrClosed
		}
		if len(s.pending) > 0 {
			state := s.pending[0]
			s.pending[0] = State{}
			s.pending = s.pending[1:]
			s.mu.Unlock()
			return state, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return State{}, ctx.Err()
		case <-s.notify:
		}
	}
}

// Pending returns how many states are queued
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close unregisters the subscription and wakes a blocked Next
func (s *Subscription) Close() {
	s.store.unsubscribe(s)

	s.mu.Lock()
	s.closed = true
	s.pending = nil
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}
