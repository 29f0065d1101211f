package store

import (
	"context"
	"fmt"
	"sync"
)

// Hook observes every dispatched action before the new state is committed.
// A hook error aborts the dispatch and leaves the state untouched.
type Hook interface {
	Apply(ctx context.Context, action Action, next State) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, action Action, next State) error

// Apply calls f.
func (f HookFunc) Apply(ctx context.Context, action Action, next State) error {
	return f(ctx, action, next)
}

// Option configures optional behaviour for the Store.
type Option func(*Store)

// WithHooks appends hooks run on every dispatch, in order.
func WithHooks(hooks ...Hook) Option {
	return func(s *Store) {
		s.hooks = append(s.hooks, hooks...)
	}
}

type watcher struct {
	id int
	fn func(State)
}

// Store owns the tracker State. Dispatches are serialized; reads may run concurrently.
type Store struct {
	dispatchMu sync.Mutex

	mu       sync.RWMutex
	state    State
	watchers []watcher
	nextID   int

	hooks []Hook
}

// New constructs a Store seeded with initial.
func New(initial State, opts ...Option) *Store {
	s := &Store{state: initial.clone()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Dispatch reduces action into the state. Watchers registered with WatchActiveID
// run synchronously before Dispatch returns when the selection changed. Watchers
// must not call Dispatch.
func (s *Store) Dispatch(ctx context.Context, action Action) error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	prev := s.Snapshot()
	next := Reduce(prev, action)

	for _, hook := range s.hooks {
		if err := hook.Apply(ctx, action, next.clone()); err != nil {
			return fmt.Errorf("%s: %w", action.Type(), err)
		}
	}

	s.mu.Lock()
	s.state = next
	watchers := make([]watcher, len(s.watchers))
	copy(watchers, s.watchers)
	s.mu.Unlock()

	if prev.ActiveID != next.ActiveID {
		for _, w := range watchers {
			w.fn(next.clone())
		}
	}
	return nil
}

// WatchActiveID registers fn to run whenever ActiveID changes. The returned
// function removes the watcher.
func (s *Store) WatchActiveID(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.watchers = append(s.watchers, watcher{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w.id == id {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				return
			}
		}
	}
}
