// Package store holds the widget state and tells listeners when it changes.
package store

import (
	"sync"

	"github.com/idilsaglam/todowidget/internal/model"
)

// Listener is called with the committed state after every Set.
type Listener func(model.AppState)

type subscription struct {
	id uint64
	fn Listener
}

// Store is the single source of truth for an AppState.
//
// Set calls are serialised: a commit and every listener call it triggers
// finish before the next Set starts. Get may be called from anywhere,
// including from inside a listener. Listeners must not call Set.
type Store struct {
	commitMu sync.Mutex

	mu        sync.RWMutex
	data      model.AppState
	revision  uint64
	listeners []subscription
	nextID    uint64
}

// New creates a store seeded with initial.
func New(initial model.AppState) *Store {
	return &Store{data: initial.Normalize()}
}

// Get returns the current state. Callers must not mutate it.
func (s *Store) Get() model.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Revision returns the number of committed updates.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Set replaces the state with updater(current) and notifies listeners in
// the order they subscribed. A panicking updater leaves the state as it
// was and no listener runs.
func (s *Store) Set(updater func(model.AppState) model.AppState) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	next := updater(s.Get()).Normalize()

	s.mu.Lock()
	s.data = next
	s.revision++
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(next)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *Store) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}
