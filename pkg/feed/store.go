package feed

import "sync"

// Store is an in-memory collection of content items that notifies
// subscribers whenever its contents change.
type Store[T Tagged] struct {
	mu        sync.RWMutex
	items     []T
	revision  uint64
	listeners map[int]func()
	nextID    int
}

// NewStore creates a store seeded with a copy of items
func NewStore[T Tagged](items []T) *Store[T] {
	return &Store[T]{
		items:     append([]T(nil), items...),
		listeners: make(map[int]func()),
	}
}

// Items returns a snapshot of the collection
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

// Len returns the number of items
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Revision increases on every change
func (s *Store[T]) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Add puts item at the front of the collection, newest first
func (s *Store[T]) Add(item T) {
	s.mutate(func(items []T) []T {
		return append([]T{item}, items...)
	})
}

// Replace swaps the whole collection, e.g. after a reload from disk
func (s *Store[T]) Replace(items []T) {
	s.mutate(func([]T) []T {
		return append([]T(nil), items...)
	})
}

// Subscribe registers fn to run after every change. The returned function
// removes the listener.
func (s *Store[T]) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store[T]) mutate(apply func([]T) []T) {
	s.mu.Lock()
	s.items = apply(s.items)
	s.revision++
	listeners := make([]func(), 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
