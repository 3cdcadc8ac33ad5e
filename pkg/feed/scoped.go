package feed

import (
	"sync"

	"github.com/stuxhq/stux/pkg/region"
)

// Scoped keeps a store projected onto the selection's active scope. The
// in-scope set is cached and dropped whenever the selection or the store
// changes; the predicate runs on every read, so it may close over state that
// changes without telling anyone (a category tab, a search box).
type Scoped[T Tagged] struct {
	sel   *region.Selection
	store *Store[T]

	mu        sync.Mutex
	predicate Predicate[T]
	inScope   []Entry[T]
	dirty     bool
	unsubs    []func()
}

// NewScoped binds store to sel. Call Close to detach it.
func NewScoped[T Tagged](sel *region.Selection, store *Store[T], predicate Predicate[T]) *Scoped[T] {
	s := &Scoped[T]{
		sel:       sel,
		store:     store,
		predicate: predicate,
		dirty:     true,
	}
	s.unsubs = append(s.unsubs,
		sel.Subscribe(func(region.Change) { s.Invalidate() }),
		store.Subscribe(s.Invalidate),
	)
	return s
}

// Entries returns the visible entries for the current active scope
func (s *Scoped[T]) Entries() []Entry[T] {
	s.mu.Lock()
	if s.dirty {
		s.inScope = Project(s.sel.Registry(), s.store.Items(), s.sel.ActiveScope(), nil)
		s.dirty = false
	}
	entries, predicate := s.inScope, s.predicate
	s.mu.Unlock()

	out := Filter(entries, predicate)
	if predicate == nil {
		out = append([]Entry[T](nil), out...)
	}
	return out
}

// Invalidate forces re-projection on the next read
func (s *Scoped[T]) Invalidate() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Store returns the underlying collection
func (s *Scoped[T]) Store() *Store[T] {
	return s.store
}

// Close detaches the feed from its selection and store
func (s *Scoped[T]) Close() {
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()
	for _, fn := range unsubs {
		fn()
	}
}
