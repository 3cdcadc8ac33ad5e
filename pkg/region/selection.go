package region

import (
	"sync"

	"github.com/stuxhq/stux/pkg/model"
)

// Change describes a move of the active region
type Change struct {
	Previous string
	Current  string
}

// Selection tracks the single active region. SetRegion is the only write
// path; everything else reads. Listeners registered with Subscribe run after
// a change is fully applied, so they never observe a half-updated state.
type Selection struct {
	reg *Registry
	res *Resolver

	mu        sync.RWMutex
	activeID  string
	listeners map[int]func(Change)
	nextID    int
}

// NewSelection creates a selection pointing at the registry default
func NewSelection(reg *Registry, res *Resolver) *Selection {
	return &Selection{
		reg:       reg,
		res:       res,
		activeID:  reg.DefaultID(),
		listeners: make(map[int]func(Change)),
	}
}

// Registry returns the registry this selection reads from
func (s *Selection) Registry() *Registry {
	return s.reg
}

// Resolver returns the resolver used to derive scopes
func (s *Selection) Resolver() *Resolver {
	return s.res
}

// ActiveRegionID returns the active id, never empty
func (s *Selection) ActiveRegionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeID == "" {
		return s.reg.DefaultID()
	}
	return s.activeID
}

// ActiveRegion returns the active region's metadata, or nil
func (s *Selection) ActiveRegion() *model.Region {
	return s.reg.Get(s.ActiveRegionID())
}

// ActiveScope returns the scope of the active region, or {default} if the
// resolver yields nothing.
func (s *Selection) ActiveScope() Scope {
	scope := s.res.ScopeOf(s.ActiveRegionID())
	if scope.IsEmpty() {
		return NewScope(s.reg.DefaultID())
	}
	return scope
}

// RegionMeta looks up a region by a possibly unnormalized value
func (s *Selection) RegionMeta(value string) *model.Region {
	if NormalizeID(value) == "" {
		return nil
	}
	return s.reg.Get(value)
}

// SetRegion makes value the active region when it names a known region and
// resets to the default otherwise. Invalid input is not an error.
func (s *Selection) SetRegion(value string) {
	next := NormalizeID(value)
	if next == "" || !s.reg.Has(next) {
		next = s.reg.DefaultID()
	}

	s.mu.Lock()
	prev := s.activeID
	s.activeID = next
	var listeners []func(Change)
	if prev != next {
		listeners = s.snapshotListenersLocked()
	}
	s.mu.Unlock()

	change := Change{Previous: prev, Current: next}
	for _, fn := range listeners {
		fn(change)
	}
}

// Subscribe registers fn to be called after every change of the active
// region. The returned function removes the listener.
func (s *Selection) Subscribe(fn func(Change)) (unsubscribe func()) {
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

// snapshotListenersLocked returns listeners in registration order
func (s *Selection) snapshotListenersLocked() []func(Change) {
	out := make([]func(Change), 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}
