package region

import (
	"github.com/stuxhq/stux/pkg/model"
)

// DefaultRegionID is used when no configured default resolves.
const DefaultRegionID = "australia"

// Registry is the immutable set of known regions plus the hierarchy edges
// between them. It is safe for concurrent reads.
type Registry struct {
	regions    []model.Region
	byID       map[string]int
	children   map[string][]string
	defaultID  string
	duplicates []string
}

// NewRegistry builds a registry from region definitions and parent -> children
// edges. Ids are normalized, blank ids are skipped and the first definition of
// a duplicated id wins. If defaultID does not name a known region the first
// region becomes the default.
func NewRegistry(regions []model.Region, children map[string][]string, defaultID string) *Registry {
	r := &Registry{
		regions:  make([]model.Region, 0, len(regions)),
		byID:     make(map[string]int, len(regions)),
		children: make(map[string][]string, len(children)),
	}

	for _, def := range regions {
		id := NormalizeID(def.ID)
		if id == "" {
			continue
		}
		if _, exists := r.byID[id]; exists {
			r.duplicates = append(r.duplicates, id)
			continue
		}
		region := def.Clone()
		region.ID = id
		r.byID[id] = len(r.regions)
		r.regions = append(r.regions, region)
	}

	for parent, ids := range children {
		p := NormalizeID(parent)
		if p == "" {
			continue
		}
		for _, child := range ids {
			if c := NormalizeID(child); c != "" {
				r.children[p] = append(r.children[p], c)
			}
		}
	}

	r.defaultID = NormalizeID(defaultID)
	if _, ok := r.byID[r.defaultID]; !ok {
		if len(r.regions) > 0 {
			r.defaultID = r.regions[0].ID
		} else if r.defaultID == "" {
			r.defaultID = DefaultRegionID
		}
	}

	return r
}

// List returns all regions in definition order
func (r *Registry) List() []model.Region {
	out := make([]model.Region, len(r.regions))
	copy(out, r.regions)
	return out
}

// Get returns the region for id, or nil if it is unknown
func (r *Registry) Get(id string) *model.Region {
	idx, ok := r.byID[NormalizeID(id)]
	if !ok {
		return nil
	}
	region := r.regions[idx].Clone()
	return &region
}

// Has reports whether id names a known region
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[NormalizeID(id)]
	return ok
}

// SwitcherRegions returns the regions eligible for navigation UI, in order
func (r *Registry) SwitcherRegions() []model.Region {
	out := make([]model.Region, 0, len(r.regions))
	for _, region := range r.regions {
		if region.InSwitcher() {
			out = append(out, region)
		}
	}
	return out
}

// DefaultID returns the normalized id of the fallback region
func (r *Registry) DefaultID() string {
	return r.defaultID
}

// Duplicates returns ids that were defined more than once
func (r *Registry) Duplicates() []string {
	out := make([]string, len(r.duplicates))
	copy(out, r.duplicates)
	return out
}

// Edges returns a copy of the parent -> children mapping
func (r *Registry) Edges() map[string][]string {
	out := make(map[string][]string, len(r.children))
	for parent, ids := range r.children {
		out[parent] = append([]string(nil), ids...)
	}
	return out
}

// Len returns the number of known regions
func (r *Registry) Len() int {
	return len(r.regions)
}
