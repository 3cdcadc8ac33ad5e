// Package feed projects content collections onto the active region scope.
//
// Project is the pure core: given items, a scope and an optional predicate
// it returns the visible, enriched entries. Store and Scoped wrap it with an
// explicit subscription chain (selection change -> scoped feed invalidated ->
// re-projected on next read) so UI code never has to track staleness itself.
package feed

import (
	"github.com/stuxhq/stux/pkg/model"
	"github.com/stuxhq/stux/pkg/region"
)

// Tagged is implemented by any content item carrying region tags. Structs
// embedding model.RegionTags get it for free.
type Tagged interface {
	Tags() model.RegionTags
}

// Predicate filters items that are already in scope
type Predicate[T Tagged] func(item T) bool

// Entry is an in-scope item enriched with its resolved regions
type Entry[T Tagged] struct {
	Item T
	// RegionIDs is the full normalized tag set of the item.
	RegionIDs []string
	// Region is the metadata of the primary region; nil when it is unknown.
	Region *model.Region
}

// Project returns the items whose region tags intersect scope, in input
// order. The predicate, when set, only sees in-scope items.
func Project[T Tagged](reg *region.Registry, items []T, scope region.Scope, predicate Predicate[T]) []Entry[T] {
	out := make([]Entry[T], 0, len(items))
	for _, item := range items {
		tags := item.Tags()
		ids := region.ItemRegionIDs(tags, reg.DefaultID())
		if !scope.Intersects(ids) {
			continue
		}
		if predicate != nil && !predicate(item) {
			continue
		}
		out = append(out, Entry[T]{
			Item:      item,
			RegionIDs: ids,
			Region:    reg.Get(region.PrimaryRegionID(tags, ids)),
		})
	}
	return out
}

// Filter applies predicate to already projected entries, keeping order
func Filter[T Tagged](entries []Entry[T], predicate Predicate[T]) []Entry[T] {
	if predicate == nil {
		return entries
	}
	out := make([]Entry[T], 0, len(entries))
	for _, e := range entries {
		if predicate(e.Item) {
			out = append(out, e)
		}
	}
	return out
}
