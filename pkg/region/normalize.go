// Package region holds the region hierarchy: the registry of known regions,
// the scope resolver that expands a region into itself plus all of its
// descendants, and the selection state that tracks the active region.
//
// Every function in this package treats noisy input (unknown ids, odd
// casing, stray whitespace, cyclic edges) as something to recover from, not
// something to report. Lookups return nil or empty values instead of errors.
package region

import (
	"strings"

	"github.com/stuxhq/stux/pkg/model"
)

// NormalizeID trims and lower-cases a region id. Blank input yields "".
func NormalizeID(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// ItemRegionIDs reduces an item's region tags to a de-duplicated list of
// normalized ids: list entries first, then the single region field. Items
// with no usable tag fall back to defaultID so they stay visible somewhere.
func ItemRegionIDs(tags model.RegionTags, defaultID string) []string {
	ids := make([]string, 0, len(tags.Regions)+1)
	seen := make(map[string]bool, len(tags.Regions)+1)

	add := func(value string) {
		id := NormalizeID(value)
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	for _, r := range tags.Regions {
		add(r)
	}
	add(tags.Region)

	if len(ids) == 0 {
		if def := NormalizeID(defaultID); def != "" {
			ids = append(ids, def)
		}
	}
	return ids
}

// PrimaryRegionID is the explicit single region when present, otherwise the
// first derived id.
func PrimaryRegionID(tags model.RegionTags, ids []string) string {
	if id := NormalizeID(tags.Region); id != "" {
		return id
	}
	if len(ids) > 0 {
		return ids[0]
	}
	return ""
}
