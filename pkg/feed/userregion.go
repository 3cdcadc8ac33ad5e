package feed

import (
	"strings"

	"github.com/stuxhq/stux/pkg/region"
)

// UserRegionLabel is the member's declared home region as typed: trimmed,
// original casing kept.
func UserRegionLabel(label string) string {
	return strings.TrimSpace(label)
}

// ResolveUserRegion maps a declared home region label onto a region id. A
// known id wins, then a case-insensitive match on a region's label or short
// label. Blank or unrecognized labels resolve to the active region id, so
// the result follows the viewer's current navigation.
func ResolveUserRegion(sel *region.Selection, label string) string {
	fallback := region.NormalizeID(sel.ActiveRegionID())

	norm := region.NormalizeID(label)
	if norm == "" {
		return fallback
	}

	reg := sel.Registry()
	if reg.Has(norm) {
		return norm
	}
	for _, r := range reg.List() {
		if region.NormalizeID(r.Label) == norm || region.NormalizeID(r.ShortLabel) == norm {
			return r.ID
		}
	}
	return fallback
}
