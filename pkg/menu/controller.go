// Package menu implements the drill-down region switcher as a small state
// machine: Closed, RootView and SubregionView(parent). It reads the region
// hierarchy and writes back only through Selection.SetRegion.
package menu

import (
	"github.com/stuxhq/stux/pkg/model"
	"github.com/stuxhq/stux/pkg/region"
)

const (
	// RootViewKey identifies the root list for transition keying.
	RootViewKey = "root"

	TransitionForward  = "region-slide-forward"
	TransitionBackward = "region-slide-backward"
)

// Controller is the drill-down menu state. The zero value is not usable;
// create one with New.
type Controller struct {
	sel *region.Selection

	open      bool
	direction model.MenuDirection
	parentID  string

	// Derived once from the immutable registry.
	subregions map[string][]model.Region
	roots      []model.Region
}

// New builds a closed menu over the selection's registry
func New(sel *region.Selection) *Controller {
	c := &Controller{
		sel:        sel,
		direction:  model.DirectionForward,
		subregions: make(map[string][]model.Region),
	}

	reg, res := sel.Registry(), sel.Resolver()
	childIDs := make(map[string]bool)
	for _, parent := range reg.List() {
		var visible []model.Region
		for _, id := range res.ChildrenOf(parent.ID) {
			meta := reg.Get(id)
			if meta == nil || !meta.InSwitcher() {
				continue
			}
			visible = append(visible, *meta)
			childIDs[meta.ID] = true
		}
		if len(visible) > 0 {
			c.subregions[parent.ID] = visible
		}
	}

	for _, r := range reg.SwitcherRegions() {
		if !childIDs[r.ID] {
			c.roots = append(c.roots, r)
		}
	}

	return c
}

// View reports the current state
func (c *Controller) View() model.MenuView {
	switch {
	case !c.open:
		return model.MenuClosed
	case c.parentID != "":
		return model.MenuSubregionView
	default:
		return model.MenuRootView
	}
}

// IsOpen reports whether the menu is showing
func (c *Controller) IsOpen() bool {
	return c.open
}

// IsSubregionView reports whether a parent region is drilled into
func (c *Controller) IsSubregionView() bool {
	return c.open && c.parentID != ""
}

// Direction is the direction of the last navigation
func (c *Controller) Direction() model.MenuDirection {
	return c.direction
}

// SubregionParentID returns the drilled-into parent, or ""
func (c *Controller) SubregionParentID() string {
	return c.parentID
}

// Toggle opens a closed menu at the root, or closes an open one
func (c *Controller) Toggle() {
	if c.open {
		c.Close()
		return
	}
	c.open = true
	c.reset()
}

// Close shuts the menu and resets navigation
func (c *Controller) Close() {
	c.open = false
	c.reset()
}

// DismissOutside handles a click outside the rendered menu surface
func (c *Controller) DismissOutside() {
	if !c.open {
		return
	}
	c.Close()
}

func (c *Controller) reset() {
	c.direction = model.DirectionForward
	c.parentID = ""
}

// Subregions returns the switcher-visible, known children of id
func (c *Controller) Subregions(id string) []model.Region {
	return append([]model.Region(nil), c.subregions[region.NormalizeID(id)]...)
}

// HasSubregions reports whether id can be drilled into
func (c *Controller) HasSubregions(id string) bool {
	return len(c.subregions[region.NormalizeID(id)]) > 0
}

// OpenSubregionView drills into id from the root list. Regions without
// visible children, and calls while closed or already drilled in, are
// ignored.
func (c *Controller) OpenSubregionView(id string) bool {
	norm := region.NormalizeID(id)
	if c.View() != model.MenuRootView || !c.HasSubregions(norm) {
		return false
	}
	c.direction = model.DirectionForward
	c.parentID = norm
	return true
}

// Back returns from a subregion view to the root list
func (c *Controller) Back() bool {
	if c.View() != model.MenuSubregionView {
		return false
	}
	c.direction = model.DirectionBackward
	c.parentID = ""
	return true
}

// SelectRegion activates r and closes the menu. Nil and waitlisted regions
// are refused.
func (c *Controller) SelectRegion(r *model.Region) bool {
	if r == nil || region.NormalizeID(r.ID) == "" || !r.IsActive() {
		return false
	}
	c.sel.SetRegion(r.ID)
	c.Close()
	return true
}

// RootRegions lists switcher regions that are not anybody's subregion
func (c *Controller) RootRegions() []model.Region {
	return append([]model.Region(nil), c.roots...)
}

// Regions lists what the current view shows
func (c *Controller) Regions() []model.Region {
	if c.parentID == "" {
		return c.RootRegions()
	}
	return c.Subregions(c.parentID)
}

// ParentRegion returns the drilled-into region's metadata, or nil
func (c *Controller) ParentRegion() *model.Region {
	if c.parentID == "" {
		return nil
	}
	return c.sel.RegionMeta(c.parentID)
}

// HeaderLabel titles the current view
func (c *Controller) HeaderLabel() string {
	if c.parentID == "" {
		return "Regions"
	}
	parent := c.ParentRegion()
	switch {
	case parent == nil:
		return "Subregions"
	case parent.ShortLabel != "":
		return parent.ShortLabel
	case parent.Label != "":
		return parent.Label
	}
	return "Subregions"
}

// Transition names the slide animation for the last move
func (c *Controller) Transition() string {
	if c.direction == model.DirectionBackward {
		return TransitionBackward
	}
	return TransitionForward
}

// ViewKey identifies the current list, changing whenever it is swapped
func (c *Controller) ViewKey() string {
	if c.parentID == "" {
		return RootViewKey
	}
	return c.parentID
}

// ActiveRegionLabel is the short name of the active region for the switcher button
func (c *Controller) ActiveRegionLabel() string {
	if active := c.sel.ActiveRegion(); active != nil {
		return active.DisplayLabel()
	}
	if def := c.sel.Registry().Get(c.sel.Registry().DefaultID()); def != nil {
		return def.DisplayLabel()
	}
	return "Australia"
}

// Selection returns the selection the menu writes to
func (c *Controller) Selection() *region.Selection {
	return c.sel
}
