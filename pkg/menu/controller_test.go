package menu

import (
	"reflect"
	"testing"

	"github.com/stuxhq/stux/pkg/model"
	"github.com/stuxhq/stux/pkg/region"
)

func newController() *Controller {
	reg := region.NewRegistry([]model.Region{
		{ID: "australia", Label: "Australia", ShortLabel: "Australia", Active: model.Bool(true)},
		{ID: "melbourne", Label: "Melbourne", Active: model.Bool(true)},
		{ID: "deakin", Label: "Deakin University", Active: model.Bool(true)},
		{ID: "monash", Label: "Monash University", Active: model.Bool(false)},
		{ID: "sydney", Label: "Sydney", Active: model.Bool(false)},
		{ID: "vietnam", Label: "Việt Nam", ShortLabel: "Vietnam", Active: model.Bool(true)},
		{ID: "tphcm", Label: "Thành phố Hồ Chí Minh", ShortLabel: "Ho Chi Minh City"},
		{ID: "secret", Label: "Secret Campus", ShowInSwitcher: model.Bool(false)},
		{ID: "lonely", Label: "Lonely Town"},
	}, map[string][]string{
		"australia": {"melbourne", "sydney", "brisbane"},
		"melbourne": {"deakin", "monash"},
		"vietnam":   {"tphcm"},
		"lonely":    {"secret"},
	}, "australia")
	return New(region.NewSelection(reg, region.NewResolver(reg)))
}

func regionIDs(regions []model.Region) []string {
	out := make([]string, len(regions))
	for i, r := range regions {
		out[i] = r.ID
	}
	return out
}

func TestRootRegionsExcludeChildren(t *testing.T) {
	c := newController()
	got := regionIDs(c.RootRegions())
	want := []string{"australia", "vietnam", "lonely"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("roots = %v, want %v", got, want)
	}
}

func TestToggleOpensAtRootAndCloses(t *testing.T) {
	c := newController()
	if c.View() != model.MenuClosed {
		t.Fatalf("new menu should be closed")
	}

	c.Toggle()
	if c.View() != model.MenuRootView || c.Direction() != model.DirectionForward {
		t.Fatalf("toggle should open root view going forward, got %v/%v", c.View(), c.Direction())
	}
	if c.ViewKey() != RootViewKey || c.HeaderLabel() != "Regions" {
		t.Errorf("root view key/header = %q/%q", c.ViewKey(), c.HeaderLabel())
	}

	c.Toggle()
	if c.View() != model.MenuClosed {
		t.Errorf("second toggle should close")
	}
}

func TestOpenSubregionView(t *testing.T) {
	c := newController()
	c.Toggle()

	if !c.OpenSubregionView("Australia") {
		t.Fatalf("australia has visible children")
	}
	if c.View() != model.MenuSubregionView || c.SubregionParentID() != "australia" {
		t.Fatalf("state = %v parent=%q", c.View(), c.SubregionParentID())
	}
	if got := regionIDs(c.Regions()); !reflect.DeepEqual(got, []string{"melbourne", "sydney"}) {
		t.Errorf("subregions = %v (unknown ids must be dropped)", got)
	}
	if c.HeaderLabel() != "Australia" || c.ViewKey() != "australia" {
		t.Errorf("header/key = %q/%q", c.HeaderLabel(), c.ViewKey())
	}
	if c.Transition() != TransitionForward {
		t.Errorf("transition = %q", c.Transition())
	}

	// Already drilled in: nested drill-down from here is not a root transition.
	if c.OpenSubregionView("melbourne") {
		t.Errorf("drill-down from a subregion view should be ignored")
	}
}

func TestOpenSubregionViewNoops(t *testing.T) {
	c := newController()

	if c.OpenSubregionView("australia") {
		t.Errorf("closed menu should ignore drill-down")
	}

	c.Toggle()
	for _, id := range []string{"deakin", "lonely", "", "atlantis"} {
		if c.OpenSubregionView(id) {
			t.Errorf("OpenSubregionView(%q) should be a no-op", id)
		}
		if c.View() != model.MenuRootView {
			t.Errorf("state changed after OpenSubregionView(%q): %v", id, c.View())
		}
	}
	if c.HasSubregions("lonely") {
		t.Errorf("hidden children must not count as subregions")
	}
}

func TestBack(t *testing.T) {
	c := newController()
	c.Toggle()

	if c.Back() {
		t.Errorf("back from root should be a no-op")
	}

	c.OpenSubregionView("vietnam")
	if !c.Back() {
		t.Fatalf("back from subregion view should succeed")
	}
	if c.View() != model.MenuRootView || c.Direction() != model.DirectionBackward {
		t.Errorf("state = %v/%v", c.View(), c.Direction())
	}
	if c.Transition() != TransitionBackward {
		t.Errorf("transition = %q", c.Transition())
	}

	c.Close()
	c.Toggle()
	if c.Direction() != model.DirectionForward {
		t.Errorf("reopen should reset direction")
	}
}

func TestSelectRegion(t *testing.T) {
	c := newController()
	sel := c.Selection()
	c.Toggle()
	c.OpenSubregionView("australia")

	if c.SelectRegion(nil) {
		t.Errorf("nil region must be refused")
	}
	if c.SelectRegion(&model.Region{ID: "sydney", Active: model.Bool(false)}) {
		t.Errorf("waitlisted region must be refused")
	}
	if sel.ActiveRegionID() != "australia" || c.View() != model.MenuSubregionView {
		t.Errorf("refused selection changed state: %s / %v", sel.ActiveRegionID(), c.View())
	}

	var seenOpen []bool
	sel.Subscribe(func(region.Change) { seenOpen = append(seenOpen, c.IsOpen()) })

	melbourne := c.Regions()[0]
	if !c.SelectRegion(&melbourne) {
		t.Fatalf("melbourne should be selectable")
	}
	if sel.ActiveRegionID() != "melbourne" {
		t.Errorf("active = %q", sel.ActiveRegionID())
	}
	if c.View() != model.MenuClosed || c.SubregionParentID() != "" {
		t.Errorf("menu should close after selection, got %v", c.View())
	}
	if len(seenOpen) != 1 {
		t.Errorf("selection listeners called %d times", len(seenOpen))
	}
	if c.ActiveRegionLabel() != "Melbourne" {
		t.Errorf("active label = %q", c.ActiveRegionLabel())
	}
}

func TestDismissOutside(t *testing.T) {
	c := newController()
	c.DismissOutside()
	if c.IsOpen() {
		t.Fatalf("dismiss on closed menu should stay closed")
	}

	c.Toggle()
	c.OpenSubregionView("vietnam")
	c.DismissOutside()
	if c.View() != model.MenuClosed || c.SubregionParentID() != "" {
		t.Errorf("dismiss should close and reset, got %v parent=%q", c.View(), c.SubregionParentID())
	}
}
