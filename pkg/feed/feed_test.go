package feed

import (
	"reflect"
	"testing"

	"github.com/stuxhq/stux/pkg/model"
	"github.com/stuxhq/stux/pkg/region"
)

type post struct {
	model.RegionTags
	ID       string
	Category string
}

func newSelection() *region.Selection {
	reg := region.NewRegistry([]model.Region{
		{ID: "australia", Label: "Australia"},
		{ID: "melbourne", Label: "Melbourne"},
		{ID: "deakin", Label: "Deakin University"},
		{ID: "vietnam", Label: "Việt Nam", ShortLabel: "Vietnam"},
		{ID: "tphcm", Label: "Thành phố Hồ Chí Minh", ShortLabel: "Ho Chi Minh City"},
	}, map[string][]string{
		"australia": {"melbourne"},
		"melbourne": {"deakin"},
		"vietnam":   {"tphcm"},
	}, "australia")
	return region.NewSelection(reg, region.NewResolver(reg))
}

func ids[T Tagged](entries []Entry[T], id func(T) string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, id(e.Item))
	}
	return out
}

func postID(p post) string { return p.ID }

func tagged(id, r string) post {
	return post{ID: id, RegionTags: model.RegionTags{Region: r}}
}

func TestProjectScopesToHierarchy(t *testing.T) {
	sel := newSelection()
	items := []post{tagged("1", "vietnam"), tagged("2", "melbourne"), tagged("3", "tphcm")}

	sel.SetRegion("vietnam")
	got := Project(sel.Registry(), items, sel.ActiveScope(), nil)
	if want := []string{"1", "3"}; !reflect.DeepEqual(ids(got, postID), want) {
		t.Fatalf("vietnam feed = %v, want %v", ids(got, postID), want)
	}

	if got[1].Region == nil || got[1].Region.ShortLabel != "Ho Chi Minh City" {
		t.Errorf("entry not enriched with region meta: %+v", got[1].Region)
	}
	if !reflect.DeepEqual(got[1].RegionIDs, []string{"tphcm"}) {
		t.Errorf("region ids = %v", got[1].RegionIDs)
	}

	sel.SetRegion("melbourne")
	got = Project(sel.Registry(), items, sel.ActiveScope(), nil)
	if want := []string{"2"}; !reflect.DeepEqual(ids(got, postID), want) {
		t.Errorf("melbourne feed = %v, want %v", ids(got, postID), want)
	}
}

func TestProjectNilAndUntagged(t *testing.T) {
	sel := newSelection()
	if got := Project[post](sel.Registry(), nil, sel.ActiveScope(), nil); len(got) != 0 {
		t.Errorf("nil input should project to empty, got %d", len(got))
	}

	items := []post{{ID: "untagged"}, tagged("unknown", "atlantis")}
	got := Project(sel.Registry(), items, sel.ActiveScope(), nil)
	if want := []string{"untagged"}; !reflect.DeepEqual(ids(got, postID), want) {
		t.Errorf("default-scope feed = %v, want %v", ids(got, postID), want)
	}
	if got[0].Region == nil || got[0].Region.ID != "australia" {
		t.Errorf("untagged item should resolve to default region meta")
	}

	sel.SetRegion("vietnam")
	if got := Project(sel.Registry(), items, sel.ActiveScope(), nil); len(got) != 0 {
		t.Errorf("untagged items should stay in the default region only, got %v", ids(got, postID))
	}
}

func TestProjectUnknownPrimaryHasNilMeta(t *testing.T) {
	sel := newSelection()
	item := post{ID: "x", RegionTags: model.RegionTags{Region: "atlantis", Regions: []string{"australia"}}}
	got := Project(sel.Registry(), []post{item}, sel.ActiveScope(), nil)
	if len(got) != 1 {
		t.Fatalf("multi-tagged item should be in scope")
	}
	if got[0].Region != nil {
		t.Errorf("unknown primary region should give nil meta, got %+v", got[0].Region)
	}
	if !reflect.DeepEqual(got[0].RegionIDs, []string{"australia", "atlantis"}) {
		t.Errorf("region ids = %v", got[0].RegionIDs)
	}
}

func TestProjectPredicateOnlySeesInScopeItems(t *testing.T) {
	sel := newSelection()
	sel.SetRegion("vietnam")
	items := []post{tagged("1", "vietnam"), tagged("2", "melbourne"), tagged("3", "tphcm")}

	var seen []string
	got := Project(sel.Registry(), items, sel.ActiveScope(), func(p post) bool {
		seen = append(seen, p.ID)
		return p.ID != "1"
	})
	if !reflect.DeepEqual(seen, []string{"1", "3"}) {
		t.Errorf("predicate saw %v", seen)
	}
	if !reflect.DeepEqual(ids(got, postID), []string{"3"}) {
		t.Errorf("filtered feed = %v", ids(got, postID))
	}
}

func TestScopedFollowsSelectionAndPredicateState(t *testing.T) {
	sel := newSelection()
	sel.SetRegion("vietnam")
	store := NewStore([]post{
		{ID: "1", Category: "a", RegionTags: model.RegionTags{Region: "vietnam"}},
		{ID: "2", Category: "b", RegionTags: model.RegionTags{Region: "tphcm"}},
		{ID: "3", Category: "a", RegionTags: model.RegionTags{Region: "melbourne"}},
	})

	activeCategory := "a"
	primary := NewScoped(sel, store, nil)
	filtered := NewScoped(sel, store, func(p post) bool { return p.Category == activeCategory })
	defer primary.Close()
	defer filtered.Close()

	if got := ids(primary.Entries(), postID); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Errorf("primary = %v", got)
	}
	if got := ids(filtered.Entries(), postID); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("filtered = %v", got)
	}

	activeCategory = "b"
	if got := ids(filtered.Entries(), postID); !reflect.DeepEqual(got, []string{"2"}) {
		t.Errorf("filtered after category change = %v", got)
	}

	sel.SetRegion("melbourne")
	if got := ids(primary.Entries(), postID); !reflect.DeepEqual(got, []string{"3"}) {
		t.Errorf("primary after region change = %v", got)
	}
	if got := filtered.Entries(); len(got) != 0 {
		t.Errorf("filtered after region change = %v", ids(got, postID))
	}
}

func TestScopedFollowsStoreChanges(t *testing.T) {
	sel := newSelection()
	store := NewStore([]post{tagged("old", "deakin")})
	feed := NewScoped(sel, store, nil)

	if got := ids(feed.Entries(), postID); !reflect.DeepEqual(got, []string{"old"}) {
		t.Fatalf("initial = %v", got)
	}

	store.Add(tagged("new", "melbourne"))
	if got := ids(feed.Entries(), postID); !reflect.DeepEqual(got, []string{"new", "old"}) {
		t.Errorf("after add = %v", got)
	}

	store.Replace([]post{tagged("vn", "vietnam")})
	if got := feed.Entries(); len(got) != 0 {
		t.Errorf("after replace = %v", ids(got, postID))
	}

	feed.Close()
	sel.SetRegion("vietnam")
	// A closed feed no longer hears about changes, so it keeps its last projection.
	if got := feed.Entries(); len(got) != 0 {
		t.Errorf("closed feed re-projected: %v", ids(got, postID))
	}
}

func TestStoreRevision(t *testing.T) {
	store := NewStore[post](nil)
	calls := 0
	unsubscribe := store.Subscribe(func() { calls++ })
	store.Add(tagged("a", "x"))
	store.Add(tagged("b", "x"))
	unsubscribe()
	store.Replace(nil)

	if store.Revision() != 3 {
		t.Errorf("revision = %d, want 3", store.Revision())
	}
	if calls != 2 {
		t.Errorf("listener calls = %d, want 2", calls)
	}
	if store.Len() != 0 {
		t.Errorf("len = %d", store.Len())
	}
}

func TestUserRegion(t *testing.T) {
	sel := newSelection()
	sel.SetRegion("melbourne")

	tests := []struct {
		label     string
		wantLabel string
		wantID    string
	}{
		{"  TPHCM ", "TPHCM", "tphcm"},
		{"   ", "", "melbourne"},
		{"", "", "melbourne"},
		{"Ho Chi Minh City", "Ho Chi Minh City", "tphcm"},
		{"việt nam", "việt nam", "vietnam"},
		{"Atlantis", "Atlantis", "melbourne"},
	}
	for _, tt := range tests {
		if got := UserRegionLabel(tt.label); got != tt.wantLabel {
			t.Errorf("UserRegionLabel(%q) = %q, want %q", tt.label, got, tt.wantLabel)
		}
		if got := ResolveUserRegion(sel, tt.label); got != tt.wantID {
			t.Errorf("ResolveUserRegion(%q) = %q, want %q", tt.label, got, tt.wantID)
		}
	}
}
