// Package export renders the region hierarchy to image files.
package export

import (
	"github.com/stuxhq/stux/pkg/region"
)

// Node is one row of the hierarchy outline
type Node struct {
	ID       string
	Label    string
	Status   string
	Depth    int
	Row      int
	Parent   int // row of the parent node, -1 for roots
	Active   bool
	Selected bool
	InScope  bool
}

// Layout is the region hierarchy flattened into outline rows
type Layout struct {
	Nodes    []Node
	MaxDepth int
}

// BuildLayout walks the hierarchy depth-first from every root, placing each
// region on its own row. Regions reachable from several parents appear once,
// under the first parent that reaches them. Regions only reachable through a
// cycle are appended as extra roots so nothing is dropped.
func BuildLayout(res *region.Resolver, reg *region.Registry, activeID string) Layout {
	activeID = region.NormalizeID(activeID)
	scope := res.ScopeOf(activeID)

	hasParent := make(map[string]bool)
	for _, children := range reg.Edges() {
		for _, child := range children {
			hasParent[region.NormalizeID(child)] = true
		}
	}

	var layout Layout
	placed := make(map[string]bool)

	var visit func(id string, depth, parent int)
	visit = func(id string, depth, parent int) {
		if placed[id] {
			return
		}
		meta := reg.Get(id)
		if meta == nil {
			return
		}
		placed[id] = true

		row := len(layout.Nodes)
		layout.Nodes = append(layout.Nodes, Node{
			ID:       meta.ID,
			Label:    meta.DisplayLabel(),
			Status:   meta.StatusLabel,
			Depth:    depth,
			Row:      row,
			Parent:   parent,
			Active:   meta.IsActive(),
			Selected: meta.ID == activeID,
			InScope:  activeID != "" && scope.Contains(meta.ID),
		})
		if depth > layout.MaxDepth {
			layout.MaxDepth = depth
		}
		for _, child := range res.ChildrenOf(id) {
			visit(region.NormalizeID(child), depth+1, row)
		}
	}

	regions := reg.List()
	for _, r := range regions {
		if !hasParent[r.ID] {
			visit(r.ID, 0, -1)
		}
	}
	for _, r := range regions {
		visit(r.ID, 0, -1)
	}

	return layout
}
