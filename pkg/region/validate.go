package region

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ProblemKind categorizes a hierarchy defect
type ProblemKind string

const (
	ProblemDuplicateID   ProblemKind = "duplicate_id"
	ProblemUnknownChild  ProblemKind = "unknown_child"
	ProblemUnknownParent ProblemKind = "unknown_parent"
	ProblemSelfReference ProblemKind = "self_reference"
	ProblemCycle         ProblemKind = "cycle"
)

// Problem is an advisory finding about the registry data. None of them stop
// the resolver from working; they flag data that will behave surprisingly.
type Problem struct {
	Kind ProblemKind
	IDs  []string
}

func (p Problem) String() string {
	switch p.Kind {
	case ProblemDuplicateID:
		return fmt.Sprintf("region %q is defined more than once", p.IDs[0])
	case ProblemUnknownChild:
		return fmt.Sprintf("region %q lists unknown child %q", p.IDs[0], p.IDs[1])
	case ProblemUnknownParent:
		return fmt.Sprintf("children defined for unknown region %q", p.IDs[0])
	case ProblemSelfReference:
		return fmt.Sprintf("region %q lists itself as a child", p.IDs[0])
	case ProblemCycle:
		return "cycle: " + strings.Join(p.IDs, " -> ")
	}
	return string(p.Kind)
}

// Validate inspects the registry and its edges for defects
func Validate(reg *Registry) []Problem {
	var problems []Problem

	for _, id := range reg.Duplicates() {
		problems = append(problems, Problem{Kind: ProblemDuplicateID, IDs: []string{id}})
	}

	parents := make([]string, 0, len(reg.children))
	for parent := range reg.children {
		parents = append(parents, parent)
	}
	sort.Strings(parents)

	// Map ids onto gonum's int64 node ids.
	nodeIDs := make(map[string]int64)
	names := make(map[int64]string)
	node := func(id string) simple.Node {
		n, ok := nodeIDs[id]
		if !ok {
			n = int64(len(nodeIDs))
			nodeIDs[id] = n
			names[n] = id
		}
		return simple.Node(n)
	}

	g := simple.NewDirectedGraph()
	for _, region := range reg.regions {
		g.AddNode(node(region.ID))
	}

	for _, parent := range parents {
		if !reg.Has(parent) {
			problems = append(problems, Problem{Kind: ProblemUnknownParent, IDs: []string{parent}})
		}
		from := node(parent)
		if g.Node(from.ID()) == nil {
			g.AddNode(from)
		}
		for _, child := range reg.children[parent] {
			if child == parent {
				// simple graphs reject self edges; report them directly.
				problems = append(problems, Problem{Kind: ProblemSelfReference, IDs: []string{parent}})
				continue
			}
			if !reg.Has(child) {
				problems = append(problems, Problem{Kind: ProblemUnknownChild, IDs: []string{parent, child}})
			}
			to := node(child)
			if g.Node(to.ID()) == nil {
				g.AddNode(to)
			}
			g.SetEdge(g.NewEdge(from, to))
		}
	}

	var cycles []Problem
	for _, cycle := range topo.DirectedCyclesIn(g) {
		ids := make([]string, len(cycle))
		for i, n := range cycle {
			ids[i] = names[n.ID()]
		}
		cycles = append(cycles, Problem{Kind: ProblemCycle, IDs: ids})
	}
	sort.Slice(cycles, func(i, j int) bool {
		return strings.Join(cycles[i].IDs, ",") < strings.Join(cycles[j].IDs, ",")
	})

	return append(problems, cycles...)
}
