package region

// Scope is the set of region ids that count as "inside" a region: the region
// itself plus every descendant, in depth-first discovery order. A Scope is
// immutable once built.
type Scope struct {
	order   []string
	members map[string]struct{}
}

// NewScope builds a scope from ids, normalizing and de-duplicating them.
func NewScope(ids ...string) Scope {
	s := Scope{members: make(map[string]struct{}, len(ids))}
	for _, raw := range ids {
		id := NormalizeID(raw)
		if id == "" {
			continue
		}
		if _, ok := s.members[id]; ok {
			continue
		}
		s.members[id] = struct{}{}
		s.order = append(s.order, id)
	}
	return s
}

// Contains reports whether id is in scope
func (s Scope) Contains(id string) bool {
	_, ok := s.members[NormalizeID(id)]
	return ok
}

// Intersects reports whether any of the already-normalized ids is in scope
func (s Scope) Intersects(ids []string) bool {
	for _, id := range ids {
		if _, ok := s.members[id]; ok {
			return true
		}
	}
	return false
}

// IDs returns the members in discovery order
func (s Scope) IDs() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of members
func (s Scope) Len() int {
	return len(s.order)
}

// IsEmpty reports whether the scope has no members
func (s Scope) IsEmpty() bool {
	return len(s.order) == 0
}

// Equal compares membership, ignoring order
func (s Scope) Equal(other Scope) bool {
	if len(s.members) != len(other.members) {
		return false
	}
	for id := range s.members {
		if _, ok := other.members[id]; !ok {
			return false
		}
	}
	return true
}

// Resolver expands region ids into scopes by following the registry's
// hierarchy edges. Scopes for every known region are computed once up front.
type Resolver struct {
	reg    *Registry
	scopes map[string]Scope
}

// NewResolver precomputes the scope of every region in reg
func NewResolver(reg *Registry) *Resolver {
	res := &Resolver{
		reg:    reg,
		scopes: make(map[string]Scope, reg.Len()),
	}
	for _, region := range reg.regions {
		res.scopes[region.ID] = res.walk(region.ID)
	}
	return res
}

// ChildrenOf returns the ordered child ids of id; empty if none are defined
func (res *Resolver) ChildrenOf(id string) []string {
	return append([]string(nil), res.reg.children[NormalizeID(id)]...)
}

// ScopeOf returns id plus all of its descendants. Ids with no hierarchy
// entry, including unknown ones, resolve to a scope holding only themselves.
func (res *Resolver) ScopeOf(id string) Scope {
	norm := NormalizeID(id)
	if s, ok := res.scopes[norm]; ok {
		return s
	}
	return res.walk(norm)
}

// walk performs the depth-first traversal. A node that was already visited
// on this walk contributes nothing further, which keeps cyclic edges finite.
func (res *Resolver) walk(root string) Scope {
	s := Scope{members: make(map[string]struct{})}
	if root == "" {
		return s
	}

	var visit func(id string)
	visit = func(id string) {
		if _, seen := s.members[id]; seen {
			return
		}
		s.members[id] = struct{}{}
		s.order = append(s.order, id)
		for _, child := range res.reg.children[id] {
			visit(child)
		}
	}
	visit(root)

	return s
}
