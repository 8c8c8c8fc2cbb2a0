package tree

import "sort"

// ExpansionSet holds the ids of expanded nodes. It has value semantics:
// every mutating method returns a new set and leaves the receiver untouched.
type ExpansionSet struct {
	ids map[string]struct{}
}

func NewExpansionSet(ids ...string) ExpansionSet {
	s := ExpansionSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// SeedExpansion expands exactly the roots of g, so a fresh load shows the
// roots and their direct children.
func SeedExpansion(g *Graph) ExpansionSet {
	return NewExpansionSet(g.Roots()...)
}

// CollapseAll returns the set a fresh load starts with.
func CollapseAll(g *Graph) ExpansionSet { return SeedExpansion(g) }

// ExpandAll expands every node that has children, plus the roots.
func ExpandAll(g *Graph) ExpansionSet {
	ids := g.Roots()
	for _, n := range g.Nodes() {
		if n.HasChildren {
			ids = append(ids, n.ID)
		}
	}
	return NewExpansionSet(ids...)
}

func (s ExpansionSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s ExpansionSet) Len() int { return len(s.ids) }

// Toggle flips membership of id. Unknown ids are accepted; they expand nothing.
func (s ExpansionSet) Toggle(id string) ExpansionSet {
	next := s.clone()
	if _, ok := next.ids[id]; ok {
		delete(next.ids, id)
	} else {
		next.ids[id] = struct{}{}
	}
	return next
}

// With returns a copy of s with ids added.
func (s ExpansionSet) With(ids ...string) ExpansionSet {
	next := s.clone()
	for _, id := range ids {
		next.ids[id] = struct{}{}
	}
	return next
}

// IDs returns the members sorted.
func (s ExpansionSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s ExpansionSet) Equal(o ExpansionSet) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for id := range s.ids {
		if !o.Has(id) {
			return false
		}
	}
	return true
}

func (s ExpansionSet) clone() ExpansionSet {
	next := ExpansionSet{ids: make(map[string]struct{}, len(s.ids)+1)}
	for id := range s.ids {
		next.ids[id] = struct{}{}
	}
	return next
}
