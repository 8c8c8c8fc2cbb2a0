package tree

// OutlineRow is one line of an indented rendering of the visible subgraph.
type OutlineRow struct {
	Node     FlatNode
	Depth    int
	Expanded bool
	// Last is true when the node is the last visible child of its parent.
	Last bool
	// Guides[i] is true when the ancestor at depth i+1 has later siblings,
	// so a vertical guide continues through this row.
	Guides []bool
}

// Outline lists the visible nodes depth-first in child order, which is the
// order a reader scans an indented tree.
func Outline(g *Graph, sub Subgraph, expanded ExpansionSet) []OutlineRow {
	if g == nil || sub.Len() == 0 {
		return nil
	}
	visibleKids := make(map[string][]string)
	for _, e := range sub.Edges {
		visibleKids[e.Source] = append(visibleKids[e.Source], e.Target)
	}

	rows := make([]OutlineRow, 0, sub.Len())
	var walk func(id string, depth int, last bool, guides []bool)
	walk = func(id string, depth int, last bool, guides []bool) {
		n, _ := g.Node(id)
		rows = append(rows, OutlineRow{
			Node:     n,
			Depth:    depth,
			Expanded: expanded.Has(id),
			Last:     last,
			Guides:   guides,
		})
		kids := visibleKids[id]
		for i, k := range kids {
			next := guides
			if depth > 0 {
				next = append(append([]bool(nil), guides...), !last)
			}
			walk(k, depth+1, i == len(kids)-1, next)
		}
	}
	roots := g.Roots()
	for i, r := range roots {
		if sub.Contains(r) {
			walk(r, 0, i == len(roots)-1, nil)
		}
	}
	return rows
}
