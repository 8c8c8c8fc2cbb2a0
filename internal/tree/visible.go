package tree

// Subgraph is the part of a Graph currently rendered. Nodes appear in BFS
// order from the roots.
type Subgraph struct {
	Nodes []FlatNode
	Edges []FlatEdge

	index map[string]int
}

func (s Subgraph) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s Subgraph) Len() int { return len(s.Nodes) }

// NodeIDs returns the visible node ids in traversal order.
func (s Subgraph) NodeIDs() []string {
	out := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		out[i] = n.ID
	}
	return out
}

// EdgeIDs returns the visible edge ids in traversal order.
func (s Subgraph) EdgeIDs() []string {
	out := make([]string, len(s.Edges))
	for i, e := range s.Edges {
		out[i] = e.ID()
	}
	return out
}

// Same reports whether both subgraphs hold the same node and edge ids.
func (s Subgraph) Same(o Subgraph) bool {
	if len(s.Nodes) != len(o.Nodes) || len(s.Edges) != len(o.Edges) {
		return false
	}
	for _, n := range s.Nodes {
		if !o.Contains(n.ID) {
			return false
		}
	}
	edges := make(map[string]struct{}, len(o.Edges))
	for _, e := range o.Edges {
		edges[e.ID()] = struct{}{}
	}
	for _, e := range s.Edges {
		if _, ok := edges[e.ID()]; !ok {
			return false
		}
	}
	return true
}

// Visible runs a breadth-first walk from every root. Roots are always
// visible; an expanded visible node makes its outgoing edges and their
// targets visible. Nodes never reached are left out.
func Visible(g *Graph, expanded ExpansionSet) Subgraph {
	sub := Subgraph{index: make(map[string]int)}
	if g == nil {
		return sub
	}

	mark := func(id string) bool {
		if _, seen := sub.index[id]; seen {
			return false
		}
		n, _ := g.Node(id)
		sub.index[id] = len(sub.Nodes)
		sub.Nodes = append(sub.Nodes, n)
		return true
	}

	queue := make([]string, 0, g.Len())
	for _, root := range g.Roots() {
		if mark(root) {
			queue = append(queue, root)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if !expanded.Has(id) {
			continue
		}
		for _, child := range g.Children(id) {
			sub.Edges = append(sub.Edges, FlatEdge{Source: id, Target: child})
			if mark(child) {
				queue = append(queue, child)
			}
		}
	}
	return sub
}
