package tree

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/alexanderramin/okrview/internal/domain"
)

// ErrNotATree is returned when nodes and edges do not describe a forest.
var ErrNotATree = errors.New("okr hierarchy is not a tree")

// Graph is an arena of flat nodes keyed by id with ordered child adjacency.
// Node order is the order nodes were supplied in, which for Flatten output is
// pre-order.
type Graph struct {
	order    []string
	nodes    map[string]FlatNode
	children map[string][]string
	parent   map[string]string
	edges    []FlatEdge
}

// EmptyGraph returns a graph with no nodes.
func EmptyGraph() *Graph {
	return &Graph{
		nodes:    map[string]FlatNode{},
		children: map[string][]string{},
		parent:   map[string]string{},
	}
}

// NewGraph builds the arena and verifies that every node has at most one
// parent, that edges only reference known nodes, and that there are no cycles.
func NewGraph(nodes []FlatNode, edges []FlatEdge) (*Graph, error) {
	g := EmptyGraph()
	for _, n := range nodes {
		if _, dup := g.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node %q", ErrNotATree, n.ID)
		}
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
	}
	for _, e := range edges {
		if e.Source == e.Target {
			return nil, fmt.Errorf("%w: self edge on %q", ErrNotATree, e.Source)
		}
		if _, ok := g.nodes[e.Source]; !ok {
			return nil, fmt.Errorf("%w: edge %s references unknown source", ErrNotATree, e.ID())
		}
		if _, ok := g.nodes[e.Target]; !ok {
			return nil, fmt.Errorf("%w: edge %s references unknown target", ErrNotATree, e.ID())
		}
		if p, taken := g.parent[e.Target]; taken {
			return nil, fmt.Errorf("%w: %q has parents %q and %q", ErrNotATree, e.Target, p, e.Source)
		}
		g.parent[e.Target] = e.Source
		g.children[e.Source] = append(g.children[e.Source], e.Target)
		g.edges = append(g.edges, e)
	}
	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

// FromTree flattens root and builds its graph.
func FromTree(root *domain.TreeNode) (*Graph, error) {
	return NewGraph(Flatten(root))
}

func (g *Graph) checkAcyclic() error {
	dg, _ := g.directed(nil)
	if _, err := topo.Sort(dg); err != nil {
		return fmt.Errorf("%w: %v", ErrNotATree, err)
	}
	return nil
}

// directed mirrors the graph (or the subset accepted by keep) into a gonum
// directed graph. The returned map gives each node's gonum id.
func (g *Graph) directed(keep func(FlatEdge) bool) (*simple.DirectedGraph, map[string]int64) {
	dg := simple.NewDirectedGraph()
	ids := make(map[string]int64, len(g.order))
	for i, id := range g.order {
		ids[id] = int64(i)
		dg.AddNode(simple.Node(i))
	}
	for _, e := range g.edges {
		if keep != nil && !keep(e) {
			continue
		}
		dg.SetEdge(dg.NewEdge(simple.Node(ids[e.Source]), simple.Node(ids[e.Target])))
	}
	return dg, ids
}

func (g *Graph) Len() int { return len(g.order) }

func (g *Graph) Node(id string) (FlatNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in arena order.
func (g *Graph) Nodes() []FlatNode {
	out := make([]FlatNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

func (g *Graph) Edges() []FlatEdge {
	return append([]FlatEdge(nil), g.edges...)
}

// Children returns the ids of id's children in their original order.
func (g *Graph) Children(id string) []string {
	return g.children[id]
}

func (g *Graph) Parent(id string) (string, bool) {
	p, ok := g.parent[id]
	return p, ok
}

// Roots returns the nodes without an incoming edge, in arena order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if _, hasParent := g.parent[id]; !hasParent {
			roots = append(roots, id)
		}
	}
	return roots
}

// Depth is the number of edges between id and its root.
func (g *Graph) Depth(id string) int {
	d := 0
	for {
		p, ok := g.parent[id]
		if !ok {
			return d
		}
		id = p
		d++
	}
}
