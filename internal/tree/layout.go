package tree

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/alexanderramin/okrview/internal/domain"
)

// LayoutOptions sizes node boxes and the gaps between them.
type LayoutOptions struct {
	Direction  domain.Direction
	NodeWidth  float64
	NodeHeight float64
	// RankSep is the gap between consecutive ranks along the primary axis.
	RankSep float64
	// NodeSep is the gap between neighbours inside one rank.
	NodeSep float64
}

func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		Direction:  domain.DirectionLR,
		NodeWidth:  240,
		NodeHeight: 80,
		RankSep:    80,
		NodeSep:    24,
	}
}

// NodePosition is a laid-out node. X and Y are the box centre.
type NodePosition struct {
	Node         FlatNode
	Rank         int
	X, Y         float64
	SourceHandle domain.Handle
	TargetHandle domain.Handle
}

// Positioned is a laid-out subgraph.
type Positioned struct {
	Direction  domain.Direction
	NodeWidth  float64
	NodeHeight float64
	Nodes      []NodePosition
	Edges      []FlatEdge

	index map[string]int
}

func (p Positioned) Position(id string) (NodePosition, bool) {
	i, ok := p.index[id]
	if !ok {
		return NodePosition{}, false
	}
	return p.Nodes[i], true
}

// Rect is an axis-aligned box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

func (r Rect) Center() (float64, float64) {
	return (r.MinX + r.MaxX) / 2, (r.MinY + r.MaxY) / 2
}

// Centers is the bounding box of the node centres. ok is false when there
// are no nodes.
func (p Positioned) Centers() (r Rect, ok bool) {
	if len(p.Nodes) == 0 {
		return Rect{}, false
	}
	r = Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, n := range p.Nodes {
		r.MinX = math.Min(r.MinX, n.X)
		r.MinY = math.Min(r.MinY, n.Y)
		r.MaxX = math.Max(r.MaxX, n.X)
		r.MaxY = math.Max(r.MaxY, n.Y)
	}
	return r, true
}

// Extent is the bounding box of the node boxes.
func (p Positioned) Extent() (Rect, bool) {
	r, ok := p.Centers()
	if !ok {
		return r, false
	}
	hw, hh := p.NodeWidth/2, p.NodeHeight/2
	return Rect{MinX: r.MinX - hw, MinY: r.MinY - hh, MaxX: r.MaxX + hw, MaxY: r.MaxY + hh}, true
}

// Layout places the visible subgraph in ranks along the primary axis (x for
// LR, y for TB) and centres each parent over its children on the cross axis.
// Leaves take consecutive slots, so boxes in one rank never overlap. The
// result is recentred on the origin.
func Layout(g *Graph, sub Subgraph, opts LayoutOptions) Positioned {
	if opts.Direction == "" {
		opts.Direction = domain.DirectionLR
	}
	out := Positioned{
		Direction:  opts.Direction,
		NodeWidth:  opts.NodeWidth,
		NodeHeight: opts.NodeHeight,
		Edges:      append([]FlatEdge(nil), sub.Edges...),
		index:      make(map[string]int, len(sub.Nodes)),
	}
	if g == nil || len(sub.Nodes) == 0 {
		return out
	}

	ranks := assignRanks(g, sub)
	slots := assignSlots(g, sub)

	rankStep, crossStep := opts.NodeWidth+opts.RankSep, opts.NodeHeight+opts.NodeSep
	if opts.Direction == domain.DirectionTB {
		rankStep, crossStep = opts.NodeHeight+opts.RankSep, opts.NodeWidth+opts.NodeSep
	}
	srcHandle, dstHandle := opts.Direction.Handles()

	for _, n := range sub.Nodes {
		primary := float64(ranks[n.ID]) * rankStep
		cross := slots[n.ID] * crossStep
		pos := NodePosition{
			Node:         n,
			Rank:         ranks[n.ID],
			SourceHandle: srcHandle,
			TargetHandle: dstHandle,
		}
		if opts.Direction == domain.DirectionTB {
			pos.X, pos.Y = cross, primary
		} else {
			pos.X, pos.Y = primary, cross
		}
		out.index[n.ID] = len(out.Nodes)
		out.Nodes = append(out.Nodes, pos)
	}
	return Recenter(out)
}

// assignRanks walks the visible edges breadth-first from each root; the
// walk depth is the rank.
func assignRanks(g *Graph, sub Subgraph) map[string]int {
	visibleEdges := make(map[string]struct{}, len(sub.Edges))
	for _, e := range sub.Edges {
		visibleEdges[e.ID()] = struct{}{}
	}
	dg, ids := g.directed(func(e FlatEdge) bool {
		_, ok := visibleEdges[e.ID()]
		return ok
	})
	byGonumID := make(map[int64]string, len(ids))
	for id, gid := range ids {
		byGonumID[gid] = id
	}

	ranks := make(map[string]int, len(sub.Nodes))
	var bf traverse.BreadthFirst
	for _, root := range g.Roots() {
		if !sub.Contains(root) {
			continue
		}
		bf.Walk(dg, dg.Node(ids[root]), func(n graph.Node, depth int) bool {
			ranks[byGonumID[n.ID()]] = depth
			return false
		})
	}
	return ranks
}

// assignSlots gives every visible node a position on the cross axis in units
// of one slot. Leaves of the visible forest fill slots left to right in child
// order; a parent sits midway between its first and last visible child.
func assignSlots(g *Graph, sub Subgraph) map[string]float64 {
	slots := make(map[string]float64, len(sub.Nodes))
	expandedChildren := make(map[string][]string)
	for _, e := range sub.Edges {
		expandedChildren[e.Source] = append(expandedChildren[e.Source], e.Target)
	}

	next := 0.0
	var place func(id string) float64
	place = func(id string) float64 {
		kids := expandedChildren[id]
		if len(kids) == 0 {
			slots[id] = next
			next++
			return slots[id]
		}
		first := place(kids[0])
		last := first
		for _, k := range kids[1:] {
			last = place(k)
		}
		slots[id] = (first + last) / 2
		return slots[id]
	}
	for _, root := range g.Roots() {
		if sub.Contains(root) {
			place(root)
		}
	}
	return slots
}

// Recenter translates every node so the bounding box of the node centres is
// centred on the origin.
func Recenter(p Positioned) Positioned {
	r, ok := p.Centers()
	if !ok {
		return p
	}
	cx, cy := r.Center()
	nodes := make([]NodePosition, len(p.Nodes))
	for i, n := range p.Nodes {
		n.X -= cx
		n.Y -= cy
		nodes[i] = n
	}
	p.Nodes = nodes
	return p
}
