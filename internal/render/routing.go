// Package render draws a laid-out OKR tree as terminal text, SVG or PNG.
package render

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/tree"
)

// Point is a position in layout space.
type Point struct {
	X, Y float64
}

// anchor returns the point on a node box where an edge attaches.
func anchor(p tree.Positioned, n tree.NodePosition, h domain.Handle) Point {
	hw, hh := p.NodeWidth/2, p.NodeHeight/2
	switch h {
	case domain.HandleLeft:
		return Point{n.X - hw, n.Y}
	case domain.HandleRight:
		return Point{n.X + hw, n.Y}
	case domain.HandleTop:
		return Point{n.X, n.Y - hh}
	default:
		return Point{n.X, n.Y + hh}
	}
}

// EdgeRoute returns an orthogonal polyline from the source handle to the
// target handle, bending halfway between the two ranks. ok is false when
// either endpoint is not laid out.
func EdgeRoute(p tree.Positioned, e tree.FlatEdge) (pts []Point, ok bool) {
	src, ok1 := p.Position(e.Source)
	dst, ok2 := p.Position(e.Target)
	if !ok1 || !ok2 {
		return nil, false
	}
	a := anchor(p, src, src.SourceHandle)
	b := anchor(p, dst, dst.TargetHandle)
	if p.Direction == domain.DirectionTB {
		mid := (a.Y + b.Y) / 2
		return []Point{a, {a.X, mid}, {b.X, mid}, b}, true
	}
	mid := (a.X + b.X) / 2
	return []Point{a, {mid, a.Y}, {mid, b.Y}, b}, true
}

// Label is the text shown inside a node box.
func Label(n tree.FlatNode) string {
	if n.Payload == nil {
		return n.ID
	}
	return n.Payload.Title
}

// Detail is the second line of a node box: progress, measure and owner.
func Detail(n tree.FlatNode) string {
	t := n.Payload
	if t == nil {
		return ""
	}
	parts := []string{percent(t.ClampedProgress())}
	if t.Kind == domain.KindKeyResult && t.TargetValue != 0 {
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("%g/%g %s", t.CurrentValue, t.TargetValue, t.Unit)))
	}
	if name := t.DepartmentName(); name != "" {
		parts = append(parts, name)
	} else if owner := t.OwnerName(); owner != "" {
		parts = append(parts, owner)
	}
	return strings.Join(parts, " · ")
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
