package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/tree"
)

// A terminal cell covers CellW by CellH layout units at zoom 1.
const (
	CellW = 8
	CellH = 16
)

// Class tags a canvas cell so the caller can colour it.
type Class uint8

const (
	ClassNone Class = iota
	ClassEdge
	ClassBox
	ClassSelected
	ClassObjective
	ClassKeyResult
	ClassDim
	ClassProgressHigh
	ClassProgressMid
	ClassProgressLow
)

type cell struct {
	r     rune
	class Class
}

// Canvas is a fixed-size grid of runes.
type Canvas struct {
	cols, rows int
	cells      []cell
}

func NewCanvas(cols, rows int) *Canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c := &Canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *Canvas) Size() (int, int) { return c.cols, c.rows }

// Set writes r at (x, y). Writes outside the grid are dropped.
func (c *Canvas) Set(x, y int, r rune, class Class) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y*c.cols+x] = cell{r: r, class: class}
}

func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return 0
	}
	return c.cells[y*c.cols+x].r
}

// Text writes s left to right from (x, y).
func (c *Canvas) Text(x, y int, s string, class Class) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r, class)
	}
}

// Plain returns the grid as lines with trailing spaces trimmed.
func (c *Canvas) Plain() string {
	return c.Render(nil)
}

// Render returns the grid as lines, passing each run of same-class cells to
// style. A nil style leaves the text unstyled.
func (c *Canvas) Render(style func(Class, string) string) string {
	lines := make([]string, c.rows)
	for y := 0; y < c.rows; y++ {
		row := c.cells[y*c.cols : (y+1)*c.cols]
		end := len(row)
		for end > 0 && row[end-1].r == ' ' {
			end--
		}
		var b strings.Builder
		start := 0
		for start < end {
			stop := start
			for stop < end && row[stop].class == row[start].class {
				stop++
			}
			run := make([]rune, 0, stop-start)
			for _, cl := range row[start:stop] {
				run = append(run, cl.r)
			}
			if style != nil && row[start].class != ClassNone {
				b.WriteString(style(row[start].class, string(run)))
			} else {
				b.WriteString(string(run))
			}
			start = stop
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// CanvasOptions controls how a layout is drawn onto a canvas.
type CanvasOptions struct {
	Selected string
	// Expanded reports whether a node's children are shown. Nil treats every
	// node as collapsed.
	Expanded func(id string) bool
}

type box struct {
	left, top, w, h int
}

func (b box) right() int  { return b.left + b.w - 1 }
func (b box) bottom() int { return b.top + b.h - 1 }
func (b box) midX() int   { return b.left + b.w/2 }
func (b box) midY() int   { return b.top + b.h/2 }

// DrawGraph draws every edge and then every node of p as seen through vp.
func (c *Canvas) DrawGraph(p tree.Positioned, vp tree.Viewport, opts CanvasOptions) {
	viewW, viewH := float64(c.cols*CellW), float64(c.rows*CellH)
	zoom := vp.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	w := max(8, int(math.Round(p.NodeWidth*zoom/CellW)))
	h := max(3, int(math.Round(p.NodeHeight*zoom/CellH)))

	boxes := make(map[string]box, len(p.Nodes))
	for _, n := range p.Nodes {
		sx, sy := vp.ToScreen(n.X, n.Y, viewW, viewH)
		cx, cy := int(math.Round(sx/CellW)), int(math.Round(sy/CellH))
		boxes[n.Node.ID] = box{left: cx - w/2, top: cy - h/2, w: w, h: h}
	}
	for _, e := range p.Edges {
		src, ok1 := boxes[e.Source]
		dst, ok2 := boxes[e.Target]
		if ok1 && ok2 {
			c.drawEdge(src, dst, p.Direction)
		}
	}
	for _, n := range p.Nodes {
		expanded := opts.Expanded != nil && opts.Expanded(n.Node.ID)
		c.drawNode(boxes[n.Node.ID], n.Node, n.Node.ID == opts.Selected, expanded)
	}
}

func (c *Canvas) drawEdge(src, dst box, dir domain.Direction) {
	var pts [][2]int
	var head rune
	if dir == domain.DirectionTB {
		a := [2]int{src.midX(), src.bottom() + 1}
		b := [2]int{dst.midX(), dst.top - 1}
		mid := (a[1] + b[1]) / 2
		pts = [][2]int{a, {a[0], mid}, {b[0], mid}, b}
		head = '▼'
	} else {
		a := [2]int{src.right() + 1, src.midY()}
		b := [2]int{dst.left - 1, dst.midY()}
		mid := (a[0] + b[0]) / 2
		pts = [][2]int{a, {mid, a[1]}, {mid, b[1]}, b}
		head = '▶'
	}
	for i := 0; i+1 < len(pts); i++ {
		c.segment(pts[i], pts[i+1])
	}
	for i := 1; i+1 < len(pts); i++ {
		if r, ok := corner(pts[i-1], pts[i], pts[i+1]); ok {
			c.Set(pts[i][0], pts[i][1], r, ClassEdge)
		}
	}
	last := pts[len(pts)-1]
	c.Set(last[0], last[1], head, ClassEdge)
}

func (c *Canvas) segment(a, b [2]int) {
	if a[1] == b[1] {
		for x := min(a[0], b[0]); x <= max(a[0], b[0]); x++ {
			c.Set(x, a[1], '─', ClassEdge)
		}
		return
	}
	for y := min(a[1], b[1]); y <= max(a[1], b[1]); y++ {
		c.Set(a[0], y, '│', ClassEdge)
	}
}

// corner picks the box-drawing rune joining the segment prev→at with at→next.
// ok is false when the two segments are collinear or degenerate.
func corner(prev, at, next [2]int) (rune, bool) {
	in := [2]int{sign(at[0] - prev[0]), sign(at[1] - prev[1])}
	out := [2]int{sign(next[0] - at[0]), sign(next[1] - at[1])}
	if in == out || in == [2]int{} || out == [2]int{} {
		return 0, false
	}
	// The corner connects the side we came from and the side we leave by.
	up := in[1] > 0 || out[1] < 0
	down := in[1] < 0 || out[1] > 0
	left := in[0] > 0 || out[0] < 0
	right := in[0] < 0 || out[0] > 0
	switch {
	case down && right:
		return '┌', true
	case down && left:
		return '┐', true
	case up && right:
		return '└', true
	case up && left:
		return '┘', true
	}
	return 0, false
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (c *Canvas) drawNode(b box, n tree.FlatNode, selected, expanded bool) {
	frame := []rune("┌┐└┘─│")
	class := ClassBox
	if selected {
		frame = []rune("╔╗╚╝═║")
		class = ClassSelected
	}
	for x := b.left; x <= b.right(); x++ {
		c.Set(x, b.top, frame[4], class)
		c.Set(x, b.bottom(), frame[4], class)
	}
	for y := b.top; y <= b.bottom(); y++ {
		c.Set(b.left, y, frame[5], class)
		c.Set(b.right(), y, frame[5], class)
		if y != b.top && y != b.bottom() {
			for x := b.left + 1; x < b.right(); x++ {
				c.Set(x, y, ' ', ClassNone)
			}
		}
	}
	c.Set(b.left, b.top, frame[0], class)
	c.Set(b.right(), b.top, frame[1], class)
	c.Set(b.left, b.bottom(), frame[2], class)
	c.Set(b.right(), b.bottom(), frame[3], class)

	inner := b.w - 2
	pct := 0.0
	if n.Payload != nil {
		pct = n.Payload.ClampedProgress()
	}
	title := Marker(n.HasChildren, expanded) + Label(n)
	kindClass := ClassKeyResult
	if n.Kind == domain.KindObjective {
		kindClass = ClassObjective
	}

	rows := b.h - 2
	c.Text(b.left+1, b.top+1, truncate(title, inner), kindClass)
	if rows == 1 {
		return
	}
	bar, barClass := ProgressBar(pct, inner)
	c.Text(b.left+1, b.top+2, bar, barClass)
	if rows >= 3 {
		c.Text(b.left+1, b.top+3, truncate(Detail(n), inner), ClassDim)
	}
}

// Marker prefixes a node title with its expand state.
func Marker(hasChildren, expanded bool) string {
	switch {
	case !hasChildren:
		return "  "
	case expanded:
		return "▾ "
	default:
		return "▸ "
	}
}

// ProgressBar renders pct as a bar plus percentage in exactly width runes.
func ProgressBar(pct float64, width int) (string, Class) {
	class := ClassProgressLow
	switch {
	case pct >= 70:
		class = ClassProgressHigh
	case pct >= 40:
		class = ClassProgressMid
	}
	label := strings.Repeat(" ", max(0, 5-len(percent(pct)))) + percent(pct)
	barW := width - len(label)
	if barW < 1 {
		return truncate(strings.TrimSpace(label), width), class
	}
	filled := int(math.Round(pct / 100 * float64(barW)))
	return strings.Repeat("█", filled) + strings.Repeat("░", barW-filled) + label, class
}

func percent(pct float64) string {
	return fmt.Sprintf("%.0f%%", pct)
}
