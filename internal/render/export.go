package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/okrview/internal/tree"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Format is an image export format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg" or "png" in any case, with or without a
// leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: %q (want svg or png)", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ExportOptions sizes the exported image. A zero Width or Height draws the
// layout at zoom 1 with a fixed margin; otherwise the layout is fitted into
// Width by Height.
type ExportOptions struct {
	Width  int
	Height int
	Title  string
	Fit    tree.FitOptions
}

const (
	exportMargin = 40
	emptyWidth   = 360
	emptyHeight  = 120
	emptyMessage = "No OKR data for this objective"
)

// frame maps layout space onto an image of fixed pixel size.
type frame struct {
	w, h int
	vp   tree.Viewport
	p    tree.Positioned
}

func newFrame(p tree.Positioned, opts ExportOptions) frame {
	ext, ok := p.Extent()
	if !ok {
		w, h := opts.Width, opts.Height
		if w <= 0 || h <= 0 {
			w, h = emptyWidth, emptyHeight
		}
		return frame{w: w, h: h, vp: tree.IdentityViewport(), p: p}
	}
	if opts.Width > 0 && opts.Height > 0 {
		fit := opts.Fit
		if fit == (tree.FitOptions{}) {
			fit = tree.DefaultFitOptions()
		}
		return frame{w: opts.Width, h: opts.Height, vp: tree.Fit(p, float64(opts.Width), float64(opts.Height), fit), p: p}
	}
	cx, cy := ext.Center()
	return frame{
		w:  int(math.Ceil(ext.Width())) + 2*exportMargin,
		h:  int(math.Ceil(ext.Height())) + 2*exportMargin,
		vp: tree.Viewport{CenterX: cx, CenterY: cy, Zoom: 1},
		p:  p,
	}
}

func (f frame) screen(pt Point) (float64, float64) {
	return f.vp.ToScreen(pt.X, pt.Y, float64(f.w), float64(f.h))
}

// nodeRect returns the top-left corner and size of a node box in pixels.
func (f frame) nodeRect(n tree.NodePosition) (x, y, w, h float64) {
	w, h = f.p.NodeWidth*f.vp.Zoom, f.p.NodeHeight*f.vp.Zoom
	x, y = f.screen(Point{n.X - f.p.NodeWidth/2, n.Y - f.p.NodeHeight/2})
	return x, y, w, h
}

// route returns the screen polyline of an edge.
func (f frame) route(e tree.FlatEdge) (xs, ys []float64, ok bool) {
	pts, ok := EdgeRoute(f.p, e)
	if !ok {
		return nil, nil, false
	}
	for _, pt := range pts {
		x, y := f.screen(pt)
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys, true
}

// arrowHead returns the triangle at the end of a polyline.
func arrowHead(xs, ys []float64, size float64) (ax, ay []float64) {
	n := len(xs)
	tx, ty := xs[n-1], ys[n-1]
	dx, dy := tx-xs[n-2], ty-ys[n-2]
	l := math.Hypot(dx, dy)
	if l == 0 {
		dx, dy, l = 1, 0, 1
	}
	ux, uy := dx/l, dy/l
	bx, by := tx-ux*size, ty-uy*size
	px, py := -uy*size/2, ux*size/2
	return []float64{tx, bx + px, bx - px}, []float64{ty, by + py, by - py}
}

// Export writes p to w in the given format.
func Export(w io.Writer, p tree.Positioned, format Format, opts ExportOptions) error {
	switch format {
	case FormatSVG:
		return WriteSVG(w, p, opts)
	case FormatPNG:
		return WritePNG(w, p, opts)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ExportFile writes p to path, creating parent directories as needed.
func ExportFile(path string, p tree.Positioned, format Format, opts ExportOptions) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return Export(f, p, format, opts)
}
