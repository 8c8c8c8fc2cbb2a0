package tree

import "math"

// FitOptions bounds the zoom chosen by Fit. Padding is a fraction of the
// layout extent added on every side.
type FitOptions struct {
	Padding float64
	MinZoom float64
	MaxZoom float64
}

func DefaultFitOptions() FitOptions {
	return FitOptions{Padding: 0.1, MinZoom: 0.1, MaxZoom: 2}
}

// Viewport is a camera over layout space: the layout point at (CenterX,
// CenterY) maps to the middle of the screen and one layout unit spans Zoom
// screen units.
type Viewport struct {
	CenterX float64
	CenterY float64
	Zoom    float64
}

// IdentityViewport looks at the origin at zoom 1.
func IdentityViewport() Viewport { return Viewport{Zoom: 1} }

// Fit centres the camera on the layout extent and picks the largest zoom
// that still shows every node box plus padding, clamped to the options.
func Fit(p Positioned, viewW, viewH float64, opts FitOptions) Viewport {
	ext, ok := p.Extent()
	if !ok {
		return IdentityViewport()
	}
	cx, cy := ext.Center()
	zoom := 1.0
	w := ext.Width() * (1 + 2*opts.Padding)
	h := ext.Height() * (1 + 2*opts.Padding)
	if viewW > 0 && viewH > 0 && w > 0 && h > 0 {
		zoom = math.Min(viewW/w, viewH/h)
	}
	return Viewport{CenterX: cx, CenterY: cy, Zoom: clamp(zoom, opts.MinZoom, opts.MaxZoom)}
}

// ToScreen maps a layout point onto a screen of the given size.
func (v Viewport) ToScreen(x, y, viewW, viewH float64) (float64, float64) {
	return (x-v.CenterX)*v.Zoom + viewW/2, (y-v.CenterY)*v.Zoom + viewH/2
}

func clamp(v, lo, hi float64) float64 {
	if lo > 0 && v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}
