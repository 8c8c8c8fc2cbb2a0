package render

import (
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/alexanderramin/okrview/internal/tree"
)

// basicfont glyphs are 7 pixels wide.
const glyphW = 7

// WritePNG rasterises p as a PNG image. Text uses a fixed 7x13 bitmap face,
// so labels do not scale with the fitted zoom.
func WritePNG(w io.Writer, p tree.Positioned, opts ExportOptions) error {
	f := newFrame(p, opts)
	dc := gg.NewContext(f.w, f.h)
	dc.SetHexColor(colorBackground)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	if len(p.Nodes) == 0 {
		dc.SetHexColor(colorDim)
		dc.DrawStringAnchored(emptyMessage, float64(f.w)/2, float64(f.h)/2, 0.5, 0.5)
		return dc.EncodePNG(w)
	}

	zoom := f.vp.Zoom
	dc.SetLineWidth(max(1, 2*zoom))
	for _, e := range p.Edges {
		xs, ys, ok := f.route(e)
		if !ok {
			continue
		}
		dc.SetHexColor(colorDim)
		dc.MoveTo(xs[0], ys[0])
		for i := 1; i < len(xs); i++ {
			dc.LineTo(xs[i], ys[i])
		}
		dc.Stroke()
		ax, ay := arrowHead(xs, ys, 10*zoom)
		dc.MoveTo(ax[0], ay[0])
		dc.LineTo(ax[1], ay[1])
		dc.LineTo(ax[2], ay[2])
		dc.ClosePath()
		dc.Fill()
	}

	for _, n := range p.Nodes {
		x, y, bw, bh := f.nodeRect(n)
		pct := 0.0
		if n.Node.Payload != nil {
			pct = n.Node.Payload.ClampedProgress()
		}
		dc.DrawRoundedRectangle(x, y, bw, bh, 8*zoom)
		dc.SetHexColor(colorPanel)
		dc.FillPreserve()
		dc.SetHexColor(kindColor(n.Node.Kind))
		dc.Stroke()

		pad := 12 * zoom
		chars := int((bw - 2*pad) / glyphW)
		dc.SetHexColor(colorFg)
		dc.DrawStringAnchored(truncate(Label(n.Node), chars), x+pad, y+pad, 0, 1)

		barY, barW, barH := y+bh/2, bw-2*pad, max(1, 6*zoom)
		dc.SetHexColor(colorBackground)
		dc.DrawRectangle(x+pad, barY, barW, barH)
		dc.Fill()
		if pct > 0 {
			dc.SetHexColor(progressColor(pct))
			dc.DrawRectangle(x+pad, barY, barW*pct/100, barH)
			dc.Fill()
		}

		dc.SetHexColor(colorDim)
		dc.DrawStringAnchored(truncate(Detail(n.Node), chars), x+pad, y+bh-pad, 0, 0)
	}
	return dc.EncodePNG(w)
}
