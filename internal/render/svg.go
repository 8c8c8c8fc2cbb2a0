package render

import (
	"bufio"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/alexanderramin/okrview/internal/tree"
)

func px(v float64) int { return int(math.Round(v)) }

func pxs(vs []float64) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = px(v)
	}
	return out
}

// WriteSVG draws p as an SVG document.
func WriteSVG(w io.Writer, p tree.Positioned, opts ExportOptions) error {
	bw := bufio.NewWriter(w)
	f := newFrame(p, opts)
	canvas := svg.New(bw)
	canvas.Start(f.w, f.h)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	canvas.Rect(0, 0, f.w, f.h, "fill:"+colorBackground)

	if len(p.Nodes) == 0 {
		canvas.Text(f.w/2, f.h/2, emptyMessage,
			fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:14px;text-anchor:middle", colorDim))
		canvas.End()
		return bw.Flush()
	}

	zoom := f.vp.Zoom
	canvas.Gid("edges")
	for _, e := range p.Edges {
		xs, ys, ok := f.route(e)
		if !ok {
			continue
		}
		canvas.Polyline(pxs(xs), pxs(ys),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", colorDim, max(1, px(2*zoom))))
		ax, ay := arrowHead(xs, ys, 10*zoom)
		canvas.Polygon(pxs(ax), pxs(ay), "fill:"+colorDim)
	}
	canvas.Gend()

	fontSize := max(6, px(14*zoom))
	small := max(5, px(11*zoom))
	canvas.Gid("nodes")
	for _, n := range p.Nodes {
		x, y, bwid, bh := f.nodeRect(n)
		pct := 0.0
		if n.Node.Payload != nil {
			pct = n.Node.Payload.ClampedProgress()
		}
		canvas.Roundrect(px(x), px(y), px(bwid), px(bh), px(8*zoom), px(8*zoom),
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", colorPanel, kindColor(n.Node.Kind), max(1, px(2*zoom))))

		pad := 12 * zoom
		chars := int((bwid - 2*pad) / (float64(fontSize) * 0.6))
		canvas.Text(px(x+pad), px(y+pad+float64(fontSize)), truncate(Label(n.Node), chars),
			fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:%dpx;font-weight:bold", colorFg, fontSize))

		barY := y + bh/2
		barW := bwid - 2*pad
		canvas.Rect(px(x+pad), px(barY), px(barW), max(1, px(6*zoom)), "fill:"+colorBackground)
		if filled := px(barW * pct / 100); filled > 0 {
			canvas.Rect(px(x+pad), px(barY), filled, max(1, px(6*zoom)), "fill:"+progressColor(pct))
		}

		smallChars := int((bwid - 2*pad) / (float64(small) * 0.6))
		canvas.Text(px(x+pad), px(y+bh-pad), truncate(Detail(n.Node), smallChars),
			fmt.Sprintf("fill:%s;font-family:sans-serif;font-size:%dpx", colorDim, small))
	}
	canvas.Gend()
	canvas.End()
	return bw.Flush()
}
