package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/testutil"
	"github.com/alexanderramin/okrview/internal/tree"
)

func sampleLayout(t *testing.T, dir domain.Direction) (tree.Positioned, tree.ExpansionSet) {
	t.Helper()
	g, err := tree.FromTree(testutil.SampleTree())
	require.NoError(t, err)
	expanded := tree.ExpandAll(g)
	opts := tree.DefaultLayoutOptions()
	opts.Direction = dir
	return tree.Layout(g, tree.Visible(g, expanded), opts), expanded
}

func TestEdgeRoute_LeavesSourceAndEntersTarget(t *testing.T) {
	p, _ := sampleLayout(t, domain.DirectionLR)
	src, _ := p.Position("obj-1")
	dst, _ := p.Position("kr-1")

	pts, ok := EdgeRoute(p, tree.FlatEdge{Source: "obj-1", Target: "kr-1"})
	require.True(t, ok)
	require.Len(t, pts, 4)
	assert.Equal(t, Point{src.X + p.NodeWidth/2, src.Y}, pts[0])
	assert.Equal(t, Point{dst.X - p.NodeWidth/2, dst.Y}, pts[3])
	assert.Equal(t, pts[1].X, pts[2].X, "bend is vertical")

	p, _ = sampleLayout(t, domain.DirectionTB)
	pts, ok = EdgeRoute(p, tree.FlatEdge{Source: "obj-1", Target: "kr-1"})
	require.True(t, ok)
	assert.Equal(t, pts[1].Y, pts[2].Y, "bend is horizontal")

	_, ok = EdgeRoute(p, tree.FlatEdge{Source: "obj-1", Target: "kr-99"})
	assert.False(t, ok)
}

func TestDetail(t *testing.T) {
	kr := tree.FlatNode{ID: "kr-1", Kind: domain.KindKeyResult, Payload: testutil.NewKeyResult(1, "Revenue",
		testutil.WithProgress(42.4), testutil.WithMeasure(4, 10, "k€"), testutil.WithOwner("Ana"))}
	assert.Equal(t, "42% · 4/10 k€ · Ana", Detail(kr))

	obj := tree.FlatNode{ID: "obj-1", Kind: domain.KindObjective, Payload: testutil.NewObjective(1, "Grow",
		testutil.WithProgress(130), testutil.WithDepartment("Sales"))}
	assert.Equal(t, "100% · Sales", Detail(obj))

	assert.Equal(t, "", Detail(tree.FlatNode{ID: "x"}))
	assert.Equal(t, "x", Label(tree.FlatNode{ID: "x"}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "…", truncate("hello", 1))
	assert.Equal(t, "", truncate("hello", 0))
}

func TestProgressBar(t *testing.T) {
	bar, class := ProgressBar(50, 15)
	assert.Equal(t, "█████░░░░░  50%", bar)
	assert.Equal(t, ClassProgressMid, class)

	bar, class = ProgressBar(100, 15)
	assert.Equal(t, "██████████ 100%", bar)
	assert.Equal(t, ClassProgressHigh, class)

	_, class = ProgressBar(10, 15)
	assert.Equal(t, ClassProgressLow, class)

	bar, _ = ProgressBar(5, 3)
	assert.Equal(t, "5%", bar)
}

func TestCorner(t *testing.T) {
	cases := []struct {
		prev, at, next [2]int
		want           rune
	}{
		{[2]int{0, 0}, [2]int{5, 0}, [2]int{5, 3}, '┐'},
		{[2]int{5, 0}, [2]int{5, 3}, [2]int{9, 3}, '└'},
		{[2]int{0, 5}, [2]int{5, 5}, [2]int{5, 1}, '┘'},
		{[2]int{5, 5}, [2]int{5, 1}, [2]int{9, 1}, '┌'},
	}
	for _, tc := range cases {
		got, ok := corner(tc.prev, tc.at, tc.next)
		require.True(t, ok)
		assert.Equal(t, string(tc.want), string(got), "%v→%v→%v", tc.prev, tc.at, tc.next)
	}
	_, ok := corner([2]int{0, 0}, [2]int{3, 0}, [2]int{6, 0})
	assert.False(t, ok)
}

func TestCanvas_DrawGraph(t *testing.T) {
	for _, dir := range []domain.Direction{domain.DirectionLR, domain.DirectionTB} {
		t.Run(string(dir), func(t *testing.T) {
			p, expanded := sampleLayout(t, dir)
			c := NewCanvas(160, 40)
			cols, rows := c.Size()
			vp := tree.Fit(p, float64(cols*CellW), float64(rows*CellH), tree.DefaultFitOptions())
			c.DrawGraph(p, vp, CanvasOptions{Selected: "kr-2", Expanded: expanded.Has})

			out := c.Plain()
			assert.Contains(t, out, "▾ Grow the business")
			assert.Contains(t, out, "Reach 100 customers")
			assert.Contains(t, out, "Sign 10 enterprise deals")
			assert.Contains(t, out, "╔", "selected node uses a double frame")
			assert.Equal(t, 1, strings.Count(out, "╔"))
			if dir == domain.DirectionLR {
				assert.Equal(t, 3, strings.Count(out, "▶"))
			} else {
				assert.Equal(t, 3, strings.Count(out, "▼"))
			}
		})
	}
}

func TestCanvas_ClipsOutsideWrites(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(-1, 0, 'x', ClassNone)
	c.Set(4, 1, 'x', ClassNone)
	c.Text(2, 1, "abcd", ClassDim)
	assert.Equal(t, "\n  ab", c.Plain())
	assert.Equal(t, rune(0), c.At(9, 9))

	styled := c.Render(func(_ Class, s string) string { return "[" + s + "]" })
	assert.Equal(t, "\n  [ab]", styled)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("SVG")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)

	f, err = FormatFromPath("out/tree.png")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteSVG(t *testing.T) {
	p, _ := sampleLayout(t, domain.DirectionLR)
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, p, ExportOptions{Title: "Q1 <2026>"}))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "Grow the business")
	assert.Contains(t, out, "Q1 &lt;2026&gt;")
	assert.Equal(t, 3, strings.Count(out, "<polyline"))
	assert.Equal(t, 4, strings.Count(out, "rx="), "one rounded box per node")
}

func TestWriteSVG_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, tree.Positioned{}, ExportOptions{}))
	assert.Contains(t, buf.String(), emptyMessage)
}

func TestWritePNG(t *testing.T) {
	p, _ := sampleLayout(t, domain.DirectionTB)
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, p, ExportOptions{Width: 800, Height: 600}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestWritePNG_NaturalSize(t *testing.T) {
	p, _ := sampleLayout(t, domain.DirectionLR)
	ext, ok := p.Extent()
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, p, ExportOptions{}))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, int(ext.Width())+2*exportMargin, img.Bounds().Dx())
}

func TestExportFile(t *testing.T) {
	p, _ := sampleLayout(t, domain.DirectionLR)
	path := filepath.Join(t.TempDir(), "nested", "tree.svg")
	require.NoError(t, ExportFile(path, p, FormatSVG, ExportOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "</svg>")

	assert.ErrorIs(t, Export(&bytes.Buffer{}, p, Format("gif"), ExportOptions{}), ErrUnknownFormat)
}
