package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/okrview/internal/cli/formatter"
	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/render"
	"github.com/alexanderramin/okrview/internal/tree"
)

const noTreeMessage = "No OKR data for this objective."

func newTreeCmd(app *App) *cobra.Command {
	var (
		flags treeFlags
		graph bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the objective tree",
		Long: `Print one company objective with its key results as an indented tree.
Only the root and its direct children are shown unless --expand or
--expand-all open deeper levels. --graph draws the laid-out boxes instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := treeSourceFor(ctx, app, &flags)
			if err != nil {
				return err
			}
			root, err := src.LoadTree(ctx)
			if err != nil {
				return err
			}
			g, err := tree.FromTree(root)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Describe(), err)
			}

			out := cmd.OutOrStdout()
			if g.Len() == 0 {
				fmt.Fprintln(out, formatter.Dim(noTreeMessage))
				return nil
			}
			expanded := expansionFor(g, &flags)
			sub := tree.Visible(g, expanded)

			fmt.Fprintln(out, formatter.Header(root.Title))
			if graph {
				opts := tree.DefaultLayoutOptions()
				opts.Direction = flags.direction
				writeGraph(out, tree.Layout(g, sub, opts), expanded, width)
			} else {
				items := formatter.OutlineItems(tree.Outline(g, sub, expanded))
				fmt.Fprint(out, formatter.RenderTree(items))
			}
			fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("%d of %d nodes shown · %s", sub.Len(), g.Len(), src.Describe())))
			return nil
		},
	}
	flags.register(cmd.Flags(), app.Config.View.Direction)
	cmd.Flags().BoolVar(&graph, "graph", false, "draw boxes and edges instead of an outline")
	cmd.Flags().IntVar(&width, "width", 160, "maximum width in columns for --graph")
	return cmd
}

// writeGraph draws p at zoom 1, shrinking it to fit maxCols.
func writeGraph(w io.Writer, p tree.Positioned, expanded tree.ExpansionSet, maxCols int) {
	ext, ok := p.Extent()
	if !ok {
		return
	}
	zoom := 1.0
	if natural := ext.Width()/render.CellW + 2; maxCols > 0 && natural > float64(maxCols) {
		zoom = float64(maxCols) / natural
	}
	cols := int(math.Ceil(ext.Width()*zoom/render.CellW)) + 2
	rows := int(math.Ceil(ext.Height()*zoom/render.CellH)) + 2
	if p.Direction == domain.DirectionTB {
		rows += 2
	}

	cx, cy := ext.Center()
	c := render.NewCanvas(cols, rows)
	c.DrawGraph(p, tree.Viewport{CenterX: cx, CenterY: cy, Zoom: zoom}, render.CanvasOptions{Expanded: expanded.Has})
	fmt.Fprintln(w, strings.TrimRight(c.Render(formatter.CanvasStyle), "\n"))
}
