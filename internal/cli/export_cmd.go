package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/okrview/internal/cli/formatter"
	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/render"
	"github.com/alexanderramin/okrview/internal/service"
	"github.com/alexanderramin/okrview/internal/tree"
)

// exportParallelism bounds concurrent tree fetches for --all.
const exportParallelism = 4

type exportFlags struct {
	treeFlags
	out    string
	format string
	all    bool
	width  int
	height int
	fit    tree.FitOptions
}

type exportResult struct {
	objectiveID int64
	path        string
	nodes       int
}

func newExportCmd(app *App) *cobra.Command {
	var f exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write objective trees as SVG or PNG images",
		Long: `Export lays out an objective tree and writes it as an image.
With --all every company objective of the cycle is exported into the
--out directory, fetching up to four trees at a time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.out == "" {
				return fmt.Errorf("--out is required")
			}
			format, err := exportFormat(f.format, f.out, f.all)
			if err != nil {
				return err
			}
			f.fit = app.Config.FitOptions()

			stop := func() {}
			progress := func(done, total int) {}
			if app.interactive() && f.all {
				s := formatter.NewSpinner(cmd.ErrOrStderr(), "Exporting…")
				s.Start()
				stop = s.Stop
				progress = func(done, total int) {
					s.SetMessage(fmt.Sprintf("Exporting… %d/%d", done, total))
				}
			} else if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Exporting…")
			}
			var results []exportResult
			if f.all {
				results, err = exportAll(cmd.Context(), app, &f, format, progress)
			} else {
				var res exportResult
				res, err = exportOne(cmd.Context(), app, &f, format)
				results = []exportResult{res}
			}
			stop()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s %s %s\n",
					formatter.StyleGreen.Render("✔"), r.path, formatter.Dim(fmt.Sprintf("(%d nodes)", r.nodes)))
			}
			return nil
		},
	}
	f.register(cmd.Flags(), app.Config.View.Direction)
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file, or directory with --all")
	cmd.Flags().StringVar(&f.format, "format", "", "svg or png (defaults to the --out extension, then svg)")
	cmd.Flags().BoolVar(&f.all, "all", false, "export every company objective of the cycle")
	cmd.Flags().IntVar(&f.width, "width", 0, "image width in pixels (0 = natural size)")
	cmd.Flags().IntVar(&f.height, "height", 0, "image height in pixels (0 = natural size)")
	cmd.MarkFlagsMutuallyExclusive("all", "objective")
	cmd.MarkFlagsMutuallyExclusive("all", "file")
	return cmd
}

// exportFormat picks the format from the flag, then the file extension.
func exportFormat(flag, out string, dir bool) (render.Format, error) {
	if flag != "" {
		return render.ParseFormat(flag)
	}
	if !dir {
		if f, err := render.FormatFromPath(out); err == nil {
			return f, nil
		}
	}
	return render.FormatSVG, nil
}

func exportOne(ctx context.Context, app *App, f *exportFlags, format render.Format) (exportResult, error) {
	src, err := treeSourceFor(ctx, app, &f.treeFlags)
	if err != nil {
		return exportResult{}, err
	}
	n, err := exportSource(ctx, src, f, format, f.out)
	if err != nil {
		return exportResult{}, err
	}
	return exportResult{objectiveID: f.objectiveID, path: f.out, nodes: n}, nil
}

// exportAll reports progress after each finished objective.
func exportAll(ctx context.Context, app *App, f *exportFlags, format render.Format, progress func(done, total int)) ([]exportResult, error) {
	cycleID, err := resolveCycleID(ctx, app, f.cycleID)
	if err != nil {
		return nil, err
	}
	objs, err := app.OKR.ListCompanyObjectives(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	results := make([]exportResult, len(objs))
	var finished atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportParallelism)
	for i, o := range objs {
		g.Go(func() error {
			var src service.TreeSource = service.NewAPITreeSource(app.OKR, cycleID, o.ID)
			if f.cached {
				src = service.NewCachedTreeSource(app.OKR, cycleID, o.ID)
			}
			path := filepath.Join(f.out, exportFileName(o, format))
			n, err := exportSource(gctx, src, f, format, path)
			if err != nil {
				return fmt.Errorf("objective %d: %w", o.ID, err)
			}
			results[i] = exportResult{objectiveID: o.ID, path: path, nodes: n}
			progress(int(finished.Add(1)), len(objs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// exportSource loads, lays out and writes one tree. It returns the number of
// nodes drawn.
func exportSource(ctx context.Context, src service.TreeSource, f *exportFlags, format render.Format, path string) (int, error) {
	root, err := src.LoadTree(ctx)
	if err != nil {
		return 0, err
	}
	g, err := tree.FromTree(root)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", src.Describe(), err)
	}
	expanded := expansionFor(g, &f.treeFlags)
	opts := tree.DefaultLayoutOptions()
	opts.Direction = f.direction
	p := tree.Layout(g, tree.Visible(g, expanded), opts)

	title := src.Describe()
	if root != nil {
		title = root.Title
	}
	err = render.ExportFile(path, p, format, render.ExportOptions{
		Width:  f.width,
		Height: f.height,
		Title:  title,
		Fit:    f.fit,
	})
	return len(p.Nodes), err
}

// exportFileName builds "objective-3-grow-the-business.svg".
func exportFileName(o domain.CompanyObjective, format render.Format) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, o.Title)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	name := fmt.Sprintf("objective-%d", o.ID)
	if slug != "" {
		name += "-" + slug
	}
	return name + "." + string(format)
}
