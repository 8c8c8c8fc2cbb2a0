package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/okrview/internal/cli/formatter"
	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/service"
	"github.com/alexanderramin/okrview/internal/tree"
)

var errNoChoice = errors.New("nothing to choose from")

// okrHuhTheme matches huh prompts to the formatter palette.
func okrHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// activeCycles returns the cycles whose date range contains now.
func activeCycles(cycles []domain.Cycle, now time.Time) []domain.Cycle {
	var out []domain.Cycle
	for _, c := range cycles {
		if c.Active(now) {
			out = append(out, c)
		}
	}
	return out
}

// resolveCycleID returns id when set. Otherwise it prompts when interactive,
// or falls back to the only active cycle.
func resolveCycleID(ctx context.Context, app *App, id int64) (int64, error) {
	if id != 0 {
		return id, nil
	}
	cycles, err := app.OKR.ListCycles(ctx)
	if err != nil {
		return 0, err
	}
	if len(cycles) == 0 {
		return 0, fmt.Errorf("no cycles on the server: %w", errNoChoice)
	}

	active := activeCycles(cycles, time.Now())
	if !app.interactive() {
		if len(active) == 1 {
			return active[0].ID, nil
		}
		return 0, fmt.Errorf("--cycle is required (%d cycles, %d active)", len(cycles), len(active))
	}

	choice := cycles[0].ID
	if len(active) > 0 {
		choice = active[0].ID
	}
	opts := make([]huh.Option[int64], len(cycles))
	for i, c := range cycles {
		opts[i] = huh.NewOption(fmt.Sprintf("%s  (%s)", c.Name, formatter.CycleWindow(c)), c.ID)
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int64]().Title("Cycle").Options(opts...).Value(&choice),
	)).WithTheme(okrHuhTheme()).WithShowHelp(false)
	if err := form.RunWithContext(ctx); err != nil {
		return 0, err
	}
	return choice, nil
}

// resolveObjectiveID returns id when set. Otherwise it prompts when
// interactive, or picks the cycle's only company objective.
func resolveObjectiveID(ctx context.Context, app *App, cycleID, id int64) (int64, error) {
	if id != 0 {
		return id, nil
	}
	objs, err := app.OKR.ListCompanyObjectives(ctx, cycleID)
	if err != nil {
		return 0, err
	}
	switch {
	case len(objs) == 0:
		return 0, fmt.Errorf("cycle %d has no company objectives: %w", cycleID, errNoChoice)
	case len(objs) == 1:
		return objs[0].ID, nil
	case !app.interactive():
		return 0, fmt.Errorf("--objective is required (cycle %d has %d company objectives)", cycleID, len(objs))
	}

	choice := objs[0].ID
	opts := make([]huh.Option[int64], len(objs))
	for i, o := range objs {
		opts[i] = huh.NewOption(fmt.Sprintf("%s  %3.0f%%", o.Title, o.Progress), o.ID)
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int64]().Title("Company objective").Options(opts...).Value(&choice),
	)).WithTheme(okrHuhTheme()).WithShowHelp(false)
	if err := form.RunWithContext(ctx); err != nil {
		return 0, err
	}
	return choice, nil
}

// treeSourceFor turns tree flags into a source, resolving missing ids.
func treeSourceFor(ctx context.Context, app *App, f *treeFlags) (service.TreeSource, error) {
	if f.file != "" {
		return service.NewFileTreeSource(f.file), nil
	}
	cycleID, err := resolveCycleID(ctx, app, f.cycleID)
	if err != nil {
		return nil, err
	}
	objectiveID, err := resolveObjectiveID(ctx, app, cycleID, f.objectiveID)
	if err != nil {
		return nil, err
	}
	f.cycleID, f.objectiveID = cycleID, objectiveID
	if f.cached {
		return service.NewCachedTreeSource(app.OKR, cycleID, objectiveID), nil
	}
	return service.NewAPITreeSource(app.OKR, cycleID, objectiveID), nil
}

// expansionFor seeds the default expansion and applies --expand and
// --expand-all.
func expansionFor(g *tree.Graph, f *treeFlags) tree.ExpansionSet {
	if f.expandAll {
		return tree.ExpandAll(g)
	}
	return tree.SeedExpansion(g).With(f.expand...)
}
