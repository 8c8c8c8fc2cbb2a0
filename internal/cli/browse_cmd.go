package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(app *App) *cobra.Command {
	var start tuiStart

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse cycles, objectives and OKR trees interactively",
		Long: `Open the full-screen browser. With --cycle it starts at that cycle's
objectives, with --objective as well it opens the tree directly. With --file
it shows a tree from a JSON file and reloads it whenever the file changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("browse needs a terminal; use 'okrview tree' for plain output")
			}
			if start.objectiveID != 0 && start.cycleID == 0 && start.file == "" {
				return errors.New("--objective needs --cycle")
			}
			if start.cached && start.objectiveID == 0 {
				return errors.New("--cached needs --cycle and --objective")
			}
			return runTUI(app, start)
		},
	}

	cmd.Flags().Int64Var(&start.cycleID, "cycle", 0, "start at this cycle")
	cmd.Flags().Int64Var(&start.objectiveID, "objective", 0, "open this objective's tree")
	cmd.Flags().StringVar(&start.file, "file", "", "show a tree from a JSON file and watch it")
	cmd.Flags().BoolVar(&start.cached, "cached", false, "load the tree from the snapshot cache")
	cmd.MarkFlagsMutuallyExclusive("file", "cycle")
	cmd.MarkFlagsMutuallyExclusive("file", "cached")

	return cmd
}

// runTUI runs the full-screen browser until the user quits.
func runTUI(app *App, start tuiStart) error {
	m := newAppModel(app, start)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(appModel); ok {
		fm.closeAll()
	} else {
		m.closeAll()
	}
	if err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
