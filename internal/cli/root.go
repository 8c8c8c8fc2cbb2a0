package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/okrview/internal/config"
	"github.com/alexanderramin/okrview/internal/service"
)

// App holds what CLI commands and TUI views need.
type App struct {
	OKR    service.OKRService
	Config config.Config

	// IsInteractive reports whether stdin is a terminal. Prompts and the
	// TUI are only used when it returns true; nil means non-interactive.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "okrview" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "okrview",
		Short: "Browse OKR trees from the terminal",
		Long: `okrview fetches company objectives and their key results from the OKR
server and shows them as an expandable tree. Run it without a command in a
terminal to browse interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			return runTUI(app, tuiStart{})
		},
	}

	root.AddCommand(
		newCyclesCmd(app),
		newObjectivesCmd(app),
		newTreeCmd(app),
		newBrowseCmd(app),
		newExportCmd(app),
		newCacheCmd(app),
	)

	return root
}
