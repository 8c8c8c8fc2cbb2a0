package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/okrview/internal/cli/formatter"
	"github.com/alexanderramin/okrview/internal/domain"
)

func newCyclesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cycles",
		Short: "List OKR cycles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cycles, err := app.OKR.ListCycles(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatCycles(cycles, time.Now()))
			return nil
		},
	}
}

func formatCycles(cycles []domain.Cycle, now time.Time) string {
	if len(cycles) == 0 {
		return formatter.Dim("No cycles found.") + "\n"
	}
	rows := make([][]string, len(cycles))
	for i, c := range cycles {
		active := ""
		if c.Active(now) {
			active = formatter.StyleGreen.Render("● active")
		}
		ends := ""
		if c.EndDate != nil {
			ends = formatter.RelativeDateFrom(*c.EndDate, now)
		}
		rows[i] = []string{strconv.FormatInt(c.ID, 10), c.Name, formatter.CycleWindow(c), ends, active}
	}
	cols := formatter.Cols("ID", "Cycle", "Dates", "Ends", "")
	cols[0].Right = true
	return formatter.RenderTable(cols, rows)
}
