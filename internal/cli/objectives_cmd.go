package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/okrview/internal/cli/formatter"
	"github.com/alexanderramin/okrview/internal/domain"
)

func newObjectivesCmd(app *App) *cobra.Command {
	var cycleID int64

	cmd := &cobra.Command{
		Use:     "objectives",
		Aliases: []string{"objs"},
		Short:   "List the company objectives of a cycle",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCycleID(ctx, app, cycleID)
			if err != nil {
				return err
			}
			objs, err := app.OKR.ListCompanyObjectives(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatObjectives(objs))
			return nil
		},
	}
	cmd.Flags().Int64Var(&cycleID, "cycle", 0, "cycle ID (defaults to the active cycle)")
	return cmd
}

func formatObjectives(objs []domain.CompanyObjective) string {
	if len(objs) == 0 {
		return formatter.Dim("No company objectives in this cycle.") + "\n"
	}
	rows := make([][]string, len(objs))
	for i, o := range objs {
		rows[i] = []string{strconv.FormatInt(o.ID, 10), o.Title, formatter.RenderProgress(o.Progress, 10)}
	}
	cols := []formatter.Column{{Title: "ID", Right: true}, {Title: "Objective"}, {Title: "Progress"}}
	return formatter.RenderTable(cols, rows)
}
