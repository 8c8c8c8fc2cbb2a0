package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/okrview/internal/cli/formatter"
	"github.com/alexanderramin/okrview/internal/domain"
	"github.com/alexanderramin/okrview/internal/service"
)

func newCacheCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the local snapshot cache",
	}
	cmd.AddCommand(newCacheListCmd(app), newCachePruneCmd(app))
	return cmd
}

func cacheError(err error) error {
	if errors.Is(err, service.ErrCacheDisabled) {
		return fmt.Errorf("%w (unset OKRVIEW_NO_CACHE or cache.disabled to enable it)", err)
	}
	return err
}

func newCacheListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached tree snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps, err := app.OKR.ListSnapshots(cmd.Context())
			if err != nil {
				return cacheError(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatSnapshots(snaps))
			return nil
		},
	}
}

func formatSnapshots(snaps []*domain.TreeSnapshot) string {
	if len(snaps) == 0 {
		return formatter.Dim("No cached snapshots.") + "\n"
	}
	rows := make([][]string, len(snaps))
	for i, s := range snaps {
		rows[i] = []string{
			formatter.TruncID(s.ID),
			strconv.FormatInt(s.CycleID, 10),
			strconv.FormatInt(s.ObjectiveID, 10),
			s.Title,
			strconv.Itoa(s.NodeCount),
			string(s.Source),
			formatter.HumanTimestamp(s.FetchedAt),
		}
	}
	cols := []formatter.Column{
		{Title: "ID"},
		{Title: "Cycle", Right: true},
		{Title: "Objective", Right: true},
		{Title: "Title"},
		{Title: "Nodes", Right: true},
		{Title: "Source"},
		{Title: "Fetched"},
	}
	return formatter.RenderTable(cols, rows)
}

func newCachePruneCmd(app *App) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete snapshots older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			n, err := app.OKR.PruneSnapshots(cmd.Context(), olderThan)
			if err != nil {
				return cacheError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d snapshot(s).\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age threshold, e.g. 72h")
	return cmd
}
