package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect runs exported to SQLite",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsRemoveCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exported runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openExportStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No exported runs")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format(time.DateTime),
					run.Metric,
					strconv.Itoa(run.Records),
					strconv.Itoa(run.Statistics),
					strconv.Itoa(run.Issues),
					run.Input,
				})
			}
			headers := []string{"Run", "Started", "Metric", "Records", "Statistics", "Issues", "Input"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
			writeRows(cmd.OutOrStdout(), headers, rows, aligns)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	return cmd
}

func newRunsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <run-id>...",
		Short: "Remove exported runs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openExportStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			for _, id := range args {
				deleted, err := st.DeleteRun(cmd.Context(), id)
				if err != nil {
					return err
				}
				if deleted {
					fmt.Fprintf(out, "Removed run %s\n", id)
				} else {
					fmt.Fprintf(out, "Run %s not found\n", id)
				}
			}
			return nil
		},
	}
}
