package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"brentmlu/internal/pipeline"
)

const issuePreviewLimit = 10

type runSummary struct {
	RunID      string   `json:"run_id"`
	Input      string   `json:"input"`
	Metric     string   `json:"metric"`
	Files      int      `json:"files"`
	Lines      int      `json:"lines"`
	Turns      int      `json:"turns"`
	Records    int      `json:"records"`
	Dropped    int      `json:"dropped"`
	Issues     int      `json:"issues"`
	Statistics int      `json:"statistics"`
	Imputed    int      `json:"imputed"`
	Outputs    []string `json:"outputs"`
	SQLite     string   `json:"sqlite,omitempty"`
	Elapsed    string   `json:"elapsed"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run <input>",
		Short: "Extract transcripts and write lemma MLU statistics",
		Long: "Extract caregiver tiers from a directory of .cha files or a concatenated corpus,\n" +
			"write the utterance table and the lemma statistics table to paths.output_dir,\n" +
			"and export the run to SQLite when export.sqlite_path is set.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			report, err := runner.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			ex := report.Extraction
			summary := runSummary{
				RunID:      report.RunID,
				Input:      report.Input,
				Metric:     report.Metric.String(),
				Files:      len(ex.Files),
				Lines:      ex.Lines,
				Turns:      ex.Turns,
				Records:    len(ex.Records),
				Dropped:    ex.Dropped,
				Issues:     len(ex.Issues),
				Statistics: len(report.Statistics),
				Imputed:    report.Imputed(),
				Outputs:    report.Outputs,
				SQLite:     report.Exported,
				Elapsed:    report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond).String(),
			}
			if jsonOutput {
				return writeJSON(cmd, summary)
			}

			rows := [][]string{
				{"Run", summary.RunID},
				{"Input", summary.Input},
				{"Metric", summary.Metric},
				{"Files", strconv.Itoa(summary.Files)},
				{"Turns", strconv.Itoa(summary.Turns)},
				{"Records", strconv.Itoa(summary.Records)},
				{"Dropped turns", strconv.Itoa(summary.Dropped)},
				{"Line issues", strconv.Itoa(summary.Issues)},
				{"Statistics", strconv.Itoa(summary.Statistics)},
				{"Imputed", strconv.Itoa(summary.Imputed)},
				{"Outputs", strings.Join(summary.Outputs, ", ")},
			}
			if summary.SQLite != "" {
				rows = append(rows, []string{"SQLite", summary.SQLite})
			}
			writeRows(cmd.OutOrStdout(), []string{"Field", "Value"}, rows, nil)
			printIssues(cmd, ex)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

func newExtractCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <input>",
		Short: "Extract caregiver tiers into the utterance table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			ex, path, err := runner.ExtractToFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Extracted %d records from %d file(s) (%d turns, %d dropped)\n",
				len(ex.Records), len(ex.Files), ex.Turns, ex.Dropped)
			fmt.Fprintf(out, "Wrote %s\n", path)
			printIssues(cmd, ex)
			return nil
		},
	}
}

func printIssues(cmd *cobra.Command, ex *pipeline.Extraction) {
	if len(ex.Issues) == 0 {
		return
	}
	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "%d line issue(s):\n", len(ex.Issues))
	fmt.Fprint(errOut, ex.IssueSummary(issuePreviewLimit))
}
