package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"brentmlu/internal/mlu"
	"brentmlu/internal/pipeline"
	"brentmlu/internal/store"
	"brentmlu/internal/tabular"
)

// applyMetricFlag overrides mlu.metric for this invocation.
func applyMetricFlag(ctx *commandContext, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	metric, err := mlu.ParseMetric(value)
	if err != nil {
		return fmt.Errorf("--metric: %w", err)
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg.MLU.Metric = metric.String()
	return nil
}

func newMLUCommand(ctx *commandContext) *cobra.Command {
	var metricFlag string

	cmd := &cobra.Command{
		Use:   "mlu <utterances.csv>",
		Short: "Aggregate an utterance table into lemma MLU statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyMetricFlag(ctx, metricFlag); err != nil {
				return err
			}
			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			stats, path, err := runner.SummarizeFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			imputed := 0
			for _, s := range stats {
				if s.Imputed {
					imputed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d statistics (%d imputed) to %s\n", len(stats), imputed, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&metricFlag, "metric", "m", "", "Length unit: word, morpheme or relation (default from config)")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var (
		metricFlag string
		runID      string
		speaker    string
		lemma      string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "show [utterances.csv]",
		Short: "Print lemma statistics without writing files",
		Long: "Aggregate an utterance table in memory and print the statistics, or print the\n" +
			"statistics of an exported run with --run.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (runID == "") {
				return errors.New("pass either an utterance table or --run <id>")
			}
			if err := applyMetricFlag(ctx, metricFlag); err != nil {
				return err
			}

			var (
				stats  []mlu.Statistic
				metric mlu.Metric
				err    error
			)
			if runID != "" {
				stats, metric, err = loadRunStatistics(cmd, ctx, runID)
			} else {
				stats, metric, err = aggregateFile(ctx, args[0])
			}
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(stats))
			for _, s := range stats {
				if speaker != "" && s.Speaker != speaker {
					continue
				}
				if lemma != "" && s.Lemma != strings.ToLower(lemma) {
					continue
				}
				rows = append(rows, tabular.StatisticRow(s))
				if limit > 0 && len(rows) == limit {
					break
				}
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No statistics match")
				return nil
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}
			writeRows(cmd.OutOrStdout(), tabular.StatisticsHeader(metric), rows, aligns)
			return nil
		},
	}

	cmd.Flags().StringVarP(&metricFlag, "metric", "m", "", "Length unit: word, morpheme or relation (default from config)")
	cmd.Flags().StringVar(&runID, "run", "", "Show statistics of an exported run")
	cmd.Flags().StringVar(&speaker, "speaker", "", "Only show rows for this caregiver code")
	cmd.Flags().StringVar(&lemma, "lemma", "", "Only show rows for this lemma")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows to print (0 = all)")
	return cmd
}

func aggregateFile(ctx *commandContext, path string) ([]mlu.Statistic, mlu.Metric, error) {
	runner, err := ctx.runner()
	if err != nil {
		return nil, 0, err
	}
	records, err := pipeline.ReadUtterances(path)
	if err != nil {
		return nil, 0, err
	}
	return runner.Aggregate(records)
}

func loadRunStatistics(cmd *cobra.Command, ctx *commandContext, runID string) ([]mlu.Statistic, mlu.Metric, error) {
	st, err := openExportStore(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return nil, 0, err
	}
	for _, run := range runs {
		if run.ID != runID {
			continue
		}
		metric, err := mlu.ParseMetric(run.Metric)
		if err != nil {
			return nil, 0, err
		}
		stats, err := st.Statistics(cmd.Context(), runID)
		return stats, metric, err
	}
	return nil, 0, fmt.Errorf("run %s not found in %s", runID, st.Path())
}

func openExportStore(ctx *commandContext) (*store.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Export.SQLitePath == "" {
		return nil, errors.New("export.sqlite_path is not configured")
	}
	return store.Open(cfg.Export.SQLitePath)
}
