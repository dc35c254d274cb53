package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"brentmlu/internal/fileutil"
	"brentmlu/internal/logging"
	"brentmlu/internal/mlu"
	"brentmlu/internal/preflight"
	"brentmlu/internal/store"
	"brentmlu/internal/tabular"
)

// Report summarises a completed run.
type Report struct {
	RunID      string
	Input      string
	Metric     mlu.Metric
	Extraction *Extraction
	Statistics []mlu.Statistic
	Outputs    []string
	Exported   string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Imputed counts statistics that report a fallback median.
func (r *Report) Imputed() int {
	n := 0
	for _, s := range r.Statistics {
		if s.Imputed {
			n++
		}
	}
	return n
}

// Run extracts input, aggregates the records and commits the utterance and
// statistics tables. When export.sqlite_path is set the run is also stored
// in SQLite. Nothing is written unless every step succeeds.
func (r *Runner) Run(ctx context.Context, input string) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Input:     input,
		StartedAt: r.now(),
	}
	ctx = logging.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("run started",
		logging.String("input", input),
		logging.String("output_dir", r.cfg.Paths.OutputDir),
		logging.String("metric", r.cfg.MLU.Metric),
		logging.Bool("legacy_turn_flush", r.cfg.Extract.LegacyTurnFlush),
	)

	if err := preflight.Err(preflight.RunAll(r.cfg, input)); err != nil {
		return nil, err
	}

	unlock, err := r.lockOutput()
	if err != nil {
		return nil, err
	}
	defer unlock()

	extraction, err := r.Extract(ctx, input)
	if err != nil {
		return nil, err
	}
	report.Extraction = extraction
	r.logIssues(ctx, extraction)

	stats, metric, err := r.Aggregate(extraction.Records)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	report.Metric = metric
	report.Statistics = stats

	var staged []*fileutil.Staged
	commitFailed := true
	defer func() {
		if commitFailed {
			fileutil.DiscardAll(staged)
		}
	}()

	utter, err := fileutil.Stage(r.cfg.OutputPath(UtterancesFile), 0o644, func(w io.Writer) error {
		return tabular.WriteUtterances(w, extraction.Records)
	})
	if err != nil {
		return nil, fmt.Errorf("write utterances: %w", err)
	}
	staged = append(staged, utter)

	statsFile, err := fileutil.Stage(r.cfg.OutputPath(StatisticsFile(metric)), 0o644, func(w io.Writer) error {
		return tabular.WriteStatistics(w, metric, stats)
	})
	if err != nil {
		return nil, fmt.Errorf("write statistics: %w", err)
	}
	staged = append(staged, statsFile)

	report.FinishedAt = r.now()
	rollback, err := r.export(ctx, report)
	if err != nil {
		return nil, err
	}

	if err := fileutil.CommitAll(staged); err != nil {
		rollback()
		logging.ErrorWithContext(logger, "commit outputs failed", "commit_failed",
			logging.String("output_dir", r.cfg.Paths.OutputDir),
			logging.String(logging.FieldErrorHint, "check free space and permissions on the output directory"),
			logging.Error(err),
		)
		return nil, err
	}
	commitFailed = false
	for _, s := range staged {
		report.Outputs = append(report.Outputs, s.Path())
	}

	logger.Info("run complete",
		logging.Int("files", len(extraction.Files)),
		logging.Int("records", len(extraction.Records)),
		logging.Int("statistics", len(stats)),
		logging.Int("imputed", report.Imputed()),
		logging.Int("issues", len(extraction.Issues)),
		logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

// export stores the run in SQLite when configured. The returned rollback
// removes the exported run again.
func (r *Runner) export(ctx context.Context, report *Report) (func(), error) {
	path := r.cfg.Export.SQLitePath
	if path == "" {
		return func() {}, nil
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export store: %w", err)
	}
	defer st.Close()

	run := store.Run{
		ID:             report.RunID,
		StartedAt:      report.StartedAt,
		FinishedAt:     report.FinishedAt,
		Input:          report.Input,
		Metric:         report.Metric.String(),
		EarlyAgeMonths: r.cfg.MLU.EarlyAgeMonths,
		Issues:         len(report.Extraction.Issues),
	}
	if err := st.SaveRun(ctx, run, report.Extraction.Records, report.Statistics); err != nil {
		return nil, fmt.Errorf("export run: %w", err)
	}
	report.Exported = path

	logger := logging.WithContext(ctx, r.logger)
	return func() {
		rb, err := store.Open(path)
		if err != nil {
			logging.WarnWithContext(logger, "export rollback failed", "export_rollback",
				logging.Error(err),
				logging.String(logging.FieldImpact, "database holds a run without CSV outputs"),
				logging.String(logging.FieldErrorHint, "delete the run from "+path),
			)
			return
		}
		defer rb.Close()
		if _, err := rb.DeleteRun(context.WithoutCancel(ctx), report.RunID); err != nil {
			logging.WarnWithContext(logger, "export rollback failed", "export_rollback",
				logging.Error(err),
				logging.String(logging.FieldImpact, "database holds a run without CSV outputs"),
				logging.String(logging.FieldErrorHint, "delete the run from "+path),
			)
		}
	}, nil
}

func (r *Runner) lockOutput() (func(), error) {
	lock, err := fileutil.LockDir(r.cfg.Paths.OutputDir)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release output lock", logging.Error(err))
		}
	}, nil
}

func (r *Runner) logIssues(ctx context.Context, extraction *Extraction) {
	if len(extraction.Issues) == 0 {
		return
	}
	logging.WarnWithContext(logging.WithContext(ctx, r.logger), "transcript lines skipped", "extraction_issues",
		logging.Int("issues", len(extraction.Issues)),
		logging.Int("dropped_turns", extraction.Dropped),
		logging.String(logging.FieldImpact, "turns in malformed sections are excluded"),
		logging.String(logging.FieldErrorHint, "fix the section headers named in the warnings"),
	)
}
