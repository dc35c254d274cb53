package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brentmlu/internal/chat"
	"brentmlu/internal/mlu"
)

// ErrRunExists indicates a run id that was already exported.
var ErrRunExists = errors.New("run already exported")

// Run describes one exported pipeline run.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	Input          string
	Metric         string
	EarlyAgeMonths int
	Records        int
	Statistics     int
	Issues         int
}

// SaveRun writes the run with its records and statistics in one transaction.
func (s *Store) SaveRun(ctx context.Context, run Run, records []chat.Record, stats []mlu.Statistic) error {
	ctx = ensureContext(ctx)
	run.Records = len(records)
	run.Statistics = len(stats)
	return retryOnBusy(ctx, func() error {
		return s.saveRun(ctx, run, records, stats)
	})
}

func (s *Store) saveRun(ctx context.Context, run Run, records []chat.Record, stats []mlu.Statistic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM runs WHERE id = ?", run.ID).Scan(&existing); err != nil {
		return fmt.Errorf("check run: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("%w: %s", ErrRunExists, run.ID)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, input, metric, early_age_months, records, statistics, issues)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), formatTime(run.FinishedAt), run.Input, run.Metric,
		run.EarlyAgeMonths, run.Records, run.Statistics, run.Issues,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := insertUtterances(ctx, tx, run.ID, records); err != nil {
		return err
	}
	if err := insertStatistics(ctx, tx, run.ID, stats); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func insertUtterances(ctx context.Context, tx *sql.Tx, runID string, records []chat.Record) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO utterances (run_id, seq, speaker, age_months, utterance, morphology, grammar, words, morphemes, relations, source, line)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare utterance insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, runID, i, rec.Speaker, rec.AgeMonths, rec.Utterance, rec.Morphology,
			rec.Grammar, rec.Words, rec.Morphemes, rec.Relations, nullableString(rec.Source), rec.Line); err != nil {
			return fmt.Errorf("insert utterance %d: %w", i, err)
		}
	}
	return nil
}

func insertStatistics(ctx context.Context, tx *sql.Tx, runID string, stats []mlu.Statistic) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO lemma_stats (run_id, speaker, lemma, total_all, total_early, median, median_early, imputed, isolation_all, isolation_early)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare statistic insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range stats {
		var medianEarly sql.NullFloat64
		if st.HasEarly {
			medianEarly = sql.NullFloat64{Float64: st.MedianEarly, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, st.Speaker, st.Lemma, st.TotalAll, st.TotalEarly, st.Median,
			medianEarly, boolToInt(st.Imputed), st.IsolationAll, st.IsolationEarly); err != nil {
			return fmt.Errorf("insert statistic %s/%s: %w", st.Speaker, st.Lemma, err)
		}
	}
	return nil
}

// ListRuns returns exported runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input, metric, early_age_months, records, statistics, issues
		 FROM runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &started, &finished, &run.Input, &run.Metric, &run.EarlyAgeMonths,
			&run.Records, &run.Statistics, &run.Issues); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseTime(finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Statistics returns the lemma statistics stored for runID, sorted by
// speaker then lemma.
func (s *Store) Statistics(ctx context.Context, runID string) ([]mlu.Statistic, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT speaker, lemma, total_all, total_early, median, median_early, imputed, isolation_all, isolation_early
		 FROM lemma_stats WHERE run_id = ? ORDER BY speaker, lemma`, runID)
	if err != nil {
		return nil, fmt.Errorf("query statistics: %w", err)
	}
	defer rows.Close()

	var stats []mlu.Statistic
	for rows.Next() {
		var (
			st          mlu.Statistic
			medianEarly sql.NullFloat64
			imputed     int
		)
		if err := rows.Scan(&st.Speaker, &st.Lemma, &st.TotalAll, &st.TotalEarly, &st.Median, &medianEarly,
			&imputed, &st.IsolationAll, &st.IsolationEarly); err != nil {
			return nil, fmt.Errorf("scan statistic: %w", err)
		}
		st.MedianEarly = medianEarly.Float64
		st.HasEarly = medianEarly.Valid
		st.Imputed = imputed != 0
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statistics: %w", err)
	}
	return stats, nil
}

// DeleteRun removes a run and its rows. It reports whether the run existed.
func (s *Store) DeleteRun(ctx context.Context, runID string) (bool, error) {
	ctx = ensureContext(ctx)
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", runID)
		return execErr
	})
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete run: %w", err)
	}
	return n > 0, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
