package pipeline

import (
	"errors"
	"log/slog"
	"time"

	"brentmlu/internal/cdi"
	"brentmlu/internal/chat"
	"brentmlu/internal/config"
	"brentmlu/internal/logging"
	"brentmlu/internal/mlu"
)

// Default output file names inside paths.output_dir.
const (
	UtterancesFile  = "brent_data_cdi.csv"
	OrthographyFile = "brent_lemma_to_ortho.csv"
	LemmasFile      = "brent_lemmas.txt"
	CorpusFile      = "brent_corpus.cha"
)

// StatisticsFile returns the statistics file name for metric, e.g.
// brent_mlum.csv.
func StatisticsFile(metric mlu.Metric) string {
	return "brent_" + metric.Column() + ".csv"
}

// Runner executes pipeline commands against one configuration.
type Runner struct {
	cfg       *config.Config
	tables    cdi.Tables
	extractor *chat.Extractor
	logger    *slog.Logger
	now       func() time.Time
}

// Option customises a Runner.
type Option func(*Runner)

// WithTables replaces the default CDI tables.
func WithTables(tables cdi.Tables) Option {
	return func(r *Runner) { r.tables = tables }
}

// WithClock overrides the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New constructs a Runner. logger may be nil.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config is nil")
	}
	r := &Runner{
		cfg:    cfg,
		tables: cdi.Default(),
		logger: logging.NewComponentLogger(logger, "pipeline"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.extractor = chat.NewExtractor(r.tables,
		chat.WithLegacyFlush(cfg.Extract.LegacyTurnFlush),
		chat.WithLogger(logger),
	)
	return r, nil
}

// Metric returns the configured aggregation metric.
func (r *Runner) Metric() (mlu.Metric, error) {
	return mlu.ParseMetric(r.cfg.MLU.Metric)
}

// Aggregate computes lemma statistics for records with the configured
// metric and replace table.
func (r *Runner) Aggregate(records []chat.Record) ([]mlu.Statistic, mlu.Metric, error) {
	metric, err := r.Metric()
	if err != nil {
		return nil, 0, err
	}
	stats, err := mlu.Aggregate(records, mlu.Options{
		Metric:         metric,
		EarlyAgeMonths: r.cfg.MLU.EarlyAgeMonths,
		Replace:        r.tables.Replace,
		Logger:         r.logger,
	})
	if err != nil {
		return nil, metric, err
	}
	return stats, metric, nil
}
