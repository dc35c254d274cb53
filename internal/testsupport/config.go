package testsupport

import (
	"path/filepath"
	"testing"

	"brentmlu/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Extract.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMetric sets the aggregation metric on the test config.
func WithMetric(metric string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.MLU.Metric = metric
	}
}

// WithSQLiteExport enables the SQLite export under the temp directory.
func WithSQLiteExport() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Export.SQLitePath = filepath.Join(b.baseDir, "brentmlu.db")
	}
}

// WithLegacyFlush enables the caregiver-marker-only turn flush.
func WithLegacyFlush() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extract.LegacyTurnFlush = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
