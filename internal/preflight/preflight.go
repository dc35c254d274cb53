package preflight

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"brentmlu/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// ErrPreflight is wrapped by Err when any check failed.
var ErrPreflight = errors.New("preflight failed")

// RunAll executes all applicable preflight checks for the given config and
// input path. Checks are only run when the corresponding path is set.
func RunAll(cfg *config.Config, input string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if input != "" {
		results = append(results, CheckInputReadable("Input", input))
	}

	results = append(results, CheckWritableTarget("Output directory", cfg.Paths.OutputDir))

	if cfg.Paths.LogDir != "" {
		results = append(results, CheckWritableTarget("Log directory", cfg.Paths.LogDir))
	}

	if cfg.Export.SQLitePath != "" {
		results = append(results, CheckWritableTarget("SQLite export", filepath.Dir(cfg.Export.SQLitePath)))
	}

	return results
}

// Err returns an error naming every failed check, or nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r.Name+": "+r.Detail)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrPreflight, strings.Join(failed, "; "))
}
