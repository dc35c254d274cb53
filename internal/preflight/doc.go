// Package preflight provides readiness checks for the filesystem paths a
// run depends on.
//
// The run and extract commands call RunAll before reading any transcript so
// an unwritable output directory fails the run before extraction work is
// spent. Optional paths (log directory, SQLite export) are only checked when
// configured.
package preflight
