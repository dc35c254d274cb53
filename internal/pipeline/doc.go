// Package pipeline wires extraction, aggregation and output commits into
// the runs the CLI exposes.
//
// A Runner extracts transcripts with a bounded worker pool, one parser per
// file, and concatenates the per-file results in path order before
// aggregation. Every command that writes into the output directory holds
// the directory lock for its duration and stages all outputs before
// renaming any of them, so a failed run leaves earlier results untouched.
// Each Run carries a run id that tags its log lines and its SQLite export.
package pipeline
