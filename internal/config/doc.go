// Package config loads, normalizes, and validates brentmlu configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the extraction and aggregation commands need: output locations, worker
// count, the MLU metric and early-age cutoff, the optional SQLite export, and
// logging.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical enum spellings, and clear validation errors.
package config
