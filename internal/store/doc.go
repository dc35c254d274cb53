// Package store exports extraction runs to SQLite.
//
// Each run records its utterance rows and lemma statistics under a run id so
// results from different metrics or corpora can be compared with SQL. The
// database is an export target, not a source of truth: the CSV outputs are
// authoritative. Schema changes bump the version in schema.go; users delete
// the database to adopt the new schema.
package store
