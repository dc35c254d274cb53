// Package tabular reads and writes the CSV files exchanged between the
// extraction, aggregation and orthography stages.
package tabular
