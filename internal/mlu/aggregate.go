package mlu

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"slices"

	"golang.org/x/text/cases"

	"brentmlu/internal/cdi"
	"brentmlu/internal/chat"
	"brentmlu/internal/logging"
)

// ErrMissingFallback indicates a lemma with no corpus-wide median to impute.
var ErrMissingFallback = errors.New("lemma missing from fallback table")

// DefaultEarlyAgeMonths is the exclusive age bound of the early subset.
const DefaultEarlyAgeMonths = 12

var lemmaPattern = regexp.MustCompile(`[|_]([a-zA-Z]+)`)

// Lengths holds the per-occurrence utterance lengths of one lemma.
type Lengths struct {
	All   []float64
	Early []float64
}

func (l *Lengths) clone() *Lengths {
	return &Lengths{All: slices.Clone(l.All), Early: slices.Clone(l.Early)}
}

func (l *Lengths) add(other *Lengths) {
	l.All = append(l.All, other.All...)
	l.Early = append(l.Early, other.Early...)
}

// Table maps speaker to lemma to observed lengths.
type Table map[string]map[string]*Lengths

// Statistic is one output row.
type Statistic struct {
	Speaker    string
	Lemma      string
	TotalAll   int
	TotalEarly int
	Median     float64
	// MedianEarly and HasEarly are stored by the SQLite export only; the
	// statistics CSV has no early median column.
	MedianEarly    float64
	HasEarly       bool
	Imputed        bool
	IsolationAll   int
	IsolationEarly int
}

// Options configures Aggregate.
type Options struct {
	Metric         Metric
	EarlyAgeMonths int
	// Replace merges lemmas before medians are taken, in order.
	Replace []cdi.Pair
	Logger  *slog.Logger
}

// Aggregate computes one statistic per (speaker, lemma) pair, sorted by
// speaker then lemma.
func Aggregate(rows []chat.Record, opts Options) ([]Statistic, error) {
	if opts.EarlyAgeMonths <= 0 {
		opts.EarlyAgeMonths = DefaultEarlyAgeMonths
	}
	logger := logging.NewComponentLogger(opts.Logger, "mlu")

	table := Collect(rows, opts.Metric, opts.EarlyAgeMonths)
	fallback := Pool(table)

	merged := make(Table, len(table))
	for speaker, lemmas := range table {
		merged[speaker] = Merge(lemmas, opts.Replace)
	}
	fallback = Merge(fallback, opts.Replace)

	stats, err := Summarize(merged, fallback)
	if err != nil {
		return nil, err
	}
	logger.Debug("lemma statistics computed",
		logging.String("metric", opts.Metric.String()),
		logging.Int("rows", len(rows)),
		logging.Int("speakers", len(merged)),
		logging.Int("lemmas", len(fallback)),
		logging.Int("statistics", len(stats)),
	)
	return stats, nil
}

// Lemmas returns the case-folded lemma occurrences of a morphology string,
// repeats included.
func Lemmas(morphology string) []string {
	matches := lemmaPattern.FindAllStringSubmatch(morphology, -1)
	if len(matches) == 0 {
		return nil
	}
	fold := cases.Fold()
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, fold.String(m[1]))
	}
	return out
}

// Collect records one length per lemma occurrence. Every speaker receives an
// entry for every lemma seen anywhere in rows, empty when the speaker never
// used it.
func Collect(rows []chat.Record, metric Metric, earlyAgeMonths int) Table {
	table := make(Table)
	universe := make(map[string]struct{})
	for _, row := range rows {
		lemmas, ok := table[row.Speaker]
		if !ok {
			lemmas = make(map[string]*Lengths)
			table[row.Speaker] = lemmas
		}
		length := metric.Length(row)
		early := row.AgeMonths < earlyAgeMonths
		for _, lemma := range Lemmas(row.Morphology) {
			universe[lemma] = struct{}{}
			entry, ok := lemmas[lemma]
			if !ok {
				entry = &Lengths{}
				lemmas[lemma] = entry
			}
			entry.All = append(entry.All, length)
			if early {
				entry.Early = append(entry.Early, length)
			}
		}
	}
	for _, lemmas := range table {
		for lemma := range universe {
			if _, ok := lemmas[lemma]; !ok {
				lemmas[lemma] = &Lengths{}
			}
		}
	}
	return table
}

// Pool gathers the lengths of every speaker per lemma. Speakers are visited
// in sorted order so pooled sequences are reproducible.
func Pool(table Table) map[string]*Lengths {
	pool := make(map[string]*Lengths)
	for _, speaker := range slices.Sorted(maps.Keys(table)) {
		for lemma, lengths := range table[speaker] {
			entry, ok := pool[lemma]
			if !ok {
				entry = &Lengths{}
				pool[lemma] = entry
			}
			entry.add(lengths)
		}
	}
	return pool
}

// Merge returns a new map in which every lemma named as the source of a
// replace pair has been folded into its target. Pairs apply in order, so a
// chain a->b, b->c lands on c. The input is not modified and merging an
// already merged map again changes nothing.
func Merge(lemmas map[string]*Lengths, pairs []cdi.Pair) map[string]*Lengths {
	out := make(map[string]*Lengths, len(lemmas))
	for _, lemma := range slices.Sorted(maps.Keys(lemmas)) {
		target := lemma
		for _, p := range pairs {
			if target == p.Old {
				target = p.New
			}
		}
		if existing, ok := out[target]; ok {
			existing.add(lemmas[lemma])
			continue
		}
		out[target] = lemmas[lemma].clone()
	}
	return out
}

// Summarize emits the statistics of table. Pairs without occurrences report
// the median of the lemma's fallback pool.
func Summarize(table Table, fallback map[string]*Lengths) ([]Statistic, error) {
	var stats []Statistic
	for _, speaker := range slices.Sorted(maps.Keys(table)) {
		lemmas := table[speaker]
		for _, lemma := range slices.Sorted(maps.Keys(lemmas)) {
			stat, err := summarize(speaker, lemma, lemmas[lemma], fallback)
			if err != nil {
				return nil, err
			}
			stats = append(stats, stat)
		}
	}
	return stats, nil
}

func summarize(speaker, lemma string, lengths *Lengths, fallback map[string]*Lengths) (Statistic, error) {
	stat := Statistic{
		Speaker:    speaker,
		Lemma:      lemma,
		TotalAll:   len(lengths.All),
		TotalEarly: len(lengths.Early),
	}
	if median, ok := Median(lengths.All); ok {
		stat.Median = median
		stat.MedianEarly, stat.HasEarly = Median(lengths.Early)
		stat.IsolationAll = isolations(lengths.All)
		stat.IsolationEarly = isolations(lengths.Early)
		return stat, nil
	}

	pool, ok := fallback[lemma]
	if !ok {
		return Statistic{}, fmt.Errorf("%w: %q (speaker %s)", ErrMissingFallback, lemma, speaker)
	}
	median, ok := Median(pool.All)
	if !ok {
		return Statistic{}, fmt.Errorf("%w: %q has no occurrences in any speaker", ErrMissingFallback, lemma)
	}
	stat.Median = median
	stat.MedianEarly = median
	stat.HasEarly = true
	stat.Imputed = true
	return stat, nil
}
