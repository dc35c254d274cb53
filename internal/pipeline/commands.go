package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"brentmlu/internal/chat"
	"brentmlu/internal/corpus"
	"brentmlu/internal/fileutil"
	"brentmlu/internal/logging"
	"brentmlu/internal/mlu"
	"brentmlu/internal/preflight"
	"brentmlu/internal/tabular"
)

// ExtractToFile extracts input and commits only the utterance table.
func (r *Runner) ExtractToFile(ctx context.Context, input string) (*Extraction, string, error) {
	if err := preflight.Err(preflight.RunAll(r.cfg, input)); err != nil {
		return nil, "", err
	}
	unlock, err := r.lockOutput()
	if err != nil {
		return nil, "", err
	}
	defer unlock()

	extraction, err := r.Extract(ctx, input)
	if err != nil {
		return nil, "", err
	}
	r.logIssues(ctx, extraction)

	path := r.cfg.OutputPath(UtterancesFile)
	if err := fileutil.WriteAtomic(path, func(w io.Writer) error {
		return tabular.WriteUtterances(w, extraction.Records)
	}); err != nil {
		return nil, "", fmt.Errorf("write utterances: %w", err)
	}
	return extraction, path, nil
}

// ReadUtterances loads an utterance table written by a previous run.
func ReadUtterances(path string) ([]chat.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open utterances %s: %w", path, err)
	}
	defer f.Close()
	return tabular.ReadUtterances(f, path)
}

// SummarizeFile aggregates an existing utterance table and commits the
// statistics table.
func (r *Runner) SummarizeFile(ctx context.Context, utterancesPath string) ([]mlu.Statistic, string, error) {
	records, err := ReadUtterances(utterancesPath)
	if err != nil {
		return nil, "", err
	}
	stats, metric, err := r.Aggregate(records)
	if err != nil {
		return nil, "", fmt.Errorf("aggregate: %w", err)
	}

	unlock, err := r.lockOutput()
	if err != nil {
		return nil, "", err
	}
	defer unlock()

	path := r.cfg.OutputPath(StatisticsFile(metric))
	if err := fileutil.WriteAtomic(path, func(w io.Writer) error {
		return tabular.WriteStatistics(w, metric, stats)
	}); err != nil {
		return nil, "", fmt.Errorf("write statistics: %w", err)
	}
	logging.WithContext(ctx, r.logger).Info("statistics written",
		logging.String("input", utterancesPath),
		logging.String("output", path),
		logging.Int("statistics", len(stats)),
	)
	return stats, path, nil
}

// OrthographyFromFile maps the words of an utterance table to their lemmas
// and commits the orthography table.
func (r *Runner) OrthographyFromFile(ctx context.Context, utterancesPath string) ([]corpus.Token, string, error) {
	records, err := ReadUtterances(utterancesPath)
	if err != nil {
		return nil, "", err
	}
	tokens := corpus.MapOrthography(records)

	unlock, err := r.lockOutput()
	if err != nil {
		return nil, "", err
	}
	defer unlock()

	path := r.cfg.OutputPath(OrthographyFile)
	if err := fileutil.WriteAtomic(path, func(w io.Writer) error {
		return tabular.WriteOrthography(w, tokens)
	}); err != nil {
		return nil, "", fmt.Errorf("write orthography: %w", err)
	}
	logging.WithContext(ctx, r.logger).Info("orthography written",
		logging.String("input", utterancesPath),
		logging.String("output", path),
		logging.Int("tokens", len(tokens)),
	)
	return tokens, path, nil
}

// ConcatenateDir joins every transcript under dir into one corpus file at
// dest, or at the default corpus path when dest is empty.
func (r *Runner) ConcatenateDir(ctx context.Context, dir, dest string) ([]string, string, error) {
	if dest == "" {
		dest = r.cfg.OutputPath(CorpusFile)
	}
	files, err := corpus.Walk(dir, r.cfg.Extract.Extensions, dest, r.cfg.OutputPath(CorpusFile))
	if err != nil {
		return nil, "", err
	}

	unlock, err := r.lockOutput()
	if err != nil {
		return nil, "", err
	}
	defer unlock()

	if err := fileutil.WriteAtomic(dest, func(w io.Writer) error {
		return corpus.Concatenate(w, files)
	}); err != nil {
		return nil, "", err
	}
	logging.WithContext(ctx, r.logger).Info("corpus written",
		logging.String("input", dir),
		logging.String("output", dest),
		logging.Int("files", len(files)),
	)
	return files, dest, nil
}

// CollectLemmasFile writes the distinct lemmas of a corpus file to dest, or
// to the default lemma list path when dest is empty.
func (r *Runner) CollectLemmasFile(ctx context.Context, corpusPath, dest string) ([]string, string, error) {
	f, err := os.Open(corpusPath)
	if err != nil {
		return nil, "", fmt.Errorf("open corpus %s: %w", corpusPath, err)
	}
	defer f.Close()

	lemmas, err := corpus.CollectLemmas(f)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", filepath.Base(corpusPath), err)
	}
	if dest == "" {
		dest = r.cfg.OutputPath(LemmasFile)
	}

	unlock, err := r.lockOutput()
	if err != nil {
		return nil, "", err
	}
	defer unlock()

	if err := fileutil.WriteAtomic(dest, func(w io.Writer) error {
		return corpus.WriteLemmas(w, lemmas)
	}); err != nil {
		return nil, "", err
	}
	logging.WithContext(ctx, r.logger).Info("lemmas written",
		logging.String("input", corpusPath),
		logging.String("output", dest),
		logging.Int("lemmas", len(lemmas)),
	)
	return lemmas, dest, nil
}
