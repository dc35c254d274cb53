package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"brentmlu/internal/chat"
	"brentmlu/internal/corpus"
	"brentmlu/internal/logging"
)

// Extraction is the merged result of extracting one input.
type Extraction struct {
	Files   []string
	Records []chat.Record
	Issues  []*chat.LineError
	Lines   int
	Turns   int
	Dropped int
}

func (e *Extraction) add(file string, res chat.Result) {
	e.Files = append(e.Files, file)
	e.Records = append(e.Records, res.Records...)
	e.Issues = append(e.Issues, res.Issues...)
	e.Lines += res.Lines
	e.Turns += res.Turns
	e.Dropped += res.Dropped
}

// Extract reads input, which is either a directory of transcripts or a
// single transcript or concatenated corpus file.
func (r *Runner) Extract(ctx context.Context, input string) (*Extraction, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		res, err := r.extractSingle(input)
		if err != nil {
			return nil, err
		}
		out := &Extraction{}
		out.add(input, res)
		return out, nil
	}

	files, err := corpus.Walk(input, r.cfg.Extract.Extensions, r.cfg.OutputPath(CorpusFile))
	if err != nil {
		return nil, err
	}
	return r.ExtractFiles(ctx, files)
}

// extractSingle parses a file that starts with a section header as a
// concatenated corpus and any other file as one transcript.
func (r *Runner) extractSingle(path string) (chat.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return chat.Result{}, fmt.Errorf("open transcript %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	first, err := br.Peek(len(chat.SectionHeader("")))
	if err == nil && chat.IsSectionHeader(string(first)) {
		return r.extractor.Extract(br, path)
	}
	return r.extractor.ExtractFile(path)
}

// ExtractFiles extracts files concurrently with at most extract.workers
// parsers and merges the results in the order of files. Cancelling ctx stops
// scheduling new files.
func (r *Runner) ExtractFiles(ctx context.Context, files []string) (*Extraction, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]chat.Result, len(files))
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	workers := min(max(r.cfg.Extract.Workers, 1), max(len(files), 1))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := r.extractor.ExtractFile(files[i])
				if err != nil {
					fail(err)
					continue
				}
				results[i] = res
			}
		}()
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction interrupted: %w", context.Cause(ctx))
	}

	out := &Extraction{}
	for i, file := range files {
		out.add(file, results[i])
	}
	logging.WithContext(ctx, r.logger).Debug("files extracted",
		logging.Int("files", len(files)),
		logging.Int("workers", workers),
		logging.Int("records", len(out.Records)),
	)
	return out, nil
}

// IssueSummary renders up to limit issues, one per line.
func (e *Extraction) IssueSummary(limit int) string {
	var b strings.Builder
	for i, issue := range e.Issues {
		if i == limit {
			fmt.Fprintf(&b, "... %d more\n", len(e.Issues)-limit)
			break
		}
		b.WriteString(issue.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
