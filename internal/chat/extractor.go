package chat

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"brentmlu/internal/cdi"
	"brentmlu/internal/logging"
	"brentmlu/internal/textutil"
)

const maxLineBytes = 1 << 20

// Record is one caregiver turn.
type Record struct {
	Speaker    string
	AgeMonths  int
	Utterance  string
	Morphology string
	Grammar    string
	Words      int
	Morphemes  int
	Relations  int

	// Provenance. Not part of the tabular output.
	Source string
	Line   int
}

// Result collects the records and line issues of one extraction.
type Result struct {
	Records []Record
	Issues  []*LineError
	Lines   int
	Turns   int
	Dropped int
}

// Extractor turns transcript text into records. An Extractor holds no
// per-transcript state and may be shared by concurrent callers.
type Extractor struct {
	tables      cdi.Tables
	legacyFlush bool
	logger      *slog.Logger
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithLegacyFlush closes a turn only when the next caregiver turn starts,
// even across section headers. The last turn of the input is discarded.
func WithLegacyFlush(enabled bool) Option {
	return func(e *Extractor) { e.legacyFlush = enabled }
}

// WithLogger sets the logger used for line diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// NewExtractor builds an extractor using the given normalization tables.
func NewExtractor(tables cdi.Tables, opts ...Option) *Extractor {
	e := &Extractor{tables: tables}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "chat")
	return e
}

// ExtractFile reads a transcript file as a single section named after the
// file, so raw .cha files and concatenated corpora parse the same way.
func (e *Extractor) ExtractFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open transcript %s: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	r := io.MultiReader(strings.NewReader(SectionHeader(name)+"\n"), f)
	res, err := e.Extract(r, path)
	if err != nil {
		return Result{}, err
	}
	// The synthetic header occupies line 1; report real file lines. A header
	// issue ends up on line 0, meaning the file name itself.
	for i := range res.Records {
		res.Records[i].Line--
	}
	for _, issue := range res.Issues {
		issue.Line--
	}
	res.Lines--
	return res, nil
}

// Extract parses transcript text read from r. source names the input in
// records and line errors. Only read failures are returned as errors;
// malformed lines are reported in Result.Issues.
func (e *Extractor) Extract(r io.Reader, source string) (Result, error) {
	p := &parser{ex: e, source: source}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	n := 0
	for scanner.Scan() {
		n++
		p.step(strings.TrimRight(scanner.Text(), "\r"), n)
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("read transcript %s: %w", source, err)
	}
	p.finish()
	p.result.Lines = n

	e.logger.Debug("transcript extracted",
		logging.String("source", source),
		logging.Int("lines", n),
		logging.Int("turns", p.result.Turns),
		logging.Int("records", len(p.result.Records)),
		logging.Int("dropped", p.result.Dropped),
	)
	return p.result, nil
}

type tier int

const (
	tierNone tier = iota
	tierMother
	tierMorphology
	tierGrammar
)

type turn struct {
	speaker   string
	age       int
	valid     bool
	sectioned bool
	line      int

	utterance  strings.Builder
	morphology strings.Builder
	grammar    strings.Builder
	words      int
	morphemes  int
	relations  int
}

type parser struct {
	ex     *Extractor
	source string
	result Result

	speaker     string
	age         int
	sectionOK   bool
	sectionSeen bool

	state        tier
	otherTurn    bool
	affectedTurn bool
	current      *turn
}

func (p *parser) step(line string, n int) {
	if IsSectionHeader(line) {
		p.startSection(line, n)
		return
	}

	switch {
	case isCaregiverTurn(line):
		p.startTurn(n)
	case isOtherSpeakerTurn(line):
		p.otherTurn = true
		p.state = tierNone
	}

	if isAffected(line) {
		p.affectedTurn = true
	}

	open := !p.otherTurn && !p.affectedTurn
	switch {
	case strings.HasPrefix(line, morphologyTier):
		p.state = tierNone
		if open {
			p.state = tierMorphology
		}
	case strings.HasPrefix(line, grammarTier):
		p.state = tierNone
		if open {
			p.state = tierGrammar
		}
	case isDependentOrHeaderLine(line):
		p.state = tierNone
	}

	if p.current == nil {
		return
	}
	switch p.state {
	case tierMother:
		p.extractMother(line)
	case tierMorphology:
		p.extractMorphology(line)
	case tierGrammar:
		p.extractGrammar(line)
	}
}

func (p *parser) startSection(line string, n int) {
	if !p.ex.legacyFlush {
		p.closeTurn()
	}
	p.state = tierNone
	p.otherTurn = false
	p.affectedTurn = false
	p.sectionSeen = true

	speaker, age, err := ParseHeader(line)
	if err != nil {
		p.sectionOK = false
		p.speaker = ""
		p.age = 0
		p.addIssue(n, line, err)
		return
	}
	p.sectionOK = true
	p.speaker = speaker
	p.age = age
}

func (p *parser) startTurn(n int) {
	p.closeTurn()
	p.current = &turn{
		speaker:   p.speaker,
		age:       p.age,
		valid:     p.sectionOK,
		sectioned: p.sectionSeen,
		line:      n,
	}
	p.state = tierMother
	p.otherTurn = false
	p.affectedTurn = false
	p.result.Turns++
}

// closeTurn emits the open turn when it gathered grammatical relations.
func (p *parser) closeTurn() {
	t := p.current
	p.current = nil
	if t == nil {
		return
	}
	if t.grammar.Len() == 0 {
		p.result.Dropped++
		return
	}
	if !t.valid {
		p.result.Dropped++
		if !t.sectioned {
			p.addIssue(t.line, t.utterance.String(), ErrNoSection)
		}
		return
	}
	p.result.Records = append(p.result.Records, Record{
		Speaker:    t.speaker,
		AgeMonths:  t.age,
		Utterance:  t.utterance.String(),
		Morphology: t.morphology.String(),
		Grammar:    t.grammar.String(),
		Words:      t.words,
		Morphemes:  t.morphemes,
		Relations:  t.relations,
		Source:     p.source,
		Line:       t.line,
	})
}

func (p *parser) finish() {
	if p.ex.legacyFlush {
		if p.current != nil {
			p.result.Dropped++
			p.current = nil
		}
		return
	}
	p.closeTurn()
}

func (p *parser) addIssue(n int, text string, err error) {
	issue := &LineError{Source: p.source, Line: n, Text: text, Err: err}
	p.result.Issues = append(p.result.Issues, issue)
	logging.WarnWithContext(p.ex.logger, "transcript line skipped", "malformed_line",
		logging.String("source", p.source),
		logging.Int("line", n),
		logging.Error(err),
		logging.String(logging.FieldImpact, "records in this section are dropped"),
	)
}

func (p *parser) extractMother(line string) {
	text := cdi.Apply(p.ex.tables.Words, line)
	text = motherRules.Apply(text)
	tokens := wordPattern.FindAllString(text, -1)
	p.current.words += textutil.AppendTokens(&p.current.utterance, tokens)
}

// extractMorphology counts morphemes after the before-count CDI rewrites and
// applies the after-count rewrites to the text only.
func (p *parser) extractMorphology(line string) {
	text := cdi.Apply(p.ex.tables.BeforeMorphs, line)
	text = morphologyRules.Apply(text)
	p.current.morphemes += countMorphemes(text)
	text = cdi.Apply(p.ex.tables.AfterMorphs, text)
	p.current.morphology.WriteString(text)
}

func (p *parser) extractGrammar(line string) {
	text := grammarRules.Apply(line)
	relations := relationPattern.FindAllString(text, -1)
	p.current.relations += textutil.AppendTokens(&p.current.grammar, relations)
}
