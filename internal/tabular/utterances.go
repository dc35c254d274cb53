package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"brentmlu/internal/chat"
)

// UtteranceHeader is the header row of the utterance table.
var UtteranceHeader = []string{"mom", "age", "utter", "mrph", "grm", "lu", "lum", "lug"}

// ErrHeader indicates a table whose header row does not match the expected
// columns.
var ErrHeader = errors.New("unexpected table header")

// WriteUtterances writes records with a header row.
func WriteUtterances(w io.Writer, records []chat.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(UtteranceHeader); err != nil {
		return fmt.Errorf("write utterance header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Speaker,
			strconv.Itoa(rec.AgeMonths),
			rec.Utterance,
			rec.Morphology,
			rec.Grammar,
			strconv.Itoa(rec.Words),
			strconv.Itoa(rec.Morphemes),
			strconv.Itoa(rec.Relations),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write utterance row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush utterances: %w", err)
	}
	return nil
}

// ReadUtterances parses a table written by WriteUtterances. source names
// the input in errors and in the records' provenance.
func ReadUtterances(r io.Reader, source string) ([]chat.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(UtteranceHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read utterance header %s: %w", source, err)
	}
	if !slices.Equal(header, UtteranceHeader) {
		return nil, fmt.Errorf("%w in %s: %v", ErrHeader, source, header)
	}

	var records []chat.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read utterances %s: %w", source, err)
		}
		line, _ := cr.FieldPos(0)
		rec, err := parseUtterance(row)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, line, err)
		}
		rec.Source = source
		rec.Line = line
		records = append(records, rec)
	}
	return records, nil
}

func parseUtterance(row []string) (chat.Record, error) {
	ints := make([]int, 4)
	for i, col := range []int{1, 5, 6, 7} {
		n, err := strconv.Atoi(row[col])
		if err != nil {
			return chat.Record{}, fmt.Errorf("column %s: %w", UtteranceHeader[col], err)
		}
		if n < 0 {
			return chat.Record{}, fmt.Errorf("column %s: negative value %d", UtteranceHeader[col], n)
		}
		ints[i] = n
	}
	return chat.Record{
		Speaker:    row[0],
		AgeMonths:  ints[0],
		Utterance:  row[2],
		Morphology: row[3],
		Grammar:    row[4],
		Words:      ints[1],
		Morphemes:  ints[2],
		Relations:  ints[3],
	}, nil
}
