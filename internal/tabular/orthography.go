package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"brentmlu/internal/corpus"
)

// OrthographyHeader is the header row of the orthography table.
var OrthographyHeader = []string{"mom", "age", "utter", "lemma", "pos"}

// WriteOrthography writes one row per word/lemma pair.
func WriteOrthography(w io.Writer, tokens []corpus.Token) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(OrthographyHeader); err != nil {
		return fmt.Errorf("write orthography header: %w", err)
	}
	for _, tok := range tokens {
		row := []string{tok.Speaker, strconv.Itoa(tok.AgeMonths), tok.Word, tok.Lemma, tok.POS}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write orthography row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush orthography: %w", err)
	}
	return nil
}
