package corpus

import (
	"regexp"
	"strings"

	"brentmlu/internal/chat"
)

var posPattern = regexp.MustCompile(`([a-zA-Z0-9:]+)\|`)

// Token pairs one utterance word with its morphology entry.
type Token struct {
	Speaker   string
	AgeMonths int
	Word      string
	// Lemma joins the stems of a compound entry with spaces.
	Lemma string
	// POS is the entry's part of speech. Entries with two tags, such as
	// "v|want~inf|to", report both joined by '~'.
	POS string
}

// MapOrthography zips each record's utterance words with its morphology
// entries position by position. Extra words or entries are ignored.
func MapOrthography(records []chat.Record) []Token {
	var tokens []Token
	for _, rec := range records {
		words := strings.Fields(rec.Utterance)
		entries := strings.Fields(rec.Morphology)
		n := min(len(words), len(entries))
		for i := 0; i < n; i++ {
			tokens = append(tokens, Token{
				Speaker:   rec.Speaker,
				AgeMonths: rec.AgeMonths,
				Word:      words[i],
				Lemma:     entryLemma(entries[i]),
				POS:       entryPOS(entries[i]),
			})
		}
	}
	return tokens
}

func entryLemma(entry string) string {
	matches := morphEntryPattern.FindAllStringSubmatch(entry, -1)
	stems := make([]string, 0, len(matches))
	for _, m := range matches {
		stems = append(stems, m[1])
	}
	return strings.Join(stems, " ")
}

func entryPOS(entry string) string {
	matches := posPattern.FindAllStringSubmatch(entry, -1)
	switch len(matches) {
	case 0:
		return ""
	case 1:
		return matches[0][1]
	default:
		return matches[0][1] + "~" + matches[1][1]
	}
}
