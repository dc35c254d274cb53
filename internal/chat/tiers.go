package chat

import (
	"regexp"
	"strings"

	"brentmlu/internal/textutil"
)

// Caregiver labels recognised as the target speaker.
var caregiverLabels = []string{"*MOT:", "*EVA:", "*OTH:"}

// Markers for sung, read, whispered or voice-altered speech.
var affectedMarkers = []string{"[=! voice]", "[=! read]", "[=! sung]", "[=! whispered]"}

const (
	morphologyTier = "%mor"
	grammarTier    = "%gra:"
)

// motherRules clean a caregiver utterance line before word tokenization.
// Tier labels go before the bare-colon rule, ampersand and @ codes before
// digit runs.
var motherRules = textutil.Pipeline{
	textutil.Strip("brackets", `\[.*?\]`),
	textutil.Strip("parens", `\(.*?\)`),
	textutil.StripLiteral("label-mot", "*MOT:"),
	textutil.StripLiteral("label-eva", "*EVA:"),
	textutil.StripLiteral("label-oth", "*OTH:"),
	textutil.Strip("at-code", `@\w+`),
	textutil.Strip("amp-event", `&=\w+`),
	textutil.Strip("amp-fragment", `&\w+`),
	textutil.StripLiteral("untranscribed", "www"),
	textutil.StripLiteral("unintelligible", "xxx"),
	textutil.Strip("digits", `\d+`),
	textutil.Strip("compound-punct", `[_+:]`),
}

// morphologyRules clean a %mor line before morphemes are counted. The
// compound rule keeps the word character that precedes "+pos|" so the
// compound head survives as a lemma.
var morphologyRules = textutil.Pipeline{
	textutil.Strip("label", `%mor:\s*`),
	textutil.StripLiteral("comma", "cm|cm"),
	textutil.StripLiteral("quote-begin", "bq|bq"),
	textutil.StripLiteral("quote-end", "eq|eq"),
	textutil.Rewrite("compound", `(\w)\+\w+\|`, "$1"),
	textutil.Strip("punct", `[!.?_]`),
}

var grammarRules = textutil.Pipeline{
	textutil.Strip("punct-relation", `\d+\|\d+\|PUNCT`),
}

var (
	wordPattern     = regexp.MustCompile(`[a-zA-Z']+`)
	relationPattern = regexp.MustCompile(`\d+\|\d+\|\w+`)
)

func isCaregiverTurn(line string) bool {
	for _, label := range caregiverLabels {
		if strings.HasPrefix(line, label) {
			return true
		}
	}
	return false
}

// isOtherSpeakerTurn matches *CHI, *MAG and every other non-caregiver
// speaker line. Callers check isCaregiverTurn first.
func isOtherSpeakerTurn(line string) bool {
	return strings.HasPrefix(line, "*")
}

func isAffected(line string) bool {
	for _, marker := range affectedMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

func isDependentOrHeaderLine(line string) bool {
	return strings.HasPrefix(line, "%") || strings.HasPrefix(line, "@")
}

// countMorphemes counts one morpheme per '|' or '-' in s.
func countMorphemes(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '|' || s[i] == '-' {
			n++
		}
	}
	return n
}
