package mlu

import (
	"fmt"
	"strings"

	"brentmlu/internal/chat"
)

// Metric selects the length unit of an utterance.
type Metric int

const (
	Words Metric = iota
	Morphemes
	Relations
)

// ParseMetric accepts the unit name or its column name (mlu, mlum, mlug).
func ParseMetric(value string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "word", "words", "mlu":
		return Words, nil
	case "morpheme", "morphemes", "mlum", "":
		return Morphemes, nil
	case "relation", "relations", "mlug":
		return Relations, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", value)
	}
}

func (m Metric) String() string {
	switch m {
	case Words:
		return "word"
	case Morphemes:
		return "morpheme"
	case Relations:
		return "relation"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// Column is the statistics column header for the metric.
func (m Metric) Column() string {
	switch m {
	case Words:
		return "mlu"
	case Relations:
		return "mlug"
	default:
		return "mlum"
	}
}

// Length returns the record's length under the metric.
func (m Metric) Length(rec chat.Record) float64 {
	switch m {
	case Words:
		return float64(rec.Words)
	case Relations:
		return float64(rec.Relations)
	default:
		return float64(rec.Morphemes)
	}
}
