package corpus

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const morphologyMarker = "%mor:"

var morphEntryPattern = regexp.MustCompile(`\|(\w+)`)

// CollectLemmas returns the distinct lemma tokens of every morphology tier
// line in r, in first-seen order. Tokens keep their case.
func CollectLemmas(r io.Reader) ([]string, error) {
	var lemmas []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, morphologyMarker) {
			continue
		}
		for _, m := range morphEntryPattern.FindAllStringSubmatch(line, -1) {
			if _, ok := seen[m[1]]; ok {
				continue
			}
			seen[m[1]] = struct{}{}
			lemmas = append(lemmas, m[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan corpus: %w", err)
	}
	return lemmas, nil
}

// WriteLemmas writes one lemma per line.
func WriteLemmas(w io.Writer, lemmas []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lemmas {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return fmt.Errorf("write lemmas: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write lemmas: %w", err)
	}
	return nil
}
