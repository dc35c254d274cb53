package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Turn is one caregiver turn with its dependent tiers.
type Turn struct {
	Speaker string
	Text    string
	Mor     string
	Gra     string
}

// WriteTranscript writes a minimal transcript file made of the given turns
// and returns its path. Speaker defaults to MOT.
func WriteTranscript(t testing.TB, path string, turns ...Turn) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("@Begin\n@Participants:\tMOT Mother, CHI Target_Child\n")
	for _, turn := range turns {
		speaker := turn.Speaker
		if speaker == "" {
			speaker = "MOT"
		}
		b.WriteString("*" + speaker + ":\t" + turn.Text + "\n")
		if turn.Mor != "" {
			b.WriteString("%mor:\t" + turn.Mor + "\n")
		}
		if turn.Gra != "" {
			b.WriteString("%gra:\t" + turn.Gra + "\n")
		}
	}
	b.WriteString("@End\n")

	WriteText(t, path, b.String())
	return path
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
