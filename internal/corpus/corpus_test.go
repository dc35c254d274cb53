package corpus

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"brentmlu/internal/chat"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWalkFiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "c2", "c2-10.cha"), "")
	writeFile(t, filepath.Join(root, "c1", "c1-09.CHA"), "")
	writeFile(t, filepath.Join(root, "c1", "notes.txt"), "")

	files, err := Walk(root, []string{".cha"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []string{
		filepath.Join(root, "c1", "c1-09.CHA"),
		filepath.Join(root, "c2", "c2-10.cha"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestWalkSkipsExcludedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "c1-09.cha"), "")
	corpusFile := filepath.Join(root, "brent_corpus.cha")
	writeFile(t, corpusFile, "")

	files, err := Walk(root, []string{".cha"}, corpusFile)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []string{filepath.Join(root, "c1-09.cha")}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestWalkEmptyDirectory(t *testing.T) {
	_, err := Walk(t.TempDir(), []string{".cha"})
	if !errors.Is(err, ErrNoTranscripts) {
		t.Fatalf("err = %v, want ErrNoTranscripts", err)
	}
}

func TestConcatenateTagsEachFile(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "c1-09.cha")
	b := filepath.Join(root, "c2-11.cha")
	writeFile(t, a, "*MOT:\thi .\n")
	writeFile(t, b, "*MOT:\tbye .\n")

	var buf bytes.Buffer
	if err := Concatenate(&buf, []string{a, b}); err != nil {
		t.Fatalf("Concatenate: %v", err)
	}
	want := "---c1-09.cha\n*MOT:\thi .\n\n\n---c2-11.cha\n*MOT:\tbye .\n\n\n"
	if buf.String() != want {
		t.Fatalf("corpus = %q, want %q", buf.String(), want)
	}
}

func TestConcatenateMissingFile(t *testing.T) {
	var buf bytes.Buffer
	err := Concatenate(&buf, []string{filepath.Join(t.TempDir(), "gone.cha")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestCollectLemmasFirstSeenOrder(t *testing.T) {
	input := strings.Join([]string{
		"*MOT:\tthe dog sees the cat .",
		"%mor:\tdet|the n|dog v|see-3S det|the n|cat .",
		"%gra:\t1|2|DET",
		"%mor:\tn|cat pro|it .",
	}, "\n")

	lemmas, err := CollectLemmas(strings.NewReader(input))
	if err != nil {
		t.Fatalf("CollectLemmas: %v", err)
	}
	want := []string{"the", "dog", "see", "cat", "it"}
	if !reflect.DeepEqual(lemmas, want) {
		t.Fatalf("lemmas = %v, want %v", lemmas, want)
	}

	var buf bytes.Buffer
	if err := WriteLemmas(&buf, lemmas); err != nil {
		t.Fatalf("WriteLemmas: %v", err)
	}
	if buf.String() != "the\ndog\nsee\ncat\nit\n" {
		t.Fatalf("written = %q", buf.String())
	}
}

func TestMapOrthography(t *testing.T) {
	records := []chat.Record{{
		Speaker:    "c1",
		AgeMonths:  9,
		Utterance:  "I wanna the ball extra ",
		Morphology: "pro|I v|want~inf|to det|the n|ball ",
	}}

	got := MapOrthography(records)
	want := []Token{
		{Speaker: "c1", AgeMonths: 9, Word: "I", Lemma: "I", POS: "pro"},
		{Speaker: "c1", AgeMonths: 9, Word: "wanna", Lemma: "want to", POS: "v~inf"},
		{Speaker: "c1", AgeMonths: 9, Word: "the", Lemma: "the", POS: "det"},
		{Speaker: "c1", AgeMonths: 9, Word: "ball", Lemma: "ball", POS: "n"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokens = %+v\nwant %+v", got, want)
	}
}
