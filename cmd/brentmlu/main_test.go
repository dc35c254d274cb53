package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brentmlu/internal/config"
	"brentmlu/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	inputDir   string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	inputDir := filepath.Join(base, "transcripts")
	testsupport.WriteTranscript(t, filepath.Join(inputDir, "c1-09.cha"),
		testsupport.Turn{Text: "the dog .", Mor: "det|the n|dog .", Gra: "1|2|DET 2|0|ROOT 3|2|PUNCT"},
		testsupport.Turn{Text: "ball .", Mor: "n|ball .", Gra: "1|0|ROOT 2|1|PUNCT"},
	)
	testsupport.WriteTranscript(t, filepath.Join(inputDir, "c2-14.cha"),
		testsupport.Turn{Text: "a big dog .", Mor: "det|a adj|big n|dog .", Gra: "1|3|DET 2|3|MOD 3|0|ROOT"},
	)

	return &cliTestEnv{cfg: cfg, configPath: configPath, inputDir: inputDir}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\noutput_dir = %q\nlog_dir = %q\n\n[extract]\nworkers = %d\n\n[mlu]\nmetric = %q\n\n[export]\nsqlite_path = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.OutputDir,
		cfg.Paths.LogDir,
		cfg.Extract.Workers,
		cfg.MLU.Metric,
		cfg.Export.SQLitePath,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIRunWritesOutputs(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSQLiteExport())

	out, _, err := runCLI(t, []string{"run", "--json", env.inputDir}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var summary runSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode run summary %q: %v", out, err)
	}
	if summary.Files != 2 || summary.Records != 3 {
		t.Fatalf("summary = %+v, want 2 files and 3 records", summary)
	}
	if summary.Metric != "morpheme" || summary.SQLite == "" {
		t.Fatalf("summary = %+v, want morpheme metric with sqlite export", summary)
	}
	for _, name := range []string{"brent_data_cdi.csv", "brent_mlum.csv"} {
		if _, err := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	out, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	if !strings.Contains(out, summary.RunID) {
		t.Fatalf("runs list missing %s:\n%s", summary.RunID, out)
	}

	out, _, err = runCLI(t, []string{"show", "--run", summary.RunID, "--speaker", "c2", "--lemma", "ball"}, env.configPath)
	if err != nil {
		t.Fatalf("show --run: %v", err)
	}
	if !strings.Contains(out, "c2\tball\t0\t0\t") || !strings.Contains(out, "\tNA\t") {
		t.Fatalf("show --run output:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"runs", "rm", summary.RunID}, env.configPath)
	if err != nil {
		t.Fatalf("runs rm: %v", err)
	}
	if !strings.Contains(out, "Removed run") {
		t.Fatalf("runs rm output: %q", out)
	}
}

func TestCLIShowAggregatesUtteranceTable(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"extract", env.inputDir}, env.configPath); err != nil {
		t.Fatalf("extract: %v", err)
	}
	table := filepath.Join(env.cfg.Paths.OutputDir, "brent_data_cdi.csv")

	out, _, err := runCLI(t, []string{"show", "--metric", "word", "--speaker", "c1", table}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "mom\tword\ttotalal\ttotale\tmlu\tinstances\tisolal\tisole" {
		t.Fatalf("header = %q", lines[0])
	}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, "c1\t") {
			t.Fatalf("unexpected row %q", line)
		}
	}
	if !strings.Contains(out, "c1\tball\t1\t1\t1\t1\t1\t1") {
		t.Fatalf("missing c1/ball row:\n%s", out)
	}
}

func TestCLIShowRequiresOneSource(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"show"}, env.configPath); err == nil {
		t.Fatal("expected error without a table or --run")
	}
}

func TestCLIMLUWritesStatistics(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"extract", env.inputDir}, env.configPath); err != nil {
		t.Fatalf("extract: %v", err)
	}
	table := filepath.Join(env.cfg.Paths.OutputDir, "brent_data_cdi.csv")
	out, _, err := runCLI(t, []string{"mlu", "--metric", "relation", table}, env.configPath)
	if err != nil {
		t.Fatalf("mlu: %v", err)
	}
	if !strings.Contains(out, "brent_mlug.csv") {
		t.Fatalf("mlu output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, "brent_mlug.csv")); err != nil {
		t.Fatalf("expected brent_mlug.csv: %v", err)
	}
}

func TestCLIConcatAndLemmas(t *testing.T) {
	env := setupCLITestEnv(t)
	corpusPath := filepath.Join(t.TempDir(), "corpus.cha")

	out, _, err := runCLI(t, []string{"concat", "--out", corpusPath, env.inputDir}, env.configPath)
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	if !strings.Contains(out, "2 file(s)") {
		t.Fatalf("concat output: %q", out)
	}

	lemmasPath := filepath.Join(t.TempDir(), "lemmas.txt")
	if _, _, err := runCLI(t, []string{"lemmas", "--out", lemmasPath, corpusPath}, env.configPath); err != nil {
		t.Fatalf("lemmas: %v", err)
	}
	data, err := os.ReadFile(lemmasPath)
	if err != nil {
		t.Fatalf("read lemmas: %v", err)
	}
	got := strings.Fields(string(data))
	want := []string{"the", "dog", "ball", "a", "big"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("lemmas = %v, want %v", got, want)
	}
}

func TestCLIRunMissingInput(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"run", filepath.Join(env.inputDir, "missing")}, env.configPath)
	if err == nil {
		t.Fatal("expected error for missing input")
	}
	if _, statErr := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, "brent_data_cdi.csv")); !os.IsNotExist(statErr) {
		t.Fatalf("utterance table should not exist, stat err = %v", statErr)
	}
}
