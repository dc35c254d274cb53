package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"brentmlu/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "brentmlu", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) {
		t.Fatalf("expected absolute output dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected empty log dir, got %q", cfg.Paths.LogDir)
	}
	if cfg.Extract.Workers != runtime.NumCPU() {
		t.Fatalf("workers = %d, want %d", cfg.Extract.Workers, runtime.NumCPU())
	}
	if len(cfg.Extract.Extensions) != 1 || cfg.Extract.Extensions[0] != ".cha" {
		t.Fatalf("extensions = %v", cfg.Extract.Extensions)
	}
	if cfg.MLU.Metric != "morpheme" || cfg.MLU.EarlyAgeMonths != 12 {
		t.Fatalf("unexpected mlu defaults: %+v", cfg.MLU)
	}
	if cfg.Extract.LegacyTurnFlush {
		t.Fatal("expected trailing turns to be flushed by default")
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "brentmlu.toml")

	type payload struct {
		Paths struct {
			OutputDir string `toml:"output_dir"`
		} `toml:"paths"`
		Extract struct {
			Extensions      []string `toml:"extensions"`
			Workers         int      `toml:"workers"`
			LegacyTurnFlush bool     `toml:"legacy_turn_flush"`
		} `toml:"extract"`
		MLU struct {
			Metric         string `toml:"metric"`
			EarlyAgeMonths int    `toml:"early_age_months"`
		} `toml:"mlu"`
		Export struct {
			SQLitePath string `toml:"sqlite_path"`
		} `toml:"export"`
	}
	custom := payload{}
	custom.Paths.OutputDir = filepath.Join(tempDir, "out")
	custom.Extract.Extensions = []string{"CHA", ".cha", " txt "}
	custom.Extract.Workers = 3
	custom.Extract.LegacyTurnFlush = true
	custom.MLU.Metric = " Relation "
	custom.MLU.EarlyAgeMonths = 9
	custom.Export.SQLitePath = filepath.Join(tempDir, "db", "brent.db")
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if got := strings.Join(cfg.Extract.Extensions, ","); got != ".cha,.txt" {
		t.Fatalf("extensions = %q", got)
	}
	if cfg.Extract.Workers != 3 || !cfg.Extract.LegacyTurnFlush {
		t.Fatalf("unexpected extract section: %+v", cfg.Extract)
	}
	if cfg.MLU.Metric != "relation" || cfg.MLU.EarlyAgeMonths != 9 {
		t.Fatalf("unexpected mlu section: %+v", cfg.MLU)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, filepath.Dir(cfg.Export.SQLitePath)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if got := cfg.OutputPath("x.csv"); got != filepath.Join(custom.Paths.OutputDir, "x.csv") {
		t.Fatalf("OutputPath = %q", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"metric", func(c *config.Config) { c.MLU.Metric = "syllable" }, "mlu.metric"},
		{"early age", func(c *config.Config) { c.MLU.EarlyAgeMonths = 0 }, "early_age_months"},
		{"workers", func(c *config.Config) { c.Extract.Workers = -1 }, "extract.workers"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLogLevelFallsBackToEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "brentmlu.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nlevel = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BRENTMLU_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.Logging.Level)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(target); err != nil || !exists {
		t.Fatalf("Load(sample) exists=%v err=%v", exists, err)
	}
}
