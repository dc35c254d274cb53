package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brentmlu/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckWritableTarget_Missing(t *testing.T) {
	result := CheckWritableTarget("out", filepath.Join(t.TempDir(), "a", "b"))
	if !result.Passed {
		t.Fatalf("expected pass for creatable dir, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "will be created") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckInputReadable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "c1-09.cha")
	if err := os.WriteFile(file, []byte("@Begin\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{dir, file} {
		if r := CheckInputReadable("input", path); !r.Passed {
			t.Fatalf("expected %s readable: %s", path, r.Detail)
		}
	}
	if r := CheckInputReadable("input", filepath.Join(dir, "missing.cha")); r.Passed {
		t.Fatal("expected failure for missing input")
	}
}

func TestRunAllReportsFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSQLiteExport())

	results := RunAll(cfg, filepath.Join(t.TempDir(), "missing"))
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	err := Err(results)
	if !errors.Is(err, ErrPreflight) {
		t.Fatalf("err = %v, want ErrPreflight", err)
	}
	if !strings.Contains(err.Error(), "Input") {
		t.Fatalf("error %q does not name the input check", err)
	}

	input := t.TempDir()
	if err := Err(RunAll(cfg, input)); err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
}
