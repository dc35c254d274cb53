package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.csv")

	err := WriteAtomic(dst, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello world")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: got %q", got)
	}
	assertOnlyFiles(t, dir, "out.csv")
}

func TestWriteAtomicKeepsOldContentOnFailure(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteAtomic(dst, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "old" {
		t.Fatalf("destination changed: %q", got)
	}
	assertOnlyFiles(t, dir, "out.csv")
}

func TestCommitAllAfterStaging(t *testing.T) {
	dir := t.TempDir()
	write := func(s string) func(io.Writer) error {
		return func(w io.Writer) error {
			_, err := io.WriteString(w, s)
			return err
		}
	}

	a, err := Stage(filepath.Join(dir, "a.csv"), 0o644, write("a"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Stage(filepath.Join(dir, "b.csv"), 0o644, write("b"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(a.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("staged output visible before commit: %v", err)
	}

	if err := CommitAll([]*Staged{a, b}); err != nil {
		t.Fatal(err)
	}
	assertOnlyFiles(t, dir, "a.csv", "b.csv")
}

func TestCommitAllRestoresOnFailure(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(first, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	blocked := filepath.Join(dir, "b.csv")
	if err := os.MkdirAll(filepath.Join(blocked, "child"), 0o755); err != nil {
		t.Fatal(err)
	}
	write := func(s string) func(io.Writer) error {
		return func(w io.Writer) error {
			_, err := io.WriteString(w, s)
			return err
		}
	}

	a, err := Stage(first, 0o644, write("new a"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Stage(blocked, 0o644, write("new b"))
	if err != nil {
		t.Fatal(err)
	}
	c, err := Stage(filepath.Join(dir, "c.csv"), 0o644, write("new c"))
	if err != nil {
		t.Fatal(err)
	}

	err = CommitAll([]*Staged{a, b, c})
	if !errors.Is(err, ErrDestinationIsDir) {
		t.Fatalf("err = %v, want ErrDestinationIsDir", err)
	}
	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old" {
		t.Fatalf("a.csv = %q, want previous content", data)
	}
	assertOnlyFiles(t, dir, "a.csv", "b.csv")
}

func TestCommitAllReplacesExistingOutputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Stage(path, 0o644, func(w io.Writer) error {
		_, err := io.WriteString(w, "new")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := CommitAll([]*Staged{s}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Fatalf("a.csv = %q, want new", data)
	}
	assertOnlyFiles(t, dir, "a.csv")
}

func TestDiscardAllRemovesTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Stage(filepath.Join(dir, "a.csv"), 0o644, func(io.Writer) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	DiscardAll([]*Staged{s})
	assertOnlyFiles(t, dir)
}

func TestLockDirIsExclusive(t *testing.T) {
	dir := t.TempDir()

	lock, err := LockDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Unlock()

	if _, err := LockDir(dir); !errors.Is(err, ErrLocked) {
		t.Fatalf("second lock err = %v, want ErrLocked", err)
	}

	if err := lock.Unlock(); err != nil {
		t.Fatal(err)
	}
	again, err := LockDir(dir)
	if err != nil {
		t.Fatalf("relock after unlock: %v", err)
	}
	_ = again.Unlock()
}

func assertOnlyFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	for _, e := range entries {
		if e.Name() == LockName {
			continue
		}
		if !want[e.Name()] {
			t.Fatalf("unexpected file %s", e.Name())
		}
		delete(want, e.Name())
	}
	if len(want) != 0 {
		t.Fatalf("missing files: %v", want)
	}
}
