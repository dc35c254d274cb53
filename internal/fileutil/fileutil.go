package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockName is the lock file created in locked output directories.
const LockName = ".brentmlu.lock"

// ErrLocked indicates another process holds the directory lock.
var ErrLocked = errors.New("output directory is locked by another run")

// Staged is an output written to a temporary file beside its destination
// and not yet renamed into place.
type Staged struct {
	tmpPath    string
	path       string
	backupPath string
}

// Stage writes the output produced by fn to a temporary file in the
// directory of path. Nothing is visible at path until Commit.
func Stage(path string, mode os.FileMode, fn func(io.Writer) error) (*Staged, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	staged := &Staged{tmpPath: tmp.Name(), path: path}

	if err := fn(tmp); err != nil {
		_ = tmp.Close()
		staged.Discard()
		return nil, err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		staged.Discard()
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		staged.Discard()
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	return staged, nil
}

// Path returns the final destination.
func (s *Staged) Path() string { return s.path }

// Commit renames the temporary file onto the destination.
func (s *Staged) Commit() error {
	if err := os.Rename(s.tmpPath, s.path); err != nil {
		s.Discard()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Discard removes the temporary file. It is safe to call after Commit.
func (s *Staged) Discard() {
	_ = os.Remove(s.tmpPath)
}

// ErrDestinationIsDir indicates an output path occupied by a directory.
var ErrDestinationIsDir = errors.New("destination is a directory")

// CommitAll renames every staged output into place. Existing destinations
// are moved aside first; if any rename fails, the outputs already committed
// are removed and the previous files restored, so either every output is
// replaced or none is.
func CommitAll(staged []*Staged) error {
	var done []*Staged
	for i, s := range staged {
		if err := s.commitWithBackup(); err != nil {
			for _, rest := range staged[i:] {
				rest.Discard()
			}
			rollback(done)
			return fmt.Errorf("commit %s: %w", s.path, err)
		}
		done = append(done, s)
	}
	for _, s := range done {
		if s.backupPath != "" {
			_ = os.Remove(s.backupPath)
		}
	}
	return nil
}

func (s *Staged) commitWithBackup() error {
	info, err := os.Lstat(s.path)
	switch {
	case err == nil:
		if info.IsDir() {
			return fmt.Errorf("%w: %s", ErrDestinationIsDir, s.path)
		}
		backup := s.tmpPath + ".bak"
		if err := os.Rename(s.path, backup); err != nil {
			return fmt.Errorf("back up existing output: %w", err)
		}
		s.backupPath = backup
	case !os.IsNotExist(err):
		return fmt.Errorf("stat destination: %w", err)
	}

	if err := os.Rename(s.tmpPath, s.path); err != nil {
		s.restore()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// restore moves the backed up destination back into place.
func (s *Staged) restore() {
	if s.backupPath == "" {
		return
	}
	_ = os.Rename(s.backupPath, s.path)
	s.backupPath = ""
}

func rollback(done []*Staged) {
	for i := len(done) - 1; i >= 0; i-- {
		s := done[i]
		if s.backupPath != "" {
			s.restore()
			continue
		}
		_ = os.Remove(s.path)
	}
}

// DiscardAll removes every staged temporary file.
func DiscardAll(staged []*Staged) {
	for _, s := range staged {
		s.Discard()
	}
}

// WriteAtomic stages and commits a single output.
func WriteAtomic(path string, fn func(io.Writer) error) error {
	staged, err := Stage(path, 0o644, fn)
	if err != nil {
		return err
	}
	return staged.Commit()
}

// LockDir acquires an exclusive lock on dir without blocking. The caller
// releases it with Unlock.
func LockDir(dir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, LockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return lock, nil
}
