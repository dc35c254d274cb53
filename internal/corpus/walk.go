package corpus

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"brentmlu/internal/chat"
)

// ErrNoTranscripts indicates a directory without matching transcript files.
var ErrNoTranscripts = errors.New("no transcript files found")

// Walk returns the transcript files under root whose extension is in exts,
// sorted by path. Extensions compare case-insensitively. Files in exclude,
// such as a corpus previously concatenated into root, are skipped.
func Walk(root string, exts []string, exclude ...string) ([]string, error) {
	skip := make(map[string]struct{}, len(exclude))
	for _, path := range exclude {
		if abs, err := filepath.Abs(path); err == nil {
			skip[abs] = struct{}{}
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if abs, err := filepath.Abs(path); err == nil {
			if _, ok := skip[abs]; ok {
				return nil
			}
		}
		if hasExtension(path, exts) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoTranscripts, root)
	}
	slices.Sort(files)
	return files, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range exts {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// Concatenate writes every file to w, each preceded by its section header
// line and followed by a blank line.
func Concatenate(w io.Writer, files []string) error {
	for _, path := range files {
		if err := appendFile(w, path); err != nil {
			return err
		}
	}
	return nil
}

func appendFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open transcript %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.WriteString(w, chat.SectionHeader(filepath.Base(path))+"\n"); err != nil {
		return fmt.Errorf("write section header: %w", err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copy transcript %s: %w", path, err)
	}
	if _, err := io.WriteString(w, "\n\n"); err != nil {
		return fmt.Errorf("write section trailer: %w", err)
	}
	return nil
}
