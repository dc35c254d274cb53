package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedHeader indicates a section header without a parsable
	// caregiver code or age.
	ErrMalformedHeader = errors.New("malformed section header")

	// ErrNoSection indicates a caregiver turn that appeared before any
	// section header.
	ErrNoSection = errors.New("caregiver turn outside any section")
)

// LineError ties an extraction failure to its source line. Line errors drop
// the affected records; they never abort a run.
type LineError struct {
	Source string
	Line   int
	Text   string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.Source, e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error { return e.Err }
