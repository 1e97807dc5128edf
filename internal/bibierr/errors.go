// Package bibierr provides a structured, contextual error wrapper used
// across every I/O boundary in bibindex (block framing, the B-tree engine,
// the record file, ingestion).
package bibierr

import "fmt"

// Error pairs a human-readable context with the underlying cause, while
// still supporting errors.Is/errors.As through the wrapped chain.
type Error struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *Error) Unwrap() error {
	return e.Cause
}

// Wrap creates a contextual error. Returns nil if cause is nil, so callers
// can write `return bibierr.Wrap("...", err)` unconditionally.
func Wrap(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{
		Context: context,
		Cause:   cause,
	}
}
