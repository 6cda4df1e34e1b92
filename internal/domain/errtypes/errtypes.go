// Package errtypes defines the failure taxonomy surfaced at job boundaries.
package errtypes

import (
	"errors"
	"fmt"
)

// ErrEmptyArtifact marks a produced file with zero bytes. A zero-byte
// result is never valid.
var ErrEmptyArtifact = errors.New("artifact is empty")

// ProcessFailure wraps a non-zero exit from an external tool, carrying its
// accumulated stderr text for classification.
type ProcessFailure struct {
	Tool   string
	Stderr string
}

func (e *ProcessFailure) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with an error and no diagnostics", e.Tool)
	}
	return fmt.Sprintf("%s failed: %s", e.Tool, e.Stderr)
}

// StorageFailure wraps an unrecoverable filesystem error in the staging area.
type StorageFailure struct {
	Op  string
	Err error
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageFailure) Unwrap() error {
	return e.Err
}

// ValidationFailure marks a malformed or missing request field.
type ValidationFailure struct {
	Msg string
}

func (e *ValidationFailure) Error() string {
	return e.Msg
}

// InternalFailure wraps an unexpected fault that escaped a job and reached
// its goroutine boundary.
type InternalFailure struct {
	Reason string
}

func (e *InternalFailure) Error() string {
	return fmt.Sprintf("internal failure: %s", e.Reason)
}

// UnsupportedFormat marks an output format outside the supported set.
type UnsupportedFormat struct {
	Format string
}

func (e *UnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported output format %q", e.Format)
}
