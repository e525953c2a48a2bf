package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for root validation.
var (
	// ErrRootMissing indicates a configured root does not exist.
	ErrRootMissing = crdb.New("root does not exist")

	// ErrNotDirectory indicates a configured root is not a directory.
	ErrNotDirectory = crdb.New("root is not a directory")

	// ErrCollision indicates source and destination resolve to the same directory.
	ErrCollision = crdb.New("data collision detected")

	// ErrOverlap indicates one root is nested inside the other.
	ErrOverlap = crdb.New("data overlap detected")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")
)

// New returns an error with the given message and a stack trace.
func New(msg string) error { return crdb.New(msg) }

// Newf returns a formatted error with a stack trace.
func Newf(format string, args ...any) error { return crdb.Newf(format, args...) }

// Wrap annotates err with msg. It returns nil if err is nil.
func Wrap(err error, msg string) error { return crdb.Wrap(err, msg) }

// Wrapf annotates err with a formatted message. It returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	return crdb.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, reference error) bool { return crdb.Is(err, reference) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return crdb.As(err, target) }

// Join returns an error wrapping all non-nil errs, or nil if there are none.
func Join(errs ...error) error { return crdb.Join(errs...) }

// Mark makes err match reference under Is without changing its message.
func Mark(err, reference error) error { return crdb.Mark(err, reference) }

// WithHint attaches a user-facing hint to err.
func WithHint(err error, hint string) error { return crdb.WithHint(err, hint) }

// FlattenHints returns all hints attached to err's chain, joined by newlines.
func FlattenHints(err error) string { return crdb.FlattenHints(err) }

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	e := NewExitError(err, ExitUser)
	e.Suggestion = suggestion
	return e
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	e := NewExitError(err, ExitSystem)
	e.Suggestion = suggestion
	return e
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return NewUserError(err, "Check --source, --dest and your deploytool config file")
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ForExit converts a pipeline error into an ExitError. Invalid config files
// and config phase errors are user errors and carry their hint as the suggestion, if any; every other phase is
// a system error. Errors that already are an
// ExitError are returned unchanged.
func ForExit(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr
	}

	if Is(err, ErrInvalidConfig) {
		return NewConfigError(err)
	}

	switch PhaseOf(err) {
	case PhaseConfig:
		if hint := FlattenHints(err); hint != "" {
			return NewUserError(err, hint)
		}
		return NewConfigError(err)
	case PhaseBackup:
		return NewSystemError(err, "No destination file was modified; fix the backup location and retry")
	case PhaseSync:
		return NewSystemError(err, "Files copied before the failure remain; inspect MANIFEST.txt in the backup directory")
	default:
		return NewSystemError(err, "")
	}
}
