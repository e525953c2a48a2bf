// Package errors provides error handling conventions for the deploytool CLI.
//
// This package re-exports the wrapping helpers of
// [github.com/cockroachdb/errors], defines the sentinel errors used by root
// validation, the [PhaseError] type that tags a failure with the run phase it
// happened in, and an [ExitError] type for CLI exit code handling.
//
// # Phases
//
// Every failure the deploy pipeline reports is a [PhaseError]:
//
//   - PhaseConfig: invalid roots (missing, identical, nested)
//   - PhaseEnumerate: a root could not be walked
//   - PhaseBackup: a file could not be copied into the backup
//   - PhaseSync: a file could not be copied into the destination
//   - PhasePrune: a destination file or directory could not be removed
//
// Use [PhaseOf] to recover the phase of an arbitrary error chain:
//
//	if errors.PhaseOf(err) == errors.PhaseBackup {
//	    // nothing in the destination was touched
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (bad roots, invalid flags, config)
//   - ExitSystem (2): System-related error (I/O during enumerate, backup, sync)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports unwrapping via [errors.Unwrap] and [errors.As]:
//
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
