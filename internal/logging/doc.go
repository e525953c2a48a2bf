// Package logging provides structured logging for deploytool using slog.
//
// Logs go to stderr so that the run report on stdout stays clean. The text
// handler colorizes levels when the output is a terminal; the JSON handler is
// used for --log-format=json and for --log-file.
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Pipeline code retrieves the logger with [FromContext], which falls back to
// [slog.Default] when none was attached.
//
// For tests, use [ForTest] to capture log output via the testing framework.
package logging
