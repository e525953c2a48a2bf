package config

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/deploytool/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidFileType indicates the file extension is empty or malformed.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrNegativeKeep indicates keep_backups is below zero.
	ErrNegativeKeep = errors.New("keep_backups must be >= 0")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	for _, f := range []struct {
		field, value string
	}{
		{"source", cfg.Source},
		{"dest", cfg.Dest},
		{"backup", cfg.Backup},
	} {
		if err := validatePath(f.value); err != nil {
			errs = append(errs, &PathError{Field: f.field, Path: f.value, Err: err})
		}
	}

	if _, err := NormalizeExtension(cfg.FileType); err != nil {
		errs = append(errs, err)
	}

	if cfg.KeepBackups < 0 {
		errs = append(errs, ErrNegativeKeep)
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists.
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	if filepath.Clean(path) == "" {
		return ErrInvalidPath
	}
	return nil
}

// NormalizeExtension lowercases ext and ensures a single leading dot:
// "HTML", ".Html" and "html" all become ".html".
func NormalizeExtension(ext string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(ext))
	e = strings.TrimPrefix(e, ".")
	if e == "" || strings.ContainsAny(e, `/\`) {
		return "", errors.Wrapf(ErrInvalidFileType, "%q", ext)
	}
	return "." + e, nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
