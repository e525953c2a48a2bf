package config

import (
	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/paths"
)

// RunConfig is the immutable configuration of a single deploy run.
// It is created once at startup and passed by value to every component.
type RunConfig struct {
	// SourceRoot is the absolute path files are pushed from.
	SourceRoot string

	// DestRoot is the absolute path files are pushed to. Sync and prune both
	// operate on this root.
	DestRoot string

	// BackupRoot is the absolute path under which each run's snapshot lives.
	BackupRoot string

	// FileExtension is lowercase and dot-prefixed, e.g. ".html".
	FileExtension string

	DryRun  bool
	Verbose bool
	Prune   bool
	Force   bool
}

// RunFlags carries the per-invocation switches that are never read from a
// config file.
type RunFlags struct {
	DryRun  bool
	Verbose bool
}

// RunConfig resolves c into a RunConfig. Roots are expanded and made
// absolute; the extension is normalized.
func (c *Config) RunConfig(flags RunFlags) (RunConfig, error) {
	src, err := paths.Resolve(c.Source)
	if err != nil {
		return RunConfig{}, errors.NewPhaseError(errors.PhaseConfig, "source", err)
	}
	dst, err := paths.Resolve(c.Dest)
	if err != nil {
		return RunConfig{}, errors.NewPhaseError(errors.PhaseConfig, "dest", err)
	}
	backup, err := paths.Resolve(c.Backup)
	if err != nil {
		return RunConfig{}, errors.NewPhaseError(errors.PhaseConfig, "backup", err)
	}
	ext, err := NormalizeExtension(c.FileType)
	if err != nil {
		return RunConfig{}, errors.NewPhaseError(errors.PhaseConfig, "file_type", err)
	}

	return RunConfig{
		SourceRoot:    src,
		DestRoot:      dst,
		BackupRoot:    backup,
		FileExtension: ext,
		DryRun:        flags.DryRun,
		Verbose:       flags.Verbose,
		Prune:         c.Prune,
		Force:         c.Force,
	}, nil
}
