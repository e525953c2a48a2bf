package deploy

import (
	"context"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"

	"github.com/thoreinstein/deploytool/internal/backup"
	"github.com/thoreinstein/deploytool/internal/config"
	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/fileset"
	"github.com/thoreinstein/deploytool/internal/logging"
)

// Engine runs deploys against a filesystem.
type Engine struct {
	fs      afero.Fs
	clock   clockwork.Clock
	out     io.Writer
	version string
}

// Option configures an Engine.
type Option func(*Engine)

// WithFs sets the filesystem both trees and the backup root live on.
func WithFs(fsys afero.Fs) Option {
	return func(e *Engine) {
		e.fs = fsys
	}
}

// WithClock sets the clock used to name backup directories.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithOutput sets where per-file progress lines are printed.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
	}
}

// WithVersion sets the tool version written into each snapshot manifest.
func WithVersion(v string) Option {
	return func(e *Engine) {
		e.version = v
	}
}

// NewEngine creates an Engine on the OS filesystem and real clock.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		fs:      afero.NewOsFs(),
		clock:   clockwork.NewRealClock(),
		out:     io.Discard,
		version: "dev",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// fsFor returns the filesystem a run may touch. Dry runs get a read-only view
// so a stray write fails instead of changing disk.
func (e *Engine) fsFor(cfg config.RunConfig) afero.Fs {
	if cfg.DryRun {
		return afero.NewReadOnlyFs(e.fs)
	}
	return e.fs
}

// Run executes a full deploy: it validates and resolves the roots, enumerates
// both trees, snapshots them, syncs and optionally prunes.
//
// A nil summary is returned when the run stops before any file is copied
// (config, enumeration or backup failures). A sync failure returns the
// partial summary together with the error; prune is not attempted. Prune
// failures are reported in the summary and do not fail the run.
func (e *Engine) Run(ctx context.Context, cfg config.RunConfig) (*Summary, error) {
	logger := logging.FromContext(ctx)

	// Validation only reads, and symlinks resolve on the unwrapped filesystem.
	// Every later phase works on the real roots.
	cfg, err := config.ResolveRoots(e.fs, cfg)
	if err != nil {
		return nil, err
	}

	fsys := e.fsFor(cfg)
	srcFiles, err := fileset.Enumerate(fsys, cfg.SourceRoot, cfg.FileExtension)
	if err != nil {
		return nil, err
	}
	dstFiles, err := fileset.Enumerate(fsys, cfg.DestRoot, cfg.FileExtension)
	if err != nil {
		return nil, err
	}
	logger.Info("enumerated files",
		"ext", cfg.FileExtension,
		"source_files", len(srcFiles),
		"dest_files", len(dstFiles))

	snap := backup.NewSnapshotter(
		backup.WithFs(fsys),
		backup.WithClock(e.clock),
		backup.WithOutput(e.out),
		backup.WithVersion(e.version),
	)
	backupDir, err := snap.Snapshot(ctx, cfg, srcFiles, dstFiles)
	if err != nil {
		return nil, err
	}

	decisions, err := e.Sync(ctx, cfg, srcFiles)
	if err != nil {
		s := Summarize(cfg, decisions, nil, nil, backupDir)
		return &s, err
	}

	var (
		pruned   []string
		failures []error
	)
	if cfg.Prune {
		var perr error
		pruned, perr = e.Prune(ctx, cfg, srcFiles, dstFiles)
		var pruneErr *PruneError
		if errors.As(perr, &pruneErr) {
			failures = pruneErr.Failures
		}
	}

	s := Summarize(cfg, decisions, pruned, failures, backupDir)
	logger.Info("deploy finished",
		"copied", s.Copied,
		"skipped", s.Skipped,
		"pruned", s.Pruned,
		"dry_run", cfg.DryRun)
	return &s, nil
}
