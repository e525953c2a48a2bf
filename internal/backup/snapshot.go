package backup

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"

	"github.com/thoreinstein/deploytool/internal/config"
	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/fileset"
	"github.com/thoreinstein/deploytool/internal/logging"
	"github.com/thoreinstein/deploytool/pkg/fileutil"
)

// maxSuffix bounds the search for a free snapshot directory name.
const maxSuffix = 1000

// Snapshotter copies both trees of a run into a fresh snapshot directory.
type Snapshotter struct {
	fs      afero.Fs
	clock   clockwork.Clock
	out     io.Writer
	version string
}

// Option configures a Snapshotter.
type Option func(*Snapshotter)

// WithFs sets the filesystem snapshots are read from and written to.
func WithFs(fsys afero.Fs) Option {
	return func(s *Snapshotter) {
		s.fs = fsys
	}
}

// WithClock sets the clock used to name snapshot directories.
func WithClock(c clockwork.Clock) Option {
	return func(s *Snapshotter) {
		s.clock = c
	}
}

// WithOutput sets where progress lines are printed.
func WithOutput(w io.Writer) Option {
	return func(s *Snapshotter) {
		s.out = w
	}
}

// WithVersion sets the tool version recorded in manifest.json.
func WithVersion(v string) Option {
	return func(s *Snapshotter) {
		s.version = v
	}
}

// NewSnapshotter creates a Snapshotter on the OS filesystem and real clock.
func NewSnapshotter(opts ...Option) *Snapshotter {
	s := &Snapshotter{
		fs:      afero.NewOsFs(),
		clock:   clockwork.NewRealClock(),
		out:     io.Discard,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot copies srcFiles from cfg.SourceRoot and dstFiles from cfg.DestRoot
// into a new directory under cfg.BackupRoot, then writes the manifest.
// It returns the snapshot directory.
//
// With cfg.DryRun the directory is computed and reported but nothing is
// written. Any failure is a PhaseBackup error and leaves a partial snapshot
// in place for inspection.
func (s *Snapshotter) Snapshot(ctx context.Context, cfg config.RunConfig, srcFiles, dstFiles fileset.FileSet) (string, error) {
	logger := logging.FromContext(ctx)
	now := s.clock.Now()

	dir, err := s.nextDir(cfg.BackupRoot, now.Format(StampLayout))
	if err != nil {
		return "", errors.NewPhaseError(errors.PhaseBackup, cfg.BackupRoot, err)
	}

	fmt.Fprintf(s.out, "Backup root %s\n", cfg.BackupRoot)
	fmt.Fprintf(s.out, " creating backup at %s\n", dir)
	logger.Info("creating backup", "dir", dir, "dry_run", cfg.DryRun)

	srcEntries, err := s.copyTree(cfg, "source", cfg.SourceRoot, filepath.Join(dir, SourceDir), srcFiles)
	if err != nil {
		return "", err
	}
	dstEntries, err := s.copyTree(cfg, "dest", cfg.DestRoot, filepath.Join(dir, DestDir), dstFiles)
	if err != nil {
		return "", err
	}

	if cfg.DryRun {
		return dir, nil
	}

	m := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   now,
		Source:      cfg.SourceRoot,
		Destination: cfg.DestRoot,
		Backup:      dir,
		SourceFiles: srcEntries,
		DestFiles:   dstEntries,
		Prune:       cfg.Prune,
		Force:       cfg.Force,
		ToolVersion: s.version,
		ID:          filepath.Base(dir),
	}
	if err := s.writeManifest(dir, m); err != nil {
		return "", errors.NewPhaseError(errors.PhaseBackup, dir, err)
	}

	logger.Debug("backup complete", "dir", dir,
		"source_files", len(srcEntries), "dest_files", len(dstEntries))
	return dir, nil
}

// nextDir returns root/stamp, or root/stamp_N for the first N not yet taken.
func (s *Snapshotter) nextDir(root, stamp string) (string, error) {
	candidate := filepath.Join(root, stamp)
	for i := 1; i <= maxSuffix; i++ {
		exists, err := fileutil.Exists(s.fs, candidate)
		if err != nil {
			return "", errors.Wrap(err, "checking backup directory")
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(root, fmt.Sprintf("%s_%d", stamp, i))
	}
	return "", errors.Newf("no free backup directory for %s", stamp)
}

// copyTree copies files from root into target and returns their metadata.
func (s *Snapshotter) copyTree(cfg config.RunConfig, label, root, target string, files fileset.FileSet) ([]FileEntry, error) {
	entries := make([]FileEntry, 0, len(files))

	if !cfg.DryRun {
		if err := s.fs.MkdirAll(target, fileutil.DirPerm); err != nil {
			return nil, errors.NewPhaseError(errors.PhaseBackup, target, errors.Wrap(err, "creating backup directory"))
		}
	}

	for _, rel := range files {
		if cfg.Verbose {
			fmt.Fprintf(s.out, "  ↳ backup %s: %s\n", label, rel)
		}

		src := fileset.OSPath(root, rel)
		info, err := s.fs.Stat(src)
		if err != nil {
			return nil, errors.NewPhaseError(errors.PhaseBackup, src, err)
		}
		entries = append(entries, FileEntry{
			Path:    rel,
			Size:    info.Size(),
			Mode:    info.Mode().Perm(),
			ModTime: info.ModTime(),
		})

		if cfg.DryRun {
			continue
		}
		if err := fileutil.CopyFile(s.fs, src, fileset.OSPath(target, rel)); err != nil {
			return nil, errors.NewPhaseError(errors.PhaseBackup, src, err)
		}
	}

	return entries, nil
}

func (s *Snapshotter) writeManifest(dir string, m *Manifest) error {
	if err := fileutil.AtomicWriteFile(s.fs, filepath.Join(dir, ManifestTextFile), []byte(m.Text()), 0o644); err != nil {
		return errors.Wrap(err, "writing MANIFEST.txt")
	}
	if err := fileutil.AtomicWriteJSON(s.fs, filepath.Join(dir, ManifestJSONFile), m); err != nil {
		return errors.Wrap(err, "writing manifest.json")
	}
	return nil
}
