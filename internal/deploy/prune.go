package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/deploytool/internal/config"
	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/fileset"
	"github.com/thoreinstein/deploytool/internal/logging"
	"github.com/thoreinstein/deploytool/internal/paths"
)

// PruneError aggregates the failures of a prune pass. It is never fatal.
type PruneError struct {
	Failures []error
}

func (e *PruneError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%d prune failure(s): %s", len(e.Failures), strings.Join(msgs, "; "))
}

func (e *PruneError) Unwrap() []error {
	return e.Failures
}

// Prune deletes every destination file without a source counterpart, then
// removes the directories that deletion left empty. Collapsing walks upward
// from the file's parent and stops at the first non-empty directory; the
// destination root itself is never removed.
//
// Failures are logged and collected, and the loop moves on to the next file.
// It returns the pruned paths and, if anything failed, a *PruneError.
func (e *Engine) Prune(ctx context.Context, cfg config.RunConfig, srcFiles, dstFiles fileset.FileSet) ([]string, error) {
	logger := logging.FromContext(ctx)
	fsys := e.fsFor(cfg)

	var (
		pruned   []string
		failures []error
	)
	fail := func(path string, err error) {
		logger.Warn("prune failed", "path", path, "error", err)
		failures = append(failures, errors.NewPhaseError(errors.PhasePrune, path, err))
	}

	for _, rel := range dstFiles.Difference(srcFiles) {
		target := fileset.OSPath(cfg.DestRoot, rel)
		fmt.Fprintf(e.out, "× prune: %s\n", rel)

		if cfg.DryRun {
			pruned = append(pruned, rel)
			continue
		}

		if err := fsys.Remove(target); err != nil && !os.IsNotExist(err) {
			fail(target, err)
			continue
		}
		pruned = append(pruned, rel)
		logger.Debug("pruned", "path", rel)

		if dir, err := collapseEmpty(fsys, cfg.DestRoot, filepath.Dir(target)); err != nil {
			fail(dir, err)
		}
	}

	if len(failures) > 0 {
		return pruned, &PruneError{Failures: failures}
	}
	return pruned, nil
}

// collapseEmpty removes dir and its ancestors while they are empty and lie
// strictly inside root. On failure it returns the directory it could not
// handle.
func collapseEmpty(fsys afero.Fs, root, dir string) (string, error) {
	for ; paths.Within(root, dir); dir = filepath.Dir(dir) {
		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			if os.IsNotExist(err) {
				return "", nil
			}
			return dir, err
		}
		if len(entries) > 0 {
			return "", nil
		}
		if err := fsys.Remove(dir); err != nil {
			return dir, err
		}
	}
	return "", nil
}
