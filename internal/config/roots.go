package config

import (
	"os"

	"github.com/spf13/afero"

	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/paths"
)

// ResolveRoots checks the pre-conditions of a run: source and destination
// exist and are directories, their real paths differ, and neither contains
// the other. The backup root may not exist yet, but it must not lie inside
// either tree. Every failure is a PhaseConfig error.
//
// It returns a copy of rc whose roots are symlink-free real paths. A backup
// root that does not exist yet is kept as given.
func ResolveRoots(fsys afero.Fs, rc RunConfig) (RunConfig, error) {
	src, err := realDir(fsys, rc.SourceRoot)
	if err != nil {
		return rc, errors.NewPhaseError(errors.PhaseConfig, rc.SourceRoot, errors.Wrap(err, "source"))
	}
	dst, err := realDir(fsys, rc.DestRoot)
	if err != nil {
		return rc, errors.NewPhaseError(errors.PhaseConfig, rc.DestRoot, errors.Wrap(err, "destination"))
	}

	if src == dst {
		return rc, errors.NewPhaseError(errors.PhaseConfig, src,
			errors.WithHint(errors.ErrCollision, "--source and --dest must name different directories"))
	}
	if paths.Within(src, dst) || paths.Within(dst, src) {
		return rc, errors.NewPhaseError(errors.PhaseConfig, dst,
			errors.WithHint(errors.Wrapf(errors.ErrOverlap, "%s and %s are nested", src, dst),
				"Use sibling directories for --source and --dest"))
	}

	backup := rc.BackupRoot
	if resolved, err := paths.RealPath(fsys, backup); err == nil {
		backup = resolved
	}
	for _, root := range []string{src, dst} {
		if backup == root || paths.Within(root, backup) {
			return rc, errors.NewPhaseError(errors.PhaseConfig, rc.BackupRoot,
				errors.WithHint(errors.Wrapf(errors.ErrOverlap, "backup root inside %s", root),
					"Point --backup outside both trees"))
		}
	}

	rc.SourceRoot, rc.DestRoot, rc.BackupRoot = src, dst, backup
	return rc, nil
}

func realDir(fsys afero.Fs, p string) (string, error) {
	info, err := fsys.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.ErrRootMissing
		}
		return "", err
	}
	if !info.IsDir() {
		return "", errors.ErrNotDirectory
	}
	return paths.RealPath(fsys, p)
}
