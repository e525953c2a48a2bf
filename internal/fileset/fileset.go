package fileset

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/paths"
)

// FileSet is an ordered list of unique relative paths.
type FileSet []string

// Enumerate walks root and returns every regular file whose lowercase base
// name ends with ext. ext must already be normalized (lowercase, leading dot).
//
// Paths are relative to root and use forward slashes. The walk is lexical, so
// the order is stable for an unchanged tree.
func Enumerate(fsys afero.Fs, root, ext string) (FileSet, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewPhaseError(errors.PhaseEnumerate, root, errors.ErrRootMissing)
		}
		return nil, errors.NewPhaseError(errors.PhaseEnumerate, root, err)
	}
	if !info.IsDir() {
		return nil, errors.NewPhaseError(errors.PhaseEnumerate, root, errors.ErrNotDirectory)
	}

	// Walk lstats its root, so a symlinked root would never be descended.
	walkRoot, err := paths.RealPath(fsys, root)
	if err != nil {
		return nil, errors.NewPhaseError(errors.PhaseEnumerate, root, err)
	}

	var files FileSet
	err = afero.Walk(fsys, walkRoot, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return errors.NewPhaseError(errors.PhaseEnumerate, path, err)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(info.Name()), ext) {
			return nil
		}

		rel, err := filepath.Rel(walkRoot, path)
		if err != nil {
			return errors.NewPhaseError(errors.PhaseEnumerate, path, err)
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Difference returns the paths of s that are not in other, in the order they
// appear in s.
func (s FileSet) Difference(other FileSet) FileSet {
	seen := make(map[string]struct{}, len(other))
	for _, p := range other {
		seen[p] = struct{}{}
	}

	var out FileSet
	for _, p := range s {
		if _, ok := seen[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// OSPath converts a relative set entry to a path under root.
func OSPath(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
