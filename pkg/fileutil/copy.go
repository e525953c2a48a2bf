package fileutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/thoreinstein/deploytool/internal/errors"
)

// DirPerm is the mode used for directories created while copying.
const DirPerm = 0o755

// CopyFile copies src to dst, creating dst's parent directories as needed.
// The copy keeps the source's permission bits and modification time.
//
// Content is staged in a temp file next to dst and renamed into place, so a
// failed copy never leaves a truncated dst behind.
func CopyFile(fsys afero.Fs, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening source file")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return errors.Wrap(err, "stat source file")
	}
	if !info.Mode().IsRegular() {
		return errors.Newf("%s is not a regular file", src)
	}

	dir := filepath.Dir(dst)
	if err := fsys.MkdirAll(dir, DirPerm); err != nil {
		return errors.Wrap(err, "creating parent directory")
	}

	tmp, err := afero.TempFile(fsys, dir, ".deploytool-copy-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = fsys.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return errors.Wrap(err, "copying file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing destination file")
	}

	if err := fsys.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "setting permissions")
	}
	if err := fsys.Rename(tmpName, dst); err != nil {
		return errors.Wrap(err, "renaming into place")
	}
	renamed = true

	mtime := info.ModTime()
	if err := fsys.Chtimes(dst, mtime, mtime); err != nil {
		return errors.Wrap(err, "preserving modification time")
	}

	return nil
}

// Exists reports whether path exists. Errors other than "not exist" are
// returned so callers can tell a missing file from an unreadable one.
func Exists(fsys afero.Fs, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
