package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/thoreinstein/deploytool/internal/errors"
)

// AppName is used for the config directory and environment prefix.
const AppName = "deploytool"

// ErrInvalidPath indicates the provided path is malformed or invalid.
var ErrInvalidPath = errors.New("invalid path")

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns the deploytool config directory: <ConfigHome>/deploytool.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// Resolve expands a leading ~, makes p absolute and cleans it.
// It does not touch the filesystem.
func Resolve(p string) (string, error) {
	if strings.TrimSpace(p) == "" || strings.ContainsRune(p, '\x00') {
		return "", errors.Wrapf(ErrInvalidPath, "%q", p)
	}

	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", errors.Wrapf(err, "expanding %s", p)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", p)
	}
	return filepath.Clean(abs), nil
}

// RealPath returns the symlink-free form of p. Symlinks can only be followed
// on the OS filesystem; for any other afero.Fs the cleaned path is returned.
func RealPath(fsys afero.Fs, p string) (string, error) {
	if _, ok := fsys.(*afero.OsFs); !ok {
		return filepath.Clean(p), nil
	}
	resolved, err := filepath.EvalSymlinks(p)
	if err != nil {
		return "", err
	}
	return filepath.Clean(resolved), nil
}

// Within reports whether p lies strictly inside root.
// Both paths are expected to be clean and absolute.
func Within(root, p string) bool {
	if root == p {
		return false
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(p, prefix)
}
