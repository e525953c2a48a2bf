package backup

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/pkg/fileutil"
)

// Catalog reads and prunes the snapshots under a backup root.
type Catalog struct {
	fs   afero.Fs
	root string
}

// NewCatalog returns a Catalog for the snapshots under root.
func NewCatalog(fsys afero.Fs, root string) *Catalog {
	return &Catalog{fs: fsys, root: root}
}

// Root returns the backup root the catalog reads.
func (c *Catalog) Root() string {
	return c.root
}

// List returns all snapshots sorted by date (newest first).
// Directories without a readable manifest.json are skipped.
func (c *Catalog) List() ([]Manifest, error) {
	entries, err := afero.ReadDir(c.fs, c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		m, err := c.Get(entry.Name())
		if err != nil {
			continue
		}
		manifests = append(manifests, *m)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	// Same-second snapshots are ordered by their suffixed ID.
	slices.SortFunc(manifests, func(a, b Manifest) int {
		if n := b.CreatedAt.Compare(a.CreatedAt); n != 0 {
			return n
		}
		return strings.Compare(b.ID, a.ID)
	})

	return manifests, nil
}

// Get returns the manifest of the snapshot with the given ID.
func (c *Catalog) Get(id string) (*Manifest, error) {
	if id == "" {
		return nil, errors.New("backup ID is required")
	}

	data, err := fileutil.ReadFileWithLimit(c.fs, filepath.Join(c.root, id, ManifestJSONFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}

	m.ID = id
	return &m, nil
}

// Prune removes snapshots beyond the most recent keep and returns the IDs it
// removed.
func (c *Catalog) Prune(keep int) ([]string, error) {
	if keep < 0 {
		return nil, errors.New("keep must be non-negative")
	}

	manifests, err := c.List()
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil, nil
		}
		return nil, err
	}

	var removed []string
	for i := keep; i < len(manifests); i++ {
		id := manifests[i].ID
		if err := c.fs.RemoveAll(filepath.Join(c.root, id)); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", id)
		}
		removed = append(removed, id)
	}

	return removed, nil
}
