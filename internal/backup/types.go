package backup

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/thoreinstein/deploytool/internal/errors"
)

// Manifest format version for forward compatibility.
const ManifestVersion = 1

// Names of the entries inside a snapshot directory.
const (
	SourceDir        = "src_before"
	DestDir          = "dst_before"
	ManifestTextFile = "MANIFEST.txt"
	ManifestJSONFile = "manifest.json"
)

// StampLayout is the time layout of snapshot directory names.
const StampLayout = "2006-01-02_150405"

// ErrNoBackupsFound indicates the backup root holds no snapshots.
var ErrNoBackupsFound = errors.New("no backups found")

// Manifest describes one snapshot.
// It is stored as manifest.json and rendered as MANIFEST.txt.
type Manifest struct {
	// Version is the manifest format version.
	Version int `json:"version"`

	// CreatedAt is the run timestamp the snapshot directory is named after.
	CreatedAt time.Time `json:"created_at"`

	Source      string `json:"source"`
	Destination string `json:"destination"`
	Backup      string `json:"backup"`

	SourceFiles []FileEntry `json:"source_files"`
	DestFiles   []FileEntry `json:"dest_files"`

	Prune bool `json:"prune"`
	Force bool `json:"force"`

	// ToolVersion is the deploytool version that took the snapshot.
	ToolVersion string `json:"deploytool_version"`

	// ID is the snapshot directory name. It is populated when loading from
	// disk but not stored in JSON.
	ID string `json:"-"`
}

// FileEntry records one file copied into a snapshot.
type FileEntry struct {
	// Path is slash-separated and relative to the tree root.
	Path    string      `json:"path"`
	Size    int64       `json:"size"`
	Mode    fs.FileMode `json:"mode"`
	ModTime time.Time   `json:"mod_time"`
}

// Text renders the manifest as written to MANIFEST.txt.
func (m *Manifest) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deploy manifest - %s\n", m.CreatedAt.Format("2006-01-02 15:04:05 -0700"))
	fmt.Fprintf(&b, "Source:        %s\n", m.Source)
	fmt.Fprintf(&b, "Destination:   %s\n", m.Destination)
	fmt.Fprintf(&b, "Backup:        %s\n", m.Backup)
	fmt.Fprintf(&b, "Files(source): %d\n", len(m.SourceFiles))
	fmt.Fprintf(&b, "Files(dest):   %d\n", len(m.DestFiles))
	fmt.Fprintf(&b, "Options:       prune=%t force=%t\n", m.Prune, m.Force)
	return b.String()
}
