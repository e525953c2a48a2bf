// Package backup snapshots the source and destination trees before a deploy
// run mutates anything, and manages the snapshots afterwards.
//
// # Snapshot Layout
//
// Each run gets its own timestamped directory under the backup root:
//
//	<backup root>/
//	└── 2026-10-19_140307/
//	    ├── MANIFEST.txt
//	    ├── manifest.json
//	    ├── src_before/
//	    │   └── {source files...}
//	    └── dst_before/
//	        └── {destination files...}
//
// If two runs start within the same second the later one gets a numeric
// suffix (2026-10-19_140307_1) so no snapshot is ever overwritten.
//
// # Creating Snapshots
//
// Use [Snapshotter.Snapshot] with the file sets the run enumerated:
//
//	s := backup.NewSnapshotter(backup.WithFs(fsys), backup.WithOutput(os.Stdout))
//	dir, err := s.Snapshot(ctx, cfg, srcFiles, dstFiles)
//
// Files are copied with their permissions and modification times. Any copy
// failure aborts the snapshot with a [errors.PhaseBackup] error; callers must
// not modify the destination when Snapshot fails. In a dry run the directory
// name is computed and reported but nothing is written.
//
// # Manifest
//
// MANIFEST.txt is the human-readable record of the run. manifest.json holds
// the same data plus the per-file size and modification time, and is what
// [Catalog] reads.
//
// # Retention Management
//
// [Catalog.List] returns the snapshots under a backup root, newest first, and
// [Catalog.Prune] removes all but the most recent N:
//
//	removed, err := backup.NewCatalog(fsys, root).Prune(10)
package backup
