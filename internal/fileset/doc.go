// Package fileset enumerates the files a deploy run operates on.
//
// A [FileSet] holds slash-separated paths relative to the root they were
// enumerated from. Only regular files whose name ends in the configured
// extension are included; directories are traversed but never returned, and
// symlinks and other special files are ignored.
package fileset
