// Package fileutil provides the file primitives deploytool builds on:
// atomic writes, a metadata-preserving copy and a size-limited read.
//
// Every function takes an [afero.Fs] so callers can run against the real
// filesystem, an in-memory one in tests, or a read-only wrapper during dry
// runs.
package fileutil
