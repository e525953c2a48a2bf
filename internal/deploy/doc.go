// Package deploy implements a deploy run: the copy decision policy, the sync
// and prune loops, and the pipeline that orders them.
//
// A run proceeds strictly in sequence:
//
//	validate roots → enumerate → snapshot → sync → prune → summary
//
// and stops at the first fatal phase. Prune failures are not fatal: they are
// logged, collected into a [*PruneError] and reported in the [Summary].
//
// # Copy Policy
//
// [Decide] is the whole staleness policy. A file is copied when forced, when
// the destination is missing or cannot be read, when the sizes differ, or
// when the source is strictly newer. Anything else is skipped.
//
// # Dry Runs
//
// With DryRun set the [Engine] wraps its filesystem in a read-only layer.
// Decisions and output are the same as for a real run, but every mutation is
// skipped; emptied directories are not predicted, since nothing is removed.
package deploy
