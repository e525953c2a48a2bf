package deploy

import (
	"context"
	"fmt"

	"github.com/thoreinstein/deploytool/internal/config"
	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/fileset"
	"github.com/thoreinstein/deploytool/internal/logging"
	"github.com/thoreinstein/deploytool/pkg/fileutil"
)

// Sync decides and performs the copy of each source file to the
// destination root. Copies keep the source's mode and modification time.
//
// The first source stat or copy failure stops the loop. The decisions taken
// before it are returned along with a PhaseSync error; files already copied
// stay copied.
func (e *Engine) Sync(ctx context.Context, cfg config.RunConfig, srcFiles fileset.FileSet) ([]CopyDecision, error) {
	logger := logging.FromContext(ctx)
	fsys := e.fsFor(cfg)

	decisions := make([]CopyDecision, 0, len(srcFiles))
	for _, rel := range srcFiles {
		src := fileset.OSPath(cfg.SourceRoot, rel)
		dst := fileset.OSPath(cfg.DestRoot, rel)

		srcInfo, err := fsys.Stat(src)
		if err != nil {
			return decisions, errors.NewPhaseError(errors.PhaseSync, src, err)
		}
		dstInfo, dstErr := fsys.Stat(dst)

		verdict, reason := Decide(cfg.Force, srcInfo, dstInfo, dstErr)
		d := CopyDecision{Path: rel, Verdict: verdict, Reason: reason}

		if verdict == VerdictSkip {
			if cfg.Verbose {
				fmt.Fprintf(e.out, "· skip: %s\n", rel)
			}
			logger.Log(ctx, logging.LevelTrace, "skip", "path", rel, "reason", reason)
			decisions = append(decisions, d)
			continue
		}

		fmt.Fprintf(e.out, "→ copy: %s\n", rel)
		logger.Debug("copy", "path", rel, "reason", reason)
		if reason == ReasonUnreadable {
			logger.Warn("destination unreadable, overwriting", "path", dst, "error", dstErr)
		}

		if !cfg.DryRun {
			if err := fileutil.CopyFile(fsys, src, dst); err != nil {
				return decisions, errors.NewPhaseError(errors.PhaseSync, dst, err)
			}
		}
		decisions = append(decisions, d)
	}

	return decisions, nil
}
