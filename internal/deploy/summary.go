package deploy

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/deploytool/internal/config"
	"github.com/thoreinstein/deploytool/internal/logging"
)

// Summary is the outcome of a run. It is printed, never persisted.
type Summary struct {
	Copied  int `json:"copied"`
	Skipped int `json:"skipped"`
	Pruned  int `json:"pruned"`

	// PruneFailed counts orphans or emptied directories that could not be removed.
	PruneFailed int `json:"prune_failed"`

	BackupDir string `json:"backup_dir"`
	DryRun    bool   `json:"dry_run"`
	Prune     bool   `json:"prune"`

	CopiedFiles []string `json:"copied_files,omitempty"`
	PrunedFiles []string `json:"pruned_files,omitempty"`
	Failures    []string `json:"failures,omitempty"`
}

// Summarize builds the summary of a run from its results.
func Summarize(cfg config.RunConfig, decisions []CopyDecision, pruned []string, failures []error, backupDir string) Summary {
	s := Summary{
		Pruned:      len(pruned),
		PruneFailed: len(failures),
		BackupDir:   backupDir,
		DryRun:      cfg.DryRun,
		Prune:       cfg.Prune,
		PrunedFiles: pruned,
	}
	for _, d := range decisions {
		switch d.Verdict {
		case VerdictCopy:
			s.Copied++
			s.CopiedFiles = append(s.CopiedFiles, d.Path)
		case VerdictSkip:
			s.Skipped++
		}
	}
	for _, f := range failures {
		s.Failures = append(s.Failures, f.Error())
	}
	return s
}

// WriteText prints the human-readable report.
func (s Summary) WriteText(w io.Writer) error {
	heading := logging.Painter(w, color.Bold)
	done := logging.Painter(w, color.FgGreen)
	warn := logging.Painter(w, color.FgYellow)

	lines := []string{
		"",
		heading.Sprint("Summary"),
		fmt.Sprintf("  Copied:  %d files", s.Copied),
		fmt.Sprintf("  Skipped: %d files", s.Skipped),
	}
	if s.Prune {
		lines = append(lines, fmt.Sprintf("  Pruned:  %d files", s.Pruned))
	}
	if s.PruneFailed > 0 {
		lines = append(lines, warn.Sprintf("  Failed:  %d prune errors", s.PruneFailed))
	}
	lines = append(lines, fmt.Sprintf("  Backup:  %s", s.BackupDir))
	if s.DryRun {
		lines = append(lines, "(dry-run only; no changes made)")
	} else {
		lines = append(lines, done.Sprint("Done."))
	}

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON prints the summary as indented JSON.
func (s Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
