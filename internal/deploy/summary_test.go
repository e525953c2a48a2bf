package deploy

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/deploytool/internal/errors"
)

func TestSummarize(t *testing.T) {
	cfg := testRun()
	cfg.Prune = true

	decisions := []CopyDecision{
		{Path: "a.html", Verdict: VerdictSkip, Reason: ReasonUpToDate},
		{Path: "b.html", Verdict: VerdictCopy, Reason: ReasonMissing},
		{Path: "c.html", Verdict: VerdictCopy, Reason: ReasonNewer},
	}
	failures := []error{errors.NewPhaseError(errors.PhasePrune, "/w/test/x.html", errors.New("boom"))}

	s := Summarize(cfg, decisions, []string{"d.html"}, failures, "/w/backup/stamp")

	assert.Equal(t, 2, s.Copied)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Pruned)
	assert.Equal(t, 1, s.PruneFailed)
	assert.Equal(t, []string{"b.html", "c.html"}, s.CopiedFiles)
	assert.Equal(t, []string{"prune: /w/test/x.html: boom"}, s.Failures)
	assert.True(t, s.Prune)
	assert.False(t, s.DryRun)
}

func TestSummary_WriteText(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name    string
		summary Summary
		want    string
	}{
		{
			name:    "plain run",
			summary: Summary{Copied: 1, Skipped: 2, BackupDir: "/b/1"},
			want: "\nSummary\n" +
				"  Copied:  1 files\n" +
				"  Skipped: 2 files\n" +
				"  Backup:  /b/1\n" +
				"Done.\n",
		},
		{
			name:    "prune dry run",
			summary: Summary{Copied: 1, Skipped: 1, Pruned: 1, Prune: true, DryRun: true, BackupDir: "/b/2"},
			want: "\nSummary\n" +
				"  Copied:  1 files\n" +
				"  Skipped: 1 files\n" +
				"  Pruned:  1 files\n" +
				"  Backup:  /b/2\n" +
				"(dry-run only; no changes made)\n",
		},
		{
			name:    "prune failures",
			summary: Summary{Pruned: 0, PruneFailed: 2, Prune: true, BackupDir: "/b/3"},
			want: "\nSummary\n" +
				"  Copied:  0 files\n" +
				"  Skipped: 0 files\n" +
				"  Pruned:  0 files\n" +
				"  Failed:  2 prune errors\n" +
				"  Backup:  /b/3\n" +
				"Done.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.summary.WriteText(&buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSummary_WriteJSON(t *testing.T) {
	s := Summary{Copied: 3, Pruned: 1, Prune: true, BackupDir: "/b/1", PrunedFiles: []string{"x.html"}}

	var buf bytes.Buffer
	require.NoError(t, s.WriteJSON(&buf))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(3), got["copied"])
	assert.Equal(t, "/b/1", got["backup_dir"])
	assert.Equal(t, []any{"x.html"}, got["pruned_files"])
	assert.NotContains(t, got, "copied_files")
}
