package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thoreinstein/deploytool/internal/errors"
	"github.com/thoreinstein/deploytool/internal/logging"
)

// resetRootFlags restores every flag to its default so tests don't leak
// values into each other through the shared rootCmd.
func resetRootFlags(t *testing.T) {
	t.Helper()
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.Flags())
	reset(rootCmd.PersistentFlags())
}

// executeRoot runs rootCmd with args from a clean working directory.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	resetRootFlags(t)
	t.Chdir(t.TempDir())
	t.Cleanup(func() {
		viper.Reset()
		resetRootFlags(t)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

type workspace struct {
	src, dst, backup string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ws := workspace{
		src:    filepath.Join(dir, "prod"),
		dst:    filepath.Join(dir, "test"),
		backup: filepath.Join(dir, "backup"),
	}
	write := func(p, content string) {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(ws.src, "a.html"), "a")
	write(filepath.Join(ws.src, "sub", "b.html"), "b")
	write(filepath.Join(ws.dst, "old", "c.html"), "c")
	return ws
}

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	// Save/Restore original state
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelWarn},
		{"verbose (1)", 1, slog.LevelInfo},
		{"debug (2)", 2, slog.LevelDebug},
		{"trace (3)", 3, logging.LevelTrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = tt.verbosity
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > logging.LevelTrace {
				shouldBeDisabled := tt.wantLevel - 4
				if logger.Enabled(t.Context(), shouldBeDisabled) {
					t.Errorf("expected level %v to be disabled", shouldBeDisabled)
				}
			}
		})
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		envVal    string
		wantLevel slog.Level
	}{
		{"DEPLOYTOOL_DEBUG=1", "1", slog.LevelDebug},
		{"DEPLOYTOOL_DEBUG=true", "true", slog.LevelDebug},
		{"DEPLOYTOOL_DEBUG=2", "2", logging.LevelTrace},
		{"DEPLOYTOOL_DEBUG=0", "0", slog.LevelWarn},
		{"DEPLOYTOOL_DEBUG=unknown", "foo", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = 0
			t.Setenv("DEPLOYTOOL_DEBUG", tt.envVal)

			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel == slog.LevelDebug && logger.Enabled(t.Context(), logging.LevelTrace) {
				t.Error("expected Trace level to be disabled when DEPLOYTOOL_DEBUG=1")
			}
		})
	}
}

func TestSetupLogging_Quiet(t *testing.T) {
	origQuiet := quiet
	origVerbosity := verbosity
	defer func() {
		quiet = origQuiet
		verbosity = origVerbosity
	}()

	quiet = true
	verbosity = 0

	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger := slog.Default()
	if !logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("expected Error level to be enabled")
	}
	if logger.Enabled(t.Context(), slog.LevelWarn) {
		t.Error("expected Warn level to be disabled")
	}
}

func TestSetupLogging_QuietMutualExclusion(t *testing.T) {
	origVerbosity := verbosity
	origQuiet := quiet
	defer func() {
		verbosity = origVerbosity
		quiet = origQuiet
	}()

	verbosity = 1
	quiet = true

	err := setupLogging(rootCmd)
	if err == nil {
		t.Fatal("expected error when both quiet and verbose are set")
	}
	if got := errors.ForExit(err).Code; got != errors.ExitUser {
		t.Errorf("exit code = %d, want %d", got, errors.ExitUser)
	}
}

func TestNormalizeFlagName(t *testing.T) {
	tests := map[string]pflag.NormalizedName{
		"prod":      "source",
		"test":      "dest",
		"source":    "source",
		"file-type": "file-type",
	}
	for in, want := range tests {
		if got := normalizeFlagName(nil, in); got != want {
			t.Errorf("normalizeFlagName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRoot_Deploy(t *testing.T) {
	ws := newWorkspace(t)

	out, err := executeRoot(t, "--source", ws.src, "--dest", ws.dst, "--backup", ws.backup, "--prune")
	if err != nil {
		t.Fatalf("deploy failed: %v", err)
	}

	for _, want := range []string{
		"→ copy: a.html",
		"→ copy: sub/b.html",
		"× prune: old/c.html",
		"  Copied:  2 files",
		"  Pruned:  1 files",
		"Done.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\nGot:\n%s", want, out)
		}
	}

	if _, err := os.Stat(filepath.Join(ws.dst, "sub", "b.html")); err != nil {
		t.Errorf("b.html not deployed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(ws.dst, "old")); !os.IsNotExist(err) {
		t.Errorf("emptied directory should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(ws.dst); err != nil {
		t.Errorf("destination root must survive: %v", err)
	}

	manifests, err := filepath.Glob(filepath.Join(ws.backup, "*", "MANIFEST.txt"))
	if err != nil || len(manifests) != 1 {
		t.Fatalf("expected one MANIFEST.txt, got %v (err %v)", manifests, err)
	}
}

func TestRoot_LegacyFlagNames(t *testing.T) {
	ws := newWorkspace(t)

	out, err := executeRoot(t, "--prod", ws.src, "--test", ws.dst, "--backup", ws.backup, "--dry-run", "-v")
	if err != nil {
		t.Fatalf("deploy failed: %v", err)
	}

	if !strings.Contains(out, "(dry-run only; no changes made)") {
		t.Errorf("expected dry-run notice\nGot:\n%s", out)
	}
	if !strings.Contains(out, "↳ backup source: a.html") {
		t.Errorf("expected verbose backup lines\nGot:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(ws.dst, "a.html")); !os.IsNotExist(err) {
		t.Error("dry run must not copy files")
	}
	if _, err := os.Stat(ws.backup); !os.IsNotExist(err) {
		t.Error("dry run must not create a backup")
	}
}

func TestRoot_JSONOutput(t *testing.T) {
	ws := newWorkspace(t)

	out, err := executeRoot(t, "--source", ws.src, "--dest", ws.dst, "--backup", ws.backup, "--json")
	if err != nil {
		t.Fatalf("deploy failed: %v", err)
	}

	var got struct {
		Copied    int    `json:"copied"`
		Pruned    int    `json:"pruned"`
		BackupDir string `json:"backup_dir"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Copied != 2 || got.Pruned != 0 {
		t.Errorf("unexpected summary: %+v", got)
	}
	if !strings.HasPrefix(got.BackupDir, ws.backup) {
		t.Errorf("backup dir %q not under %q", got.BackupDir, ws.backup)
	}
}

func TestRoot_ConfigFile(t *testing.T) {
	ws := newWorkspace(t)
	cfgPath := filepath.Join(t.TempDir(), "deploy.yaml")
	content := "source: " + ws.src + "\ndest: " + ws.dst + "\nbackup: " + ws.backup + "\nprune: true\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := executeRoot(t, "--config", cfgPath, "--dry-run")
	if err != nil {
		t.Fatalf("deploy failed: %v", err)
	}
	if !strings.Contains(out, "× prune: old/c.html") {
		t.Errorf("prune from config file not applied\nGot:\n%s", out)
	}
}

func TestRoot_Errors(t *testing.T) {
	ws := newWorkspace(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantIs   error
	}{
		{
			name:     "identical roots",
			args:     []string{"--source", ws.src, "--dest", ws.src, "--backup", ws.backup},
			wantCode: errors.ExitUser,
			wantIs:   errors.ErrCollision,
		},
		{
			name:     "nested roots",
			args:     []string{"--source", ws.src, "--dest", filepath.Join(ws.src, "sub"), "--backup", ws.backup},
			wantCode: errors.ExitUser,
			wantIs:   errors.ErrOverlap,
		},
		{
			name:     "missing destination",
			args:     []string{"--source", ws.src, "--dest", filepath.Join(ws.dst, "nope"), "--backup", ws.backup},
			wantCode: errors.ExitUser,
			wantIs:   errors.ErrRootMissing,
		},
		{
			name:     "missing config file",
			args:     []string{"--config", filepath.Join(ws.src, "missing.yaml")},
			wantCode: errors.ExitUser,
		},
		{
			name:     "unknown flag",
			args:     []string{"--bogus"},
			wantCode: errors.ExitUser,
		},
		{
			name:     "bad file type",
			args:     []string{"--source", ws.src, "--dest", ws.dst, "--file-type", "."},
			wantCode: errors.ExitUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeRoot(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.ForExit(err).Code; got != tt.wantCode {
				t.Errorf("exit code = %d, want %d (err: %v)", got, tt.wantCode, err)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error %v is not %v", err, tt.wantIs)
			}
		})
	}

	if _, err := os.Stat(ws.backup); !os.IsNotExist(err) {
		t.Error("failed runs must not create backups")
	}
}
