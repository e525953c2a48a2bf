package commands

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/thoreinstein/deploytool/cmd"
)

func TestWriteVersion(t *testing.T) {
	var buf bytes.Buffer
	writeVersion(&buf)
	output := buf.String()

	tests := []struct {
		name     string
		contains string
	}{
		{"version header", "deploytool version " + cmd.Version},
		{"commit field", "commit:    " + cmd.Commit},
		{"built field", "built:     " + cmd.Date},
		{"go version", "go:        " + runtime.Version()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(output, tt.contains) {
				t.Errorf("version output missing %q\nGot:\n%s", tt.contains, output)
			}
		})
	}

	if lines := strings.Split(strings.TrimSpace(output), "\n"); len(lines) != 4 {
		t.Errorf("version output has %d lines, want 4\n%s", len(lines), output)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeRoot(t, "version")
	if err != nil {
		t.Fatalf("version command should not return an error, got: %v", err)
	}
	if !strings.HasPrefix(out, "deploytool version ") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

// TestVersionCommand_CommandMetadata verifies the command's metadata is set correctly.
func TestVersionCommand_CommandMetadata(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}
	if versionCmd.Long == "" {
		t.Error("versionCmd.Long should not be empty")
	}
}
