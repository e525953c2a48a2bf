package fileutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{"successful write", []byte("hello world\n"), 0o644},
		{"empty data", []byte{}, 0o644},
		{"binary data", []byte{0x00, 0x01, 0x02, 0xFF}, 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewOsFs()
			path := filepath.Join(t.TempDir(), "test-file")

			if err := AtomicWriteFile(fsys, path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading file: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat file: %v", err)
			}
			if info.Mode().Perm() != tt.perm {
				t.Errorf("permissions = %o, want %o", info.Mode().Perm(), tt.perm)
			}
		})
	}
}

func TestAtomicWriteFile_DirectoryNotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "file.txt")
	if err := AtomicWriteFile(afero.NewOsFs(), path, []byte("data"), 0o600); err == nil {
		t.Error("expected error when parent directory does not exist")
	}
}

func TestAtomicWriteFile_OverwriteExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/out/MANIFEST.txt", []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWriteFile(fsys, "/out/MANIFEST.txt", []byte("new"), 0o644); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}

	got, err := afero.ReadFile(fsys, "/out/MANIFEST.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}
}

func TestAtomicWriteFile_NoTempFileLeftOnError(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory in the way makes the final rename fail.
	if err := os.MkdirAll(filepath.Join(dir, "target", "child"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWriteFile(afero.NewOsFs(), filepath.Join(dir, "target"), []byte("data"), 0o600); err == nil {
		t.Fatal("expected rename onto a directory to fail")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestAtomicWriteFile_ReadOnlyFs(t *testing.T) {
	base := afero.NewMemMapFs()
	if err := base.MkdirAll("/out", 0o755); err != nil {
		t.Fatal(err)
	}

	err := AtomicWriteFile(afero.NewReadOnlyFs(base), "/out/file", []byte("x"), 0o644)
	if err == nil {
		t.Fatal("expected error writing through a read-only filesystem")
	}
	if ok, _ := afero.Exists(base, "/out/file"); ok {
		t.Error("file should not exist after failed write")
	}
}

func TestAtomicWriteJSON(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/out", 0o755); err != nil {
		t.Fatal(err)
	}

	v := map[string]int{"copied": 2}
	if err := AtomicWriteJSON(fsys, "/out/summary.json", v); err != nil {
		t.Fatalf("AtomicWriteJSON() error = %v", err)
	}

	got, err := afero.ReadFile(fsys, "/out/summary.json")
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"copied\": 2\n}\n"
	if string(got) != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestAtomicWriteYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/out", 0o755); err != nil {
		t.Fatal(err)
	}

	v := struct {
		Source string `yaml:"source"`
	}{Source: "./prod"}
	if err := AtomicWriteYAML(fsys, "/out/config.yaml", v); err != nil {
		t.Fatalf("AtomicWriteYAML() error = %v", err)
	}

	got, err := afero.ReadFile(fsys, "/out/config.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "source: ./prod\n" {
		t.Errorf("content = %q", got)
	}
}

func TestAtomicWriteYAML_Unmarshalable(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/out", 0o755); err != nil {
		t.Fatal(err)
	}

	err := AtomicWriteYAML(fsys, "/out/bad.yaml", map[string]any{"fn": func() {}})
	if err == nil {
		t.Error("expected error for unmarshalable value")
	}
}

func TestAtomicWriteTOML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/out", 0o755); err != nil {
		t.Fatal(err)
	}

	v := struct {
		Source string `toml:"source"`
		Prune  bool   `toml:"prune"`
	}{Source: "./prod", Prune: true}
	if err := AtomicWriteTOML(fsys, "/out/config.toml", v); err != nil {
		t.Fatalf("AtomicWriteTOML() error = %v", err)
	}

	got, err := afero.ReadFile(fsys, "/out/config.toml")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "source = './prod'\nprune = true\n" {
		t.Errorf("content = %q", got)
	}
}
