package project

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleManifest = `[package]
name = "demo"
edition = "2025"

[macros]
recursion_limit = 64
trace = true
`

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "quill.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), sampleManifest)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Package.Name != "demo" || m.Package.Edition != "2025" {
		t.Errorf("package = %+v", m.Package)
	}
	if m.Macros.RecursionLimit != 64 || !m.Macros.Trace {
		t.Errorf("macros = %+v", m.Macros)
	}
}

func TestLoadManifestPartial(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[package]\nname = \"demo\"\n")

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Macros.RecursionLimit != 0 || m.Macros.Trace {
		t.Errorf("missing section did not zero out: %+v", m.Macros)
	}
}

func TestLoadManifestBadToml(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[package\nbroken")
	if _, err := LoadManifest(path); err == nil {
		t.Errorf("malformed manifest accepted")
	}
}

func TestDiscoverManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, sampleManifest)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := DiscoverManifest(nested)
	if err != nil {
		t.Fatalf("DiscoverManifest: %v", err)
	}
	if m == nil || m.Package.Name != "demo" {
		t.Errorf("manifest = %+v", m)
	}
}

func TestDiscoverManifestAbsent(t *testing.T) {
	m, err := DiscoverManifest(t.TempDir())
	if err != nil {
		t.Fatalf("DiscoverManifest: %v", err)
	}
	if m != nil {
		t.Errorf("found a manifest where none exists: %+v", m)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, sampleManifest)
	nested := filepath.Join(root, "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot: %v, %v", ok, err)
	}
	// t.TempDir may sit behind a symlink; compare resolved paths.
	wantReal, _ := filepath.EvalSymlinks(root)
	gotReal, _ := filepath.EvalSymlinks(got)
	if gotReal != wantReal {
		t.Errorf("root = %q, want %q", got, root)
	}
}
