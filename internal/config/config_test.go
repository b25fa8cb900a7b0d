package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	d := Default()
	if d.Editor.TabWidth != 4 {
		t.Fatalf("expected default tab width 4, got %d", d.Editor.TabWidth)
	}
	if d.Editor.LSPMaxFileSize != 1024*1024 {
		t.Fatalf("expected default LSP max file size 1MB, got %d", d.Editor.LSPMaxFileSize)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if s != Default() {
		t.Fatalf("expected default settings, got %#v", s)
	}
}

func TestLoadParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "[editor]\ntab_width = 2\nline_numbers = \"relative\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Editor.TabWidth != 2 {
		t.Fatalf("expected tab width 2, got %d", s.Editor.TabWidth)
	}
	if s.Editor.LineNumbers != "relative" {
		t.Fatalf("expected relative line numbers, got %q", s.Editor.LineNumbers)
	}
	if s.Editor.LSPMaxFileSize != 1024*1024 {
		t.Fatalf("expected omitted field to keep the default, got %d", s.Editor.LSPMaxFileSize)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("not valid [[[ toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}
