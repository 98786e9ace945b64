package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsZeroValue(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "kandy.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.LibraryPath) != 0 || len(cfg.Seeds) != 0 {
		t.Errorf("Load() of a missing file = %+v, want zero value", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kandy.yaml")
	content := "library_path:\n  - ./lib\n  - ./vendor\nseeds:\n  - json\n  - text\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.LibraryPath) != 2 || cfg.LibraryPath[0] != "./lib" || cfg.LibraryPath[1] != "./vendor" {
		t.Errorf("LibraryPath = %v, want [./lib ./vendor]", cfg.LibraryPath)
	}
	if !cfg.HasSeed("json") || !cfg.HasSeed("text") {
		t.Errorf("Seeds = %v, want json and text enabled", cfg.Seeds)
	}
	if cfg.HasSeed("unknown") {
		t.Error("HasSeed(\"unknown\") = true, want false")
	}
}
