// SPDX-License-Identifier: MPL-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoad_Defaults verifies that a missing config file yields the
// built-in defaults.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Parallel != 1 {
		t.Errorf("Parallel = %d, want 1", cfg.Parallel)
	}
	if cfg.TailBytes != 4096 {
		t.Errorf("TailBytes = %d, want 4096", cfg.TailBytes)
	}
	if cfg.Matrixfile != "matrixfile.cue" {
		t.Errorf("Matrixfile = %q, want %q", cfg.Matrixfile, "matrixfile.cue")
	}
	if cfg.CacheDir == "" {
		t.Errorf("CacheDir is empty, want a default cache path")
	}
}

// TestLoad_ExplicitFile verifies that an explicit config file overrides
// the defaults.
func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "parallel: 4\ncache_dir: " + filepath.Join(dir, "cache") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Parallel != 4 {
		t.Errorf("Parallel = %d, want 4", cfg.Parallel)
	}
	if cfg.CacheDir != filepath.Join(dir, "cache") {
		t.Errorf("CacheDir = %q, want %q", cfg.CacheDir, filepath.Join(dir, "cache"))
	}
	if cfg.Matrixfile != "matrixfile.cue" {
		t.Errorf("Matrixfile = %q, want default %q", cfg.Matrixfile, "matrixfile.cue")
	}
}

// TestLoad_BrokenFile verifies that a malformed config file is an error
// rather than silently ignored.
func TestLoad_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("parallel: [broken\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("Load() expected error for malformed config")
	}
}
