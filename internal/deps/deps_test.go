package deps

import (
	"os"
	"path/filepath"
	"testing"

	"photokeep/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
}

func TestRequirementsHonourConfiguredBinaries(t *testing.T) {
	cfg := config.Default()
	cfg.Backup.RsyncBinary = "/opt/bin/rsync"
	cfg.Ratings.ExiftoolBinary = "/opt/bin/exiftool"

	reqs := Requirements(&cfg)
	byName := map[string]Requirement{}
	for _, req := range reqs {
		byName[req.Name] = req
	}

	if byName["rsync"].Command != "/opt/bin/rsync" {
		t.Fatalf("unexpected rsync command: %q", byName["rsync"].Command)
	}
	if byName["exiftool"].Command != "/opt/bin/exiftool" {
		t.Fatalf("unexpected exiftool command: %q", byName["exiftool"].Command)
	}
	if !byName["lsblk"].Optional {
		t.Fatal("expected lsblk to be optional")
	}
}

func TestCheckSingleBinary(t *testing.T) {
	if err := Check("rsync", "definitely-missing-tool"); err == nil {
		t.Fatal("expected error for missing binary")
	}
	if err := Check("rsync", ""); err == nil {
		t.Fatal("expected error for unconfigured binary")
	}
}
