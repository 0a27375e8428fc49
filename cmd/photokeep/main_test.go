package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"photokeep/internal/history"
	"photokeep/internal/testsupport"
)

func TestRootHelpListsCommands(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, _, err := runCLI(t, nil, "")
	if err != nil {
		t.Fatalf("root help: %v", err)
	}
	for _, name := range []string{"backup", "ratings", "stats", "status", "history", "config"} {
		requireContains(t, out, name)
	}
}

func TestHistoryCommandEmptyStore(t *testing.T) {
	_, configPath := setupCLIConfig(t)

	out, _, err := runCLI(t, []string{"history"}, configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No recorded runs yet.")
}

func TestHistoryCommandListsRecordedRuns(t *testing.T) {
	cfg, configPath := setupCLIConfig(t)

	store := testsupport.MustOpenStore(t, cfg)
	err := store.RecordBackupRun(context.Background(), history.BackupRun{
		RunID:       "run-1",
		StartedAt:   time.Now().Add(-time.Minute),
		FinishedAt:  time.Now(),
		Sources:     cfg.Backup.SourceDirectories,
		Destination: cfg.Backup.MountPoint,
		BytesSent:   2048,
		Success:     true,
		Unmounted:   true,
	})
	if err != nil {
		t.Fatalf("RecordBackupRun: %v", err)
	}

	out, _, err := runCLI(t, []string{"history"}, configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Backup runs:")
	requireContains(t, out, cfg.Backup.MountPoint)
	requireContains(t, out, "2.0 KiB")
}

func TestRatingsSyncReportsNoAppliedRatings(t *testing.T) {
	cfg, configPath := setupCLIConfig(t, testsupport.WithStubbedBinaries("exiftool"))

	base := t.TempDir()
	rawDir := filepath.Join(base, cfg.Ratings.RawDirName)
	jpegDir := filepath.Join(base, cfg.Ratings.JpegDirName)
	testsupport.WriteSidecar(t, rawDir, "DSCF0001.RAF")
	testsupport.WriteFile(t, filepath.Join(jpegDir, "DSCF0001.JPG"), 1)

	// The stubbed exiftool reports no rating, so the sidecar is skipped and
	// the run still succeeds.
	out, _, err := runCLI(t, []string{"ratings", "sync", "-p", base}, configPath)
	if err != nil {
		t.Fatalf("ratings sync: %v", err)
	}
	requireContains(t, out, "Scanned 1 sidecars: 0 applied, 1 skipped, 0 targets missing")
	requireContains(t, out, "No ratings were applied.")
}

func TestRatingsSyncRequiresExistingBase(t *testing.T) {
	_, configPath := setupCLIConfig(t, testsupport.WithStubbedBinaries("exiftool"))

	missing := filepath.Join(t.TempDir(), "shoot")
	if _, _, err := runCLI(t, []string{"ratings", "sync", "-p", missing}, configPath); err == nil {
		t.Fatal("expected error for missing base directory")
	}
}

func TestRatingsSyncRequiresPathFlag(t *testing.T) {
	_, configPath := setupCLIConfig(t, testsupport.WithStubbedBinaries("exiftool"))

	if _, _, err := runCLI(t, []string{"ratings", "sync"}, configPath); err == nil {
		t.Fatal("expected error when --path is omitted")
	}
}
