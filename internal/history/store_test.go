package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestRecordAndListBackupRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	run := BackupRun{
		RunID:       "run-1",
		StartedAt:   started,
		FinishedAt:  started.Add(5 * time.Minute),
		Sources:     []string{"/home/u/Pictures/Camera", "/home/u/Pictures/digikam"},
		Destination: "/mnt/photobackup",
		BytesSent:   4096,
		Success:     true,
		Unmounted:   true,
	}
	if err := store.RecordBackupRun(ctx, run); err != nil {
		t.Fatalf("RecordBackupRun: %v", err)
	}

	failed := run
	failed.RunID = "run-2"
	failed.StartedAt = started.Add(time.Hour)
	failed.Success = false
	failed.Unmounted = false
	failed.ErrorMessage = "mirror failed"
	if err := store.RecordBackupRun(ctx, failed); err != nil {
		t.Fatalf("RecordBackupRun: %v", err)
	}

	runs, err := store.ListBackupRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListBackupRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-2" {
		t.Fatalf("expected newest first, got %q", runs[0].RunID)
	}
	if runs[0].ErrorMessage != "mirror failed" {
		t.Fatalf("unexpected error message: %q", runs[0].ErrorMessage)
	}
	if len(runs[1].Sources) != 2 || runs[1].Sources[0] != "/home/u/Pictures/Camera" {
		t.Fatalf("unexpected sources: %v", runs[1].Sources)
	}
	if !runs[1].StartedAt.Equal(started) {
		t.Fatalf("unexpected started at: %v", runs[1].StartedAt)
	}
}

func TestRecordRatingRunWithEvents(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)

	run := RatingRun{
		RunID:      "run-3",
		BaseDir:    "/photos/2026-08-02",
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Scanned:    3,
		Applied:    2,
		Skipped:    1,
	}
	events := []RatingEvent{
		{File: "DSCF0001.JPG", Rating: 3, Percent: 60, AppliedAt: started},
		{File: "DSCF0002.JPG", Rating: 5, Percent: 100, AppliedAt: started},
	}
	if err := store.RecordRatingRun(ctx, run, events); err != nil {
		t.Fatalf("RecordRatingRun: %v", err)
	}

	runs, err := store.ListRatingRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRatingRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Applied != 2 {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	got, err := store.ListRatingEvents(ctx, runs[0].ID)
	if err != nil {
		t.Fatalf("ListRatingEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[1].File != "DSCF0002.JPG" || got[1].Percent != 100 {
		t.Fatalf("unexpected event: %+v", got[1])
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("update version: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Fatal("expected schema mismatch error")
	}
}
