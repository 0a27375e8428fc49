package logs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLines(t *testing.T, path string, lines ...string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	for _, line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			t.Fatalf("write line: %v", err)
		}
	}
}

func TestLastReturnsTrailingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photokeep.log")
	writeLines(t, path, "one", "two", "three", "four")

	lines, offset, err := Last(path, 2)
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}
	if len(lines) != 2 || lines[0] != "three" || lines[1] != "four" {
		t.Fatalf("Last() lines = %v", lines)
	}
	if offset == 0 {
		t.Fatal("expected non-zero offset")
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := Last(filepath.Join(t.TempDir(), "missing.log"), 10)
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}
	if len(lines) != 0 || offset != 0 {
		t.Fatalf("Last() = %v, %d; want empty", lines, offset)
	}
}

func TestLastFewerLinesThanLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photokeep.log")
	writeLines(t, path, "only")

	lines, _, err := Last(path, 5)
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}
	if len(lines) != 1 || lines[0] != "only" {
		t.Fatalf("Last() lines = %v", lines)
	}
}

func TestReadFromPicksUpNewLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photokeep.log")
	writeLines(t, path, "first")

	_, offset, err := Last(path, 0)
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}

	writeLines(t, path, "second", "third")
	lines, newOffset, err := ReadFrom(path, offset)
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	if len(lines) != 2 || lines[0] != "second" {
		t.Fatalf("ReadFrom() lines = %v", lines)
	}
	if newOffset <= offset {
		t.Fatalf("offset did not advance: %d -> %d", offset, newOffset)
	}
}

func TestReadFromHandlesTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photokeep.log")
	writeLines(t, path, "a line that will be rotated away")

	_, offset, err := Last(path, 0)
	if err != nil {
		t.Fatalf("Last() error = %v", err)
	}

	if err := os.Truncate(path, 0); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	lines, newOffset, err := ReadFrom(path, offset)
	if err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}
	if len(lines) != 0 || newOffset != 0 {
		t.Fatalf("ReadFrom() = %v, %d; want reset to empty", lines, newOffset)
	}
}
