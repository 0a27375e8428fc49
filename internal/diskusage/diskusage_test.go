package diskusage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilesystemReportsCapacity(t *testing.T) {
	usage, err := StatfsReporter{}.Filesystem(t.TempDir())
	if err != nil {
		t.Fatalf("Filesystem: %v", err)
	}
	if usage.TotalBytes == 0 {
		t.Fatal("expected non-zero filesystem size")
	}
	if usage.UsedBytes > usage.TotalBytes {
		t.Fatalf("used %d exceeds total %d", usage.UsedBytes, usage.TotalBytes)
	}
	if !strings.Contains(usage.String(), "used of") {
		t.Fatalf("unexpected rendering: %q", usage.String())
	}
}

func TestTreeSizeSumsRegularFiles(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "a"), make([]byte, 100), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b"), make([]byte, 250), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	size, err := StatfsReporter{}.TreeSize(root)
	if err != nil {
		t.Fatalf("TreeSize: %v", err)
	}
	if size != 350 {
		t.Fatalf("unexpected size: %d", size)
	}
}

func TestFormatBytes(t *testing.T) {
	if got := FormatBytes(2048); got != "2.0 KiB" {
		t.Fatalf("unexpected formatting: %q", got)
	}
}
