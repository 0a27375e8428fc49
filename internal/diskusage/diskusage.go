// Package diskusage reports filesystem capacity and directory tree sizes
// for the before/after summaries around a backup run.
package diskusage

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// Usage describes the filesystem holding a path.
type Usage struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
	UsedBytes  uint64
}

// String renders the usage the way df would, in human units.
func (u Usage) String() string {
	return fmt.Sprintf("%s: %s used of %s (%s free)",
		u.Path,
		humanize.IBytes(u.UsedBytes),
		humanize.IBytes(u.TotalBytes),
		humanize.IBytes(u.FreeBytes),
	)
}

// Reporter is the capability the backup runner uses for usage summaries.
type Reporter interface {
	Filesystem(path string) (Usage, error)
	TreeSize(path string) (uint64, error)
}

// StatfsReporter implements Reporter with statfs(2) and a directory walk.
type StatfsReporter struct{}

// Filesystem returns capacity figures for the filesystem containing path.
func (StatfsReporter) Filesystem(path string) (Usage, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Usage{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	bsize := uint64(stat.Bsize)
	total := stat.Blocks * bsize
	free := stat.Bavail * bsize
	return Usage{
		Path:       path,
		TotalBytes: total,
		FreeBytes:  free,
		UsedBytes:  total - stat.Bfree*bsize,
	}, nil
}

// TreeSize sums regular file sizes under root, the way du -s does.
// Unreadable entries are skipped rather than failing the whole walk.
func (StatfsReporter) TreeSize(root string) (uint64, error) {
	var total uint64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += uint64(info.Size())
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", root, err)
	}
	return total, nil
}

// FormatBytes renders a byte count in human units.
func FormatBytes(n uint64) string {
	return humanize.IBytes(n)
}
