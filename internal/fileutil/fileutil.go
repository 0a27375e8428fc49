package fileutil

import (
	"errors"
	"io/fs"
	"os"
)

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// MissingDir returns the first entry in dirs that is not an existing
// directory, or "" when all are present.
func MissingDir(dirs []string) string {
	for _, dir := range dirs {
		if !DirExists(dir) {
			return dir
		}
	}
	return ""
}

// IsNotExist reports whether err indicates a missing file or directory.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
