// Package exiftool wraps the exiftool CLI for reading sidecar ratings and
// writing them into image files.
//
// Writes go through -overwrite_original: the target is rewritten in place
// with no backup copy, so re-running a sync is idempotent apart from the
// file modification time.
package exiftool
