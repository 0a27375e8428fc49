// Package ratings propagates star ratings from XMP sidecar files onto the
// matching JPEG exports in a sibling directory.
//
// A run scans the raw directory for sidecars in lexicographic order, reads
// each rating through exiftool, and writes valid 1-5 values into the
// corresponding target image. Invalid ratings and missing targets skip the
// file and never fail the run; only a missing raw or JPEG directory is
// fatal.
package ratings
