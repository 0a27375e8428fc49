// Package stats scans image trees for exposure metadata and aggregates
// shooting statistics. Exposure fields come straight from the files' EXIF
// blocks; ratings are read through exiftool because most cameras store them
// in maker- or XMP-specific tags.
package stats
