// Package rsync wraps the rsync CLI for checksummed mirror backups.
//
// The client always requests archive semantics with ACLs and extended
// attributes preserved, checksum-based comparison instead of size/mtime, and
// ownership/group suppression, matching what a photo backup onto a portable
// drive needs. Progress lines are streamed back to the caller.
package rsync
