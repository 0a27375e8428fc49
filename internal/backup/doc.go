// Package backup orchestrates the checksummed mirror backup onto an
// external drive: precondition checks, mount handling, the rsync mirror,
// and the unmount afterwards.
//
// Every failure before and during the mirror is fatal for the run; the
// unmount afterwards is reported but never fails a completed backup, since
// portable SSDs are known to drop their mounts on their own.
package backup
