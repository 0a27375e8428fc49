// Package mount attaches and detaches the external backup volume.
//
// Mount state is determined by matching the mount point against the system
// mount table; mounting and unmounting shell out to mount(8)/umount(8)
// through an injectable executor so the control flow is testable without
// root. Device nodes can be resolved from a filesystem volume label via
// lsblk.
package mount
