// Package services defines shared utilities consumed by the external tool
// clients and the command-level orchestration.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so failures surface with
//     a consistent component/operation prefix and can be classified at the
//     top level (fatal precondition vs external tool failure).
//   - Thin abstractions that make command execution from external tools
//     testable without spawning processes.
package services
