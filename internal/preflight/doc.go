// Package preflight provides readiness checks for the external tools and
// filesystem paths photokeep depends on.
//
// These checks run in two contexts:
//   - The backup runner calls the directory checks before mirroring so a
//     doomed run fails before any data moves.
//   - The CLI "photokeep status" command uses RunAll and CheckSystemDeps to
//     display overall health.
package preflight
