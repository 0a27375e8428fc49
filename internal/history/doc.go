// Package history persists backup and rating-sync run records in a local
// SQLite database.
//
// Recording is best-effort: a history failure is logged by the caller and
// never fails the primary operation. The `photokeep history` command reads
// the records back.
package history
