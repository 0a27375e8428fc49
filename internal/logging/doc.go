// Package logging assembles the structured slog loggers used across
// photokeep commands and services.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and provides attribute helpers plus a no-op logger for tests
// and wiring code that cannot fail. Prefer these constructors over
// hand-rolled slog setup so every component emits log lines with the same
// shape.
package logging
