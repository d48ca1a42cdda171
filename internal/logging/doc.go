// Package logging assembles structured slog loggers and attribute helpers used
// across stagehand.
//
// It owns console/JSON handler selection, centralizes level and output
// plumbing, and exposes context-aware helpers so harvest code can
// automatically tag log lines with job identifiers and phases. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
package logging
