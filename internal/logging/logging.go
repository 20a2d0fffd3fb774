// Package logging configures the process-wide structured logger.
//
// The pattern (one slog.Logger, one dynamic level, toggled from the CLI's
// persistent pre-run hook) mirrors the teacher's logger.SetLevel(logger.DEBUG)
// call in cobra_cli.go: a single mutable level var, read by a package-level
// logger built at package initialization.
package logging

import (
	"log/slog"
	"os"
)

var level = new(slog.LevelVar)

var base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: level,
}))

func init() {
	level.Set(slog.LevelWarn)
}

// SetVerbosity maps a CLI verbosity count (spec.md §6) to a slog level:
// 0 -> warn, 1 -> info, 2+ -> debug.
func SetVerbosity(count int) {
	switch {
	case count >= 2:
		level.Set(slog.LevelDebug)
	case count == 1:
		level.Set(slog.LevelInfo)
	default:
		level.Set(slog.LevelWarn)
	}
}

// Log returns the process-wide logger.
func Log() *slog.Logger {
	return base
}

// With returns a child logger scoped to a component, e.g. logging.With("session").
func With(component string) *slog.Logger {
	return base.With("component", component)
}
