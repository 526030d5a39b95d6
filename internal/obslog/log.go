// Package obslog provides the one structured logger the whole module
// shares. It wraps log/slog rather than introducing a third-party
// logging dependency: none of the surveyed dependency stacks pull one
// in, and slog already gives this module everything it needs
// (leveled, structured, handler-swappable logging) without an
// additional go.mod entry.
package obslog

import (
	"log/slog"
	"os"
)

// Format selects the slog.Handler used by New.
type Format int

const (
	// Text produces human-readable, line-oriented output, the
	// default.
	Text Format = iota
	// JSON produces machine-parseable structured output. Default
	// uses Text; JSON is only used by loggers built with New.
	JSON
)

// New builds a logger writing to w in the requested format at the
// given level.
func New(w *os.File, format Format, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format {
	case JSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Default is the package-level logger used by components that do not
// accept an injected *slog.Logger (query compilation and symbol
// publication in pkg/query, verbose output in cmd/jitmap). Callers
// embedding this module can replace the variable with their own
// logger.
var Default = New(os.Stderr, Text, slog.LevelInfo)
