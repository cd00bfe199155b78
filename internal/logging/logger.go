// Package logging defines the structured-logging interface used across the
// storefront packages, with slog and zerolog implementations.
package logging

import (
	"context"
	"io"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key-value pairs:
//
//	log.Info(ctx, "seeded users", "count", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a Logger writing to w. text and json use slog; console uses a
// zerolog console writer. Unknown formats fall back to text.
func New(format, level string, w io.Writer) Logger {
	switch strings.ToLower(format) {
	case FormatConsole:
		return NewZerologConsole(w, level)
	case FormatJSON:
		return NewSlogJSON(w, level)
	default:
		return NewSlogText(w, level)
	}
}

// Nop discards everything.
func Nop() Logger {
	return NewSlogText(io.Discard, "error")
}
