package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Log output formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New returns a Logger writing to w. FormatConsole selects the zerolog
// console writer; anything else produces slog JSON lines.
func New(w io.Writer, format, level string) Logger {
	level = strings.ToLower(level)
	if strings.EqualFold(format, FormatConsole) {
		return newConsoleLogger(w, level)
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogLevel(level)})
	return NewSlogLogger(slog.New(h))
}

func slogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopLogger struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(_ context.Context, _ string, _ ...any) {}
func (nopLogger) Info(_ context.Context, _ string, _ ...any)  {}
func (nopLogger) Warn(_ context.Context, _ string, _ ...any)  {}
func (nopLogger) Error(_ context.Context, _ string, _ ...any) {}
func (n nopLogger) With(_ ...any) Logger                      { return n }
