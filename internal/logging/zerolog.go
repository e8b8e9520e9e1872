package logging

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts zerolog to Logger. Key/value args are attached as
// event fields; a trailing key without a value is logged under "!BADKEY".
type ZerologLogger struct {
	l zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, z.l.Debug(), msg, args)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, z.l.Info(), msg, args)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, z.l.Warn(), msg, args)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.emit(ctx, z.l.Error(), msg, args)
}

func (z *ZerologLogger) With(args ...any) Logger {
	c := z.l.With()
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			c = c.Interface("!BADKEY", args[i])
			break
		}
		c = c.Interface(fmt.Sprint(args[i]), args[i+1])
	}
	return &ZerologLogger{l: c.Logger()}
}

func (z *ZerologLogger) emit(ctx context.Context, e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}
	e = e.Ctx(ctx)
	args = withContextFields(ctx, args)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			e = e.Interface("!BADKEY", args[i])
			break
		}
		if err, ok := args[i+1].(error); ok {
			e = e.AnErr(fmt.Sprint(args[i]), err)
			continue
		}
		e = e.Interface(fmt.Sprint(args[i]), args[i+1])
	}
	e.Msg(msg)
}

func zerologLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// newConsoleLogger builds a human-readable zerolog logger for local runs.
func newConsoleLogger(w io.Writer, level string) *ZerologLogger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	zl := zerolog.New(out).Level(zerologLevel(level)).With().Timestamp().Logger()
	return NewZerologLogger(zl)
}
