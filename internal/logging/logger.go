// Package logging defines the structured-logging interface used by the
// server and its slog and zerolog backends.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are key/value pairs:
//
//	log.Info(ctx, "request", "method", "GET", "status", 200)
//
// Fields attached to ctx with ContextWith are logged before args.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

type fieldsKey struct{}

// ContextWith returns a copy of ctx carrying args in addition to any fields
// already attached to it.
func ContextWith(ctx context.Context, args ...any) context.Context {
	return context.WithValue(ctx, fieldsKey{}, withContextFields(ctx, args))
}

// withContextFields prepends the fields carried by ctx to args.
func withContextFields(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	fields, _ := ctx.Value(fieldsKey{}).([]any)
	if len(fields) == 0 {
		return args
	}
	out := make([]any, 0, len(fields)+len(args))
	out = append(out, fields...)
	return append(out, args...)
}
