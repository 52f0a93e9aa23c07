package logger

import (
	"context"
	"log/slog"
)

type (
	loggerKey  struct{}
	traceIDKey struct{}
)

// With returns a new context whose logger carries the given fields.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, loggerKey{}, From(ctx).With(fields...))
}

// WithTraceID binds a request trace id to ctx and to its logger, so work
// detached from the request (event handlers, notifications) still logs it.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	ctx = context.WithValue(ctx, traceIDKey{}, traceID)
	return With(ctx, "trace_id", traceID)
}

// TraceID returns the id bound by WithTraceID, or "".
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// From returns the logger stored in context, or default if missing.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
