package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextIdempotencyKey ctxKey = "idempotencyKey"

func IdempotencyKeyFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if key, ok := ctx.Value(ContextIdempotencyKey).(string); ok {
		return key
	}
	return ""
}

func ContextWithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ContextIdempotencyKey, key)
}

// WithTimeout bounds ctx by duration, or by 5 seconds when duration is not positive.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
