// Package requestctx carries the inbound request id to the upstream calls
// made while serving it.
package requestctx

import (
	"context"
	"log/slog"
)

// Header is read from callers and forwarded to WinTeam and Monday.
const Header = "X-Request-ID"

type ctxKey string

const requestIDKey ctxKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// Logger returns the default logger tagged with the request id, if any.
func Logger(ctx context.Context) *slog.Logger {
	if id := GetRequestID(ctx); id != "" {
		return slog.Default().With("requestId", id)
	}
	return slog.Default()
}
