package logger

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// ============================================
// Context operations
// ============================================

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}

// ============================================
// Context-aware logging
// ============================================

// FromContext returns a logger carrying request_id and user_id when present.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return GetLogger()
	}

	lc := GetLogger().With()
	if requestID := GetRequestID(ctx); requestID != "" {
		lc = lc.Str("request_id", requestID)
	}
	if userID := GetUserID(ctx); userID != "" {
		lc = lc.Str("user_id", userID)
	}

	l := lc.Logger()
	return &l
}

func CtxDebug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug().CallerSkipFrame(1).Fields(args).Msg(msg)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info().CallerSkipFrame(1).Fields(args).Msg(msg)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn().CallerSkipFrame(1).Fields(args).Msg(msg)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Error().CallerSkipFrame(1).Fields(args).Msg(msg)
}

// CtxWithError logs err at error level with the context fields.
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	FromContext(ctx).Error().CallerSkipFrame(1).Err(err).Fields(args).Msg(msg)
}
