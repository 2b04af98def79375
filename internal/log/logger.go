package log

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

// CorrelationIDKey carries the per-request correlation ID through contexts.
const CorrelationIDKey contextKey = "correlation_id"

// LoggerContextKey carries a request-scoped *Logger through contexts.
const LoggerContextKey contextKey = "logger"

// Logger is a thin wrapper over slog so the rest of the codebase never
// imports slog directly.
type Logger struct {
	*slog.Logger
}

// New returns a JSON logger writing to stdout. The minimum level is taken
// from LOG_LEVEL (debug, info, warn, error); info when unset or invalid.
func New() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})

	return &Logger{Logger: slog.New(handler)}
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithCorrelationID returns a logger annotated with the correlation ID held
// in ctx, generating one when absent.
func (l *Logger) WithCorrelationID(ctx context.Context) *Logger {
	return &Logger{
		Logger: l.Logger.With(string(CorrelationIDKey), CorrelationIDFromContext(ctx)),
	}
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or a
// freshly generated one.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx != nil {
		if id, ok := ctx.Value(CorrelationIDKey).(string); ok && id != "" {
			return id
		}
	}

	return NewCorrelationID()
}

// NewCorrelationID generates a random correlation ID.
func NewCorrelationID() string {
	return uuid.New().String()
}

// FromContext returns the request-scoped logger injected by the router
// middleware, falling back to the given logger (annotated with the context's
// correlation ID) and finally to a fresh logger.
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
			return l
		}

		if fallback != nil {
			return fallback.WithCorrelationID(ctx)
		}

		return New().WithCorrelationID(ctx)
	}

	if fallback != nil {
		return fallback
	}

	return New()
}
