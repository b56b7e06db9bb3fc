package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	CorrelatedIDKey     contextKey = "correlation_id"
	LoggerKeyForContext contextKey = "logger"
)

type Logger struct {
	*slog.Logger
}

// NewLoggerWithJSONOutput logs JSON to stdout at the level named by LOG_LEVEL (default info).
func NewLoggerWithJSONOutput() *Logger {
	return NewLogger(os.Stdout, levelFromEnv())
}

func NewLogger(w io.Writer, level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})),
	}
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

func (l *Logger) WithCorrelationID(ctx context.Context) *Logger {
	return &Logger{
		Logger: l.Logger.With(string(CorrelatedIDKey), GetOrGenerateCorrelationID(ctx)),
	}
}

func GetOrGenerateCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelatedIDKey).(string); ok && id != "" {
		return id
	}

	return GenerateCorrelationID()
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}

// GetLoggerInstanceFromContext prefers the request-scoped logger injected by
// the router, then a correlated copy of fallbackLogger.
func GetLoggerInstanceFromContext(ctx context.Context, fallbackLogger *Logger) *Logger {
	if ctx == nil {
		if fallbackLogger != nil {
			return fallbackLogger
		}
		return NewLoggerWithJSONOutput()
	}

	if l, ok := ctx.Value(LoggerKeyForContext).(*Logger); ok {
		return l
	}

	if fallbackLogger != nil {
		return fallbackLogger.WithCorrelationID(ctx)
	}
	return NewLoggerWithJSONOutput().WithCorrelationID(ctx)
}
