package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCorrelationID_UsesContextValue(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	ctx := context.WithValue(context.Background(), CorrelatedIDKey, "req-123")
	logger.WithCorrelationID(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-123", line["correlation_id"])
	assert.Equal(t, "hello", line["msg"])
}

func TestGetOrGenerateCorrelationID_GeneratesWhenMissing(t *testing.T) {
	id := GetOrGenerateCorrelationID(context.Background())
	assert.Len(t, id, 36)
}

func TestGetLoggerInstanceFromContext_PrefersInjectedLogger(t *testing.T) {
	injected := NewLogger(&bytes.Buffer{}, slog.LevelInfo)
	ctx := context.WithValue(context.Background(), LoggerKeyForContext, injected)

	assert.Same(t, injected, GetLoggerInstanceFromContext(ctx, nil))
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, slog.LevelDebug, levelFromEnv())

	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, slog.LevelInfo, levelFromEnv())
}
