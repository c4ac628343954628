package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestWithCorrelationID_UsesContextValue(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	ctx := ContextWithCorrelationID(context.Background(), "req-123")
	logger.WithCorrelationID(ctx).Info("signup accepted")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-123", line["correlation_id"])
	assert.Equal(t, "signup accepted", line["msg"])
}

func TestGetLoggerInstanceFromContext_PrefersInjectedLogger(t *testing.T) {
	injected := NewDiscardLogger()
	ctx := ContextWithLogger(context.Background(), injected)

	assert.Same(t, injected, GetLoggerInstanceFromContext(ctx, NewDiscardLogger()))
}

func TestGetLoggerInstanceFromContext_FallsBack(t *testing.T) {
	fallback := NewDiscardLogger()

	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, fallback, GetLoggerInstanceFromContext(nil, fallback))
	assert.NotNil(t, GetLoggerInstanceFromContext(context.Background(), fallback))
}

func TestDetach_KeepsValuesDropsCancellation(t *testing.T) {
	parent, cancel := context.WithTimeout(ContextWithCorrelationID(context.Background(), "req-9"), time.Millisecond)
	cancel()

	detached := Detach(parent)

	assert.NoError(t, detached.Err())
	assert.Equal(t, "req-9", GetOrGenerateCorrelationID(detached))
}
