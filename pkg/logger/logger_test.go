package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoAttachesTraceFields(t *testing.T) {
	var buf bytes.Buffer
	previous := globalLogger
	globalLogger = New(&buf, Config{Level: "debug", Format: "json"})
	t.Cleanup(func() { globalLogger = previous })

	ctx := ContextWithTrace(context.Background(), "trace-1", "", "req-9")
	Info(ctx, "document submitted", "employee_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "document submitted", entry["msg"])
	assert.Equal(t, "trace-1", entry["trace_id"])
	assert.Equal(t, "req-9", entry["request_id"])
	assert.NotContains(t, entry, "span_id")
	assert.EqualValues(t, 7, entry["employee_id"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	previous := globalLogger
	globalLogger = New(&buf, Config{Level: "warn", Format: "text"})
	t.Cleanup(func() { globalLogger = previous })

	Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	Warn(context.Background(), "visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestTraceAccessors(t *testing.T) {
	ctx := ContextWithTrace(context.Background(), "t", "s", "r")
	assert.Equal(t, "t", TraceID(ctx))
	assert.Equal(t, "r", RequestID(ctx))
	assert.Empty(t, TraceID(context.Background()))
}
