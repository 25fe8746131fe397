package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerHonoursLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Settings{LogLevel: "warn", LogFormat: "json"})

	logger.Info("dropped")
	logger.Warn("kept", "contact_id", "42")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.Equal(t, "42", record["contact_id"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNewLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, Settings{LogFormat: "TEXT"}).Info("hello")

	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestSettingsValidate(t *testing.T) {
	assert.NoError(t, Settings{LogLevel: "debug", LogFormat: "text", TraceExporter: "stdout"}.Validate())
	assert.NoError(t, Settings{}.Validate())

	err := Settings{LogLevel: "loud", LogFormat: "xml", TraceExporter: "zipkin"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
	assert.Contains(t, err.Error(), "OTEL_TRACES_EXPORTER")
}

func TestInitWithoutExporter(t *testing.T) {
	ctx := context.Background()
	instruments, shutdown, err := Init(ctx, "contacts-test", Settings{TraceExporter: ExporterNone, LogLevel: "error"})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, shutdown(ctx)) })

	_, span := instruments.Tracer("test").Start(ctx, "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	assert.NotNil(t, instruments.Meter("test"))
}

func TestNilInstrumentsFallBack(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("x"))
	assert.NotNil(t, instruments.Meter("x"))
}
