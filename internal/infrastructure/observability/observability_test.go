package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLoggerFromContext_AddsTraceFields(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	InitLoggerWithWriter("nursinghomefinder", "production", &buf)

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	LoggerFromContext(ctx).Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, `"service":"nursinghomefinder"`)
	assert.Contains(t, out, `"trace_id":"`+span.SpanContext().TraceID().String()+`"`)
	assert.Contains(t, out, `"span_id"`)
}

func TestLoggerFromContext_WithoutSpan(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	InitLoggerWithWriter("nursinghomefinder", "production", &buf)

	LoggerFromContext(context.Background()).Info().Msg("plain")

	assert.Contains(t, buf.String(), `"message":"plain"`)
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestInitStoreMetrics_NoopProvider(t *testing.T) {
	metrics, err := InitStoreMetrics()
	require.NoError(t, err)
	require.NotNil(t, metrics)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordFetch(ctx, metrics, "applied", 12*time.Millisecond)
		RecordStale(ctx, metrics)
		RecordPersistError(ctx, metrics, "facilities")
	})
}

func TestRecorders_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordFetch(ctx, nil, "failed", time.Second)
		RecordStale(ctx, nil)
		RecordPersistError(ctx, nil, "filters")
	})
}
