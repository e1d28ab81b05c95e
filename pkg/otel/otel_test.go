package otel

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"orderkit/pkg/logger"
)

func TestAddSpanUsesInjectedTracer(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	ctx := InjectTracing(context.Background(), tp.Tracer("test"))

	assert.Empty(t, GetTraceID(ctx))

	ctx, span := AddSpan(ctx, "createOrder", attribute.String("order.id", "o1"))
	id := GetTraceID(ctx)
	span.End()

	require.Len(t, rec.Ended(), 1)
	got := rec.Ended()[0]
	assert.Equal(t, "createOrder", got.Name())
	assert.Equal(t, got.SpanContext().TraceID().String(), id)
	assert.Contains(t, got.Attributes(), attribute.String("order.id", "o1"))
}

func TestInitTracingWithoutHost(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "test", nil)
	tp, shutdown, err := InitTracing(log, Config{ServiceName: "test", Probability: 1})
	require.NoError(t, err)
	defer shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	assert.NotEmpty(t, GetTraceID(ctx))
}
