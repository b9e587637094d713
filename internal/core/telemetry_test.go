// AngelaMos | 2026
// telemetry_test.go

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/tharunrega/smansys/internal/config"
)

func TestSamplerFallsBackToDefaultRate(t *testing.T) {
	t.Parallel()

	assert.Contains(t, sampler(0).Description(), "TraceIDRatioBased{0.1}")
	assert.Contains(t, sampler(1.5).Description(), "TraceIDRatioBased{0.1}")
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased{0.5}")
}

func TestNewTelemetryRequiresEndpoint(t *testing.T) {
	t.Parallel()

	_, err := NewTelemetry(context.Background(), config.OtelConfig{Enabled: true}, config.AppConfig{})
	assert.Error(t, err)

	var tel *Telemetry
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestSpanHelpers(t *testing.T) {
	t.Parallel()

	assert.Empty(t, TraceIDFromContext(context.Background()))

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	assert.Equal(t, span.SpanContext().TraceID().String(), TraceIDFromContext(ctx))

	AddSpanEvent(ctx, "student.created")
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "boom", ended[0].Status().Description)

	names := make([]string, 0, len(ended[0].Events()))
	for _, ev := range ended[0].Events() {
		names = append(names, ev.Name)
	}
	assert.Contains(t, names, "student.created")
	assert.Contains(t, names, "exception")
}
