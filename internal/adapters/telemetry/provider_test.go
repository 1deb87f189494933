package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/bsp/internal/adapters/telemetry"
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/bsp/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
}

func setupRecorder(t *testing.T) (*tracetest.SpanRecorder, *telemetry.OTelTracer) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := telemetry.NewProvider(sr)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, telemetry.NewOTelTracerFromProvider(tp, "test-tracer")
}

func attrs(span trace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestOTelTracer_StartAttributes(t *testing.T) {
	sr, tracer := setupRecorder(t)

	_, span := tracer.Start(context.Background(), "//:lib",
		ports.WithAttribute("bsp.target", "//:lib"),
		ports.WithAttribute("bsp.field_sets", 2),
	)
	span.SetAttribute("bsp.status", domain.StatusOK)
	span.SetAttribute("bsp.backends", []string{"javac", "scalac"})
	span.SetAttribute("bsp.cached", false)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "//:lib", spans[0].Name())

	got := attrs(spans[0])
	assert.Equal(t, "//:lib", got["bsp.target"].AsString())
	assert.Equal(t, int64(2), got["bsp.field_sets"].AsInt64())
	assert.Equal(t, "OK", got["bsp.status"].AsString())
	assert.Equal(t, []string{"javac", "scalac"}, got["bsp.backends"].AsStringSlice())
	assert.False(t, got["bsp.cached"].AsBool())
}

func TestOTelTracer_RecordError(t *testing.T) {
	sr, tracer := setupRecorder(t)

	_, span := tracer.Start(context.Background(), "javac")
	span.RecordError(errors.New("javac exited with 1"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "javac exited with 1", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestOTelTracer_EmitPlanAndWrite(t *testing.T) {
	sr, tracer := setupRecorder(t)

	// No span in context: nothing is recorded.
	tracer.EmitPlan(context.Background(), []string{"//:a"})
	assert.Empty(t, sr.Ended())

	ctx, span := tracer.Start(context.Background(), "compile")
	tracer.EmitPlan(ctx, []string{"//:a", "//:b"})
	n, err := span.Write([]byte("compiling"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 2)
	assert.Equal(t, "plan_emitted", events[0].Name)
	assert.Equal(t, "log", events[1].Name)
}

func TestOTelTracer_NestedSpans(t *testing.T) {
	sr, tracer := setupRecorder(t)

	ctx, parent := tracer.Start(context.Background(), "compile")
	_, child := tracer.Start(ctx, "//:lib")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestNoOpTracer(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	got, span := tracer.Start(ctx, "noop", ports.WithAttribute("k", "v"))
	assert.Equal(t, ctx, got)

	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	n, err := span.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	span.End()
	tracer.EmitPlan(ctx, []string{"//:a"})
}

func TestLogProcessor_LogsEndedSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var lines []string
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) { lines = append(lines, msg) }).Times(2)

	tp := telemetry.NewProvider(telemetry.NewLogProcessor(log))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := telemetry.NewOTelTracerFromProvider(tp, "test-tracer")

	_, ok := tracer.Start(context.Background(), "javac")
	ok.End()

	_, failed := tracer.Start(context.Background(), "scalac")
	failed.RecordError(errors.New("scalac exited with 1"))
	failed.End()

	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "trace javac "))
	assert.True(t, strings.HasPrefix(lines[1], "trace scalac "))
	assert.True(t, strings.HasSuffix(lines[1], "(scalac exited with 1)"))
}
