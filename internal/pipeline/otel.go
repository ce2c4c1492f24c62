package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName identifies pipeline spans to the installed trace provider.
	TracerName = "communitypulse.pipeline"
)

// RunTracer provides OpenTelemetry instrumentation for cleaning runs. It
// uses the global tracer provider, so spans are no-ops unless the host
// application installs one.
type RunTracer struct {
	tracer trace.Tracer
}

// NewRunTracer creates a run tracer.
func NewRunTracer() *RunTracer {
	return &RunTracer{tracer: otel.Tracer(TracerName)}
}

// TraceRun creates the span covering an entire cleaning run.
func (t *RunTracer) TraceRun(ctx context.Context, runID string, stepCount, rows int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.step_count", stepCount),
			attribute.Int("run.input_rows", rows),
		),
	)
}

// TraceStep creates the span covering a single step execution.
func (t *RunTracer) TraceStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, fmt.Sprintf("pipeline.step.%s", stepID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion finalizes a step span.
func (t *RunTracer) RecordStepCompletion(span trace.Span, affected int, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.Int("step.rows_affected", affected),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "step execution failed")
		return
	}
	span.SetStatus(codes.Ok, "step completed")
}

// RecordRunCompletion finalizes a run span.
func (t *RunTracer) RecordRunCompletion(span trace.Span, status RunStatus, duration time.Duration, rowsOut int, err error) {
	span.SetAttributes(
		attribute.String("run.status", string(status)),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
		attribute.Int("run.output_rows", rowsOut),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("run failed: %v", err))
		return
	}
	span.SetStatus(codes.Ok, "run completed")
}
