package runlog

import (
	"context"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanExporter writes finished spans to a Logger at Debug level, so a run
// log carries per-iteration timings without a collector.
type SpanExporter struct {
	log *Logger
}

// NewSpanExporter returns an exporter writing to l.
func NewSpanExporter(l *Logger) *SpanExporter {
	return &SpanExporter{log: l}
}

// NewTracerProvider returns a provider that exports every span
// synchronously to l.
func NewTracerProvider(l *Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewSpanExporter(l)))
}

// ExportSpans logs one record per span.
func (e *SpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		args := []any{
			"span", s.Name(),
			"duration", s.EndTime().Sub(s.StartTime()),
			"status", s.Status().Code.String(),
		}
		if d := s.Status().Description; d != "" {
			args = append(args, "status_message", d)
		}
		for _, kv := range s.Attributes() {
			args = append(args, slog.Any(string(kv.Key), kv.Value.AsInterface()))
		}
		e.log.DebugContext(ctx, "span ended", args...)
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter.
func (e *SpanExporter) Shutdown(context.Context) error { return nil }
