package learner

import (
	"context"
	"testing"

	"github.com/ieee0824/compseg-go/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordingTracer(t *testing.T) (*tracetest.SpanRecorder, Option) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanRecorder(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return rec, WithTracer(tp.Tracer("learner_test"))
}

func spansNamed(spans []sdktrace.ReadOnlySpan, name string) []sdktrace.ReadOnlySpan {
	var out []sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == name {
			out = append(out, s)
		}
	}
	return out
}

func attr(s sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRunSpans(t *testing.T) {
	rec, tracer := recordingTracer(t)
	c := corpus.FromStrings(repeat(5, "p a t a", "k p a")...)
	_, err := Run(context.Background(), c, loadTable(t, placeTable), DefaultConfig(), tracer, WithRunID("traced"))
	require.NoError(t, err)

	ended := rec.Ended()
	runs := spansNamed(ended, "learner.Run")
	require.Len(t, runs, 1)
	run := runs[0]
	id, ok := attr(run, "run_id")
	require.True(t, ok)
	assert.Equal(t, "traced", id.AsString())
	n, ok := attr(run, "complex_segments")
	require.True(t, ok)
	assert.Equal(t, int64(1), n.AsInt64())
	assert.NotEqual(t, codes.Error, run.Status().Code)

	iters := spansNamed(ended, "learner.Iteration")
	require.Len(t, iters, 2)
	for i, s := range iters {
		assert.Equal(t, run.SpanContext().SpanID(), s.Parent().SpanID())
		step, ok := attr(s, "step")
		require.True(t, ok)
		assert.Equal(t, int64(i+1), step.AsInt64())
		_, ok = attr(s, "clusters")
		assert.True(t, ok)
	}
	admitted, ok := attr(iters[0], "admitted")
	require.True(t, ok)
	assert.Equal(t, int64(1), admitted.AsInt64())
	admitted, ok = attr(iters[1], "admitted")
	require.True(t, ok)
	assert.Equal(t, int64(0), admitted.AsInt64())
}

func TestRunSpanRecordsFailure(t *testing.T) {
	rec, tracer := recordingTracer(t)
	tab := loadTable(t, "\tsyll\tcons\tson\tvoice\nt\t-\t+\t-\t0\nd\t-\t+\t-\t+\n")
	_, err := Run(context.Background(), corpus.FromStrings("t d"), tab, DefaultConfig(), tracer)
	require.Error(t, err)

	ended := rec.Ended()
	assert.Empty(t, spansNamed(ended, "learner.Iteration"))
	runs := spansNamed(ended, "learner.Run")
	require.Len(t, runs, 1)
	assert.Equal(t, codes.Error, runs[0].Status().Code)
	assert.Equal(t, "ambiguous feature table", runs[0].Status().Description)

	var exceptions int
	for _, ev := range runs[0].Events() {
		if ev.Name == "exception" {
			exceptions++
		}
	}
	assert.Equal(t, 1, exceptions)
}
