package runlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func TestSpanExporter(t *testing.T) {
	var buf bytes.Buffer
	tp := NewTracerProvider(NewText(&buf, slog.LevelDebug))
	ctx := context.Background()

	_, span := tp.Tracer("test").Start(ctx, "learner.Iteration")
	span.SetAttributes(attribute.Int("admitted", 2))
	span.End()

	_, span = tp.Tracer("test").Start(ctx, "learner.Run")
	span.RecordError(errors.New("boom"))
	span.SetStatus(codes.Error, "configuration")
	span.End()
	require.NoError(t, tp.Shutdown(ctx))

	out := buf.String()
	assert.Contains(t, out, "span=learner.Iteration")
	assert.Contains(t, out, "admitted=2")
	assert.Contains(t, out, "status=Unset")
	assert.Contains(t, out, "span=learner.Run")
	assert.Contains(t, out, "status=Error")
	assert.Contains(t, out, "status_message=configuration")
}

func TestSpanExporterBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	tp := NewTracerProvider(NewText(&buf, slog.LevelInfo))
	_, span := tp.Tracer("test").Start(context.Background(), "learner.Run")
	span.End()
	require.NoError(t, tp.Shutdown(context.Background()))
	assert.Empty(t, buf.String())
}
