package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/jkhoffman/cogni/telemetry"
	"github.com/stretchr/testify/require"
)

func TestNoopImplementationsDoNotPanic(t *testing.T) {
	ctx := context.Background()

	logger := telemetry.NewNoopLogger()
	logger.Debug(ctx, "msg", "k", "v")
	logger.Info(ctx, "msg")
	logger.Warn(ctx, "msg")
	logger.Error(ctx, "msg")

	metrics := telemetry.NewNoopMetrics()
	metrics.IncCounter("c", 1)
	metrics.RecordTimer("t", time.Millisecond)
	metrics.RecordGauge("g", 1.0)

	tracer := telemetry.NewNoopTracer()
	newCtx, span := tracer.Start(ctx, "span")
	require.Equal(t, ctx, newCtx)
	span.AddEvent("ev")
	span.End()
	require.NotNil(t, tracer.Span(ctx))
}
