package middleware

import (
	"context"
	"time"

	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/telemetry"
)

type loggingLayer struct {
	logger  telemetry.Logger
	metrics telemetry.Metrics
	tracer  telemetry.Tracer
}

// NewLoggingLayer builds a Layer that logs each call's duration and outcome,
// records a "cogni.request" span, and increments success/error counters. Any
// of the telemetry collaborators may be nil, in which case a no-op stands in
// for it.
func NewLoggingLayer(logger telemetry.Logger, metrics telemetry.Metrics, tracer telemetry.Tracer) Layer {
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	if tracer == nil {
		tracer = telemetry.NewNoopTracer()
	}
	return &loggingLayer{logger: logger, metrics: metrics, tracer: tracer}
}

func (l *loggingLayer) Wrap(next Service) Service {
	return ServiceFunc(func(ctx context.Context, req core.Request) (core.Response, error) {
		ctx, span := l.tracer.Start(ctx, "cogni.request")
		defer span.End()

		start := time.Now()
		l.logger.Debug(ctx, "request started", "model", string(req.Model), "messages", len(req.Messages))

		resp, err := next.Call(ctx, req)
		elapsed := time.Since(start)
		l.metrics.RecordTimer("cogni.request.duration", elapsed, "model", string(req.Model))

		if err != nil {
			l.metrics.IncCounter("cogni.request.errors", 1, "model", string(req.Model))
			span.RecordError(err)
			l.logger.Error(ctx, "request failed", "model", string(req.Model), "duration_ms", elapsed.Milliseconds(), "error", err)
			return core.Response{}, err
		}

		l.metrics.IncCounter("cogni.request.success", 1, "model", string(req.Model))
		l.logger.Info(ctx, "request completed", "model", string(req.Model), "duration_ms", elapsed.Milliseconds())
		return resp, nil
	})
}
