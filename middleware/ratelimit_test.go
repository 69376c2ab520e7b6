package middleware_test

import (
	"context"
	"testing"
	"time"

	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/middleware"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAcquireWithinCapacity(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, 100, time.Second)
	ctx := context.Background()

	require.NoError(t, limiter.Acquire(ctx))
	require.NoError(t, limiter.Acquire(ctx))
	require.Equal(t, 2, limiter.RequestsInWindow())
}

func TestRateLimiterRespectsContextCancellation(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, 0.001, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.NoError(t, limiter.Acquire(context.Background()))
	err := limiter.Acquire(ctx)
	require.Error(t, err)
}

func TestRateLimitLayerGatesCalls(t *testing.T) {
	calls := 0
	inner := middleware.ServiceFunc(func(ctx context.Context, req core.Request) (core.Response, error) {
		calls++
		return core.TextResponse("ok"), nil
	})

	limiter := middleware.NewRateLimiterPerSecond(1000)
	svc := middleware.Chain(inner, middleware.NewRateLimitLayer(limiter))

	_, err := svc.Call(context.Background(), core.NewRequest(nil))
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}
