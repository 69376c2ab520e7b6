package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/jkhoffman/cogni/core"
	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket gating calls through the middleware chain.
// It wraps golang.org/x/time/rate.Limiter (the Go ecosystem's token bucket,
// playing the role cogni-middleware's hand-rolled TokenBucket plays in the
// Rust source) and additionally tracks the timestamps of recent requests so
// callers can introspect the current window, matching
// TokenBucket::requests_in_window.
type RateLimiter struct {
	limiter *rate.Limiter
	window  time.Duration

	mu    sync.Mutex
	times []time.Time
}

// NewRateLimiter builds a limiter refilling at refillRate tokens/sec up to
// capacity tokens, tracking request timestamps within window.
func NewRateLimiter(capacity int, refillRate float64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(refillRate), capacity),
		window:  window,
	}
}

// NewRateLimiterPerSecond builds a limiter allowing requestsPerSecond
// sustained throughput, capacity rounded up to the nearest whole token and a
// 1-second introspection window — the common case, mirroring
// RateLimitLayer::new(requests_per_second) in the Rust source.
func NewRateLimiterPerSecond(requestsPerSecond float64) *RateLimiter {
	capacity := int(requestsPerSecond)
	if float64(capacity) < requestsPerSecond {
		capacity++
	}
	if capacity < 1 {
		capacity = 1
	}
	return NewRateLimiter(capacity, requestsPerSecond, time.Second)
}

// Acquire blocks until a token is available or ctx is done, then records the
// request's timestamp for RequestsInWindow.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	r.times = append(r.times, time.Now())
	r.cleanLocked()
	r.mu.Unlock()
	return nil
}

// RequestsInWindow reports how many requests were acquired within the
// trailing window.
func (r *RateLimiter) RequestsInWindow() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleanLocked()
	return len(r.times)
}

func (r *RateLimiter) cleanLocked() {
	cutoff := time.Now().Add(-r.window)
	i := 0
	for i < len(r.times) && r.times[i].Before(cutoff) {
		i++
	}
	r.times = r.times[i:]
}

type rateLimitLayer struct {
	limiter *RateLimiter
}

// NewRateLimitLayer builds a Layer that gates every call on limiter.
func NewRateLimitLayer(limiter *RateLimiter) Layer {
	return &rateLimitLayer{limiter: limiter}
}

func (l *rateLimitLayer) Wrap(next Service) Service {
	return ServiceFunc(func(ctx context.Context, req core.Request) (core.Response, error) {
		if err := l.limiter.Acquire(ctx); err != nil {
			return core.Response{}, core.NewError(core.ErrTimeout, "rate limit wait cancelled")
		}
		return next.Call(ctx, req)
	})
}
