package middleware

import (
	"context"
	"math"
	"time"

	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/telemetry"
)

// RetryConfig controls the retry middleware's backoff schedule. Defaults
// match cogni's Rust RetryConfig exactly: 3 attempts, 100ms initial backoff
// doubling up to a 30s ceiling.
type RetryConfig struct {
	MaxAttempts      uint32
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	BackoffMultiplier float64
}

// DefaultRetryConfig returns cogni's default retry schedule.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// shouldRetry classifies an error by core.ErrorKind: Network and Timeout are
// always retried, Provider only when the provider gave a retry-after hint,
// everything else never is. This mirrors core.Error.Retryable exactly,
// kept as a separate function so non-*core.Error failures (e.g. a context
// deadline from the caller) are never retried.
func shouldRetry(err error) bool {
	e, ok := core.AsError(err)
	if !ok {
		return false
	}
	return e.Retryable()
}

// calculateBackoff returns the delay before retry attempt number (0-based).
func calculateBackoff(cfg RetryConfig, attempt uint32) time.Duration {
	backoffMs := float64(cfg.InitialBackoff.Milliseconds()) * math.Pow(cfg.BackoffMultiplier, float64(attempt))
	backoff := time.Duration(backoffMs) * time.Millisecond
	if backoff > cfg.MaxBackoff {
		return cfg.MaxBackoff
	}
	return backoff
}

type retryLayer struct {
	cfg    RetryConfig
	logger telemetry.Logger
}

// NewRetryLayer builds a Layer that retries a failing call according to cfg,
// sleeping between attempts per calculateBackoff and giving up immediately
// on non-retryable errors.
func NewRetryLayer(cfg RetryConfig, logger telemetry.Logger) Layer {
	if logger == nil {
		logger = telemetry.NewNoopLogger()
	}
	return &retryLayer{cfg: cfg, logger: logger}
}

func (l *retryLayer) Wrap(next Service) Service {
	return ServiceFunc(func(ctx context.Context, req core.Request) (core.Response, error) {
		for attempt := uint32(0); ; attempt++ {
			resp, err := next.Call(ctx, req)
			if err == nil {
				if attempt > 0 {
					l.logger.Info(ctx, "request succeeded after retry", "attempt", attempt)
				}
				return resp, nil
			}
			if !shouldRetry(err) || attempt+1 >= l.cfg.MaxAttempts {
				return core.Response{}, err
			}
			backoff := calculateBackoff(l.cfg, attempt)
			// A provider-supplied retry_after overrides the computed
			// schedule entirely, per spec.md 4.3.1.
			if e, ok := core.AsError(err); ok && e.RetryAfter != nil {
				backoff = *e.RetryAfter
			}
			l.logger.Warn(ctx, "retrying request", "attempt", attempt+1, "backoff_ms", backoff.Milliseconds())
			select {
			case <-ctx.Done():
				return core.Response{}, ctx.Err()
			case <-time.After(backoff):
			}
		}
	})
}
