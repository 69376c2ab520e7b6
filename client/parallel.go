package client

import (
	"context"

	"github.com/jkhoffman/cogni/core"
)

// ExecutionStrategy selects how a ParallelClient resolves one Request sent
// to several providers at once, mirroring cogni-client's ExecutionStrategy.
type ExecutionStrategy int

const (
	// All awaits every provider and returns the first success in input
	// order, or the last error if none succeeded.
	All ExecutionStrategy = iota
	// FirstSuccess returns as soon as any provider succeeds, cancelling the
	// rest; if every provider fails it returns the last error observed.
	FirstSuccess
	// Race returns whichever provider completes first, success or failure,
	// cancelling the rest.
	Race
)

// ParallelClient fans a single Request out to several providers per
// Execute's ExecutionStrategy.
type ParallelClient struct {
	providers []core.Client
	strategy  ExecutionStrategy
}

// NewParallelClient builds a ParallelClient over providers using strategy.
func NewParallelClient(strategy ExecutionStrategy, providers ...core.Client) *ParallelClient {
	return &ParallelClient{providers: providers, strategy: strategy}
}

// Execute runs req against p's providers per its strategy.
func (p *ParallelClient) Execute(ctx context.Context, req core.Request) (core.Response, error) {
	return Execute(ctx, req, p.strategy, p.providers...)
}

type parallelResult struct {
	index int
	resp  core.Response
	err   error
}

// Execute runs req against providers concurrently per strategy. Losing
// calls are explicitly cancelled via a shared context once the strategy has
// resolved, matching spec.md 5's "Parallel strategies explicitly abort
// losers."
func Execute(ctx context.Context, req core.Request, strategy ExecutionStrategy, providers ...core.Client) (core.Response, error) {
	if len(providers) == 0 {
		return core.Response{}, core.NewError(core.ErrValidation, "parallel: no providers given")
	}

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan parallelResult, len(providers))
	for i, p := range providers {
		i, p := i, p
		go func() {
			resp, err := p.Complete(cctx, req)
			select {
			case results <- parallelResult{index: i, resp: resp, err: err}:
			case <-cctx.Done():
			}
		}()
	}

	switch strategy {
	case FirstSuccess:
		var lastErr error
		for range providers {
			r := <-results
			if r.err == nil {
				cancel()
				return r.resp, nil
			}
			lastErr = r.err
		}
		return core.Response{}, lastErr

	case Race:
		r := <-results
		cancel()
		return r.resp, r.err

	default: // All
		all := make([]parallelResult, len(providers))
		for range providers {
			r := <-results
			all[r.index] = r
		}
		var lastErr error
		for _, r := range all {
			if r.err == nil {
				return r.resp, nil
			}
			lastErr = r.err
		}
		return core.Response{}, lastErr
	}
}

// ChatAll is the convenience cogni-client calls parallel_chat: build a
// single-user-message Request and execute it against providers.
func ChatAll(ctx context.Context, strategy ExecutionStrategy, prompt string, providers ...core.Client) (core.Response, error) {
	req := core.NewRequest([]core.Message{core.UserMessage(prompt)})
	return Execute(ctx, req, strategy, providers...)
}
