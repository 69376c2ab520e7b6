// Package middleware provides the Tower-style Layer/Service composition
// core.Client adapters are wrapped in, plus the built-in middlewares: retry,
// rate limiting, caching, logging, and conversation-state stitching.
package middleware

import (
	"context"

	"github.com/jkhoffman/cogni/core"
)

// Service executes a single Request. It is the Go rendering of the Rust
// cogni-middleware Service trait — an explicit context.Context stands in
// for the trait's per-call cancellation, since Go has no async fn in
// interfaces.
type Service interface {
	Call(ctx context.Context, req core.Request) (core.Response, error)
}

// ServiceFunc adapts a plain function to a Service.
type ServiceFunc func(ctx context.Context, req core.Request) (core.Response, error)

// Call invokes f.
func (f ServiceFunc) Call(ctx context.Context, req core.Request) (core.Response, error) {
	return f(ctx, req)
}

// Layer wraps a Service with additional behavior, producing a new Service.
type Layer interface {
	Wrap(next Service) Service
}

// LayerFunc adapts a plain function to a Layer.
type LayerFunc func(next Service) Service

// Wrap invokes f.
func (f LayerFunc) Wrap(next Service) Service { return f(next) }

// Chain composes layers around inner so that, for Chain(inner, A, B, C), a
// call flows A -> B -> C -> inner: the first layer listed is outermost and
// sees the request first.
func Chain(inner Service, layers ...Layer) Service {
	svc := inner
	for i := len(layers) - 1; i >= 0; i-- {
		svc = layers[i].Wrap(svc)
	}
	return svc
}

// ClientService adapts a core.Client's Complete method to a Service, so
// providers can sit at the innermost position of a middleware chain.
func ClientService(c core.Client) Service {
	return ServiceFunc(func(ctx context.Context, req core.Request) (core.Response, error) {
		return c.Complete(ctx, req)
	})
}

// ServiceClient adapts a Service back into a core.Client whose Complete
// method runs the chain; Stream delegates to the wrapped client directly,
// so streaming calls do not pass through the middleware chain.
type ServiceClient struct {
	svc    Service
	stream core.Client
}

// NewServiceClient builds a core.Client whose Complete calls run through
// svc and whose Stream calls run directly against streamClient.
func NewServiceClient(svc Service, streamClient core.Client) *ServiceClient {
	return &ServiceClient{svc: svc, stream: streamClient}
}

// Complete implements core.Client.
func (c *ServiceClient) Complete(ctx context.Context, req core.Request) (core.Response, error) {
	return c.svc.Call(ctx, req)
}

// Stream implements core.Client.
func (c *ServiceClient) Stream(ctx context.Context, req core.Request) (core.Streamer, error) {
	return c.stream.Stream(ctx, req)
}
