package client

import (
	"context"

	"github.com/jkhoffman/cogni/core"
)

// Client is the high-level façade over a provider (a core.Client, typically
// a middleware.Chain-wrapped provider adapter), carrying default model and
// parameters the way cogni-client's Client holds a Provider plus defaults.
type Client struct {
	provider          core.Client
	defaultModel      core.Model
	defaultParameters core.Parameters
}

// Option configures a Client.
type Option func(*Client)

// WithDefaultModel sets the model new RequestBuilders default to when none
// is set explicitly.
func WithDefaultModel(m core.Model) Option {
	return func(c *Client) { c.defaultModel = m }
}

// WithDefaultParameters sets the parameters new RequestBuilders seed from.
func WithDefaultParameters(p core.Parameters) Option {
	return func(c *Client) { c.defaultParameters = p }
}

// New wraps provider, applying opts.
func New(provider core.Client, opts ...Option) *Client {
	c := &Client{provider: provider, defaultModel: core.DefaultModel}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewRequest starts a RequestBuilder seeded with the Client's defaults and
// bound to it, so Send can dispatch through its provider.
func (c *Client) NewRequest() *RequestBuilder {
	return &RequestBuilder{client: c, parameters: c.defaultParameters}
}

// Send dispatches req directly through the underlying provider, bypassing
// the builder.
func (c *Client) Send(ctx context.Context, req core.Request) (core.Response, error) {
	return c.provider.Complete(ctx, req)
}

// Stream dispatches req as a streaming call through the underlying
// provider.
func (c *Client) Stream(ctx context.Context, req core.Request) (core.Streamer, error) {
	return c.provider.Stream(ctx, req)
}

// Chat is a one-shot convenience: build a single-user-message request
// against prompt and send it, the Go analogue of a quick
// RequestBuilder::new().user(prompt).build() round trip.
func (c *Client) Chat(ctx context.Context, prompt string) (core.Response, error) {
	return c.NewRequest().User(prompt).Send(ctx)
}
