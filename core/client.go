package core

import "context"

// Client is the provider-neutral interface every adapter (openai, anthropic,
// ollama) and every middleware decorator implements. A Client is both the
// innermost collaborator a middleware chain wraps and the outermost type a
// caller holds.
type Client interface {
	// Complete executes req and returns the full Response.
	Complete(ctx context.Context, req Request) (Response, error)
	// Stream executes req and returns a Streamer over incremental events.
	// Returns an Error{Kind: Configuration} if the adapter does not support
	// streaming.
	Stream(ctx context.Context, req Request) (Streamer, error)
}

// Streamer yields StreamEvents from an in-flight streaming call.
type Streamer interface {
	// Recv returns the next event, or an error once the stream ends
	// (implementations return a final StreamEventDone event before the
	// underlying transport closes, not in place of an error).
	Recv() (StreamEvent, error)
	// Close releases the underlying transport. Safe to call more than once.
	Close() error
}
