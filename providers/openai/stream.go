package openai

import (
	"context"
	"io"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"

	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/providers"
)

// StreamingService captures the SDK method used for streamed completions,
// mirroring ChatService's role for Complete.
type StreamingService interface {
	NewStreaming(ctx context.Context, body sdk.ChatCompletionNewParams, opts ...option.RequestOption) *ssestream.Stream[sdk.ChatCompletionChunk]
}

// StreamingClient implements core.Client.Stream on top of the SDK's SSE
// stream of ChatCompletionChunk events; Complete still goes through Client.
type StreamingClient struct {
	*Client
	streaming StreamingService
}

// NewStreamingClient pairs a ChatService (for Complete) with a
// StreamingService (for Stream); both are usually &sdk.NewClient(...).Chat.Completions.
func NewStreamingClient(chat ChatService, streaming StreamingService, defaultModel core.Model) (*StreamingClient, error) {
	c, err := New(chat, defaultModel)
	if err != nil {
		return nil, err
	}
	return &StreamingClient{Client: c, streaming: streaming}, nil
}

// Stream implements core.Client.
func (c *StreamingClient) Stream(ctx context.Context, req core.Request) (core.Streamer, error) {
	params, err := toRequestParams(req, c.defaultModel)
	if err != nil {
		return nil, err
	}
	stream := c.streaming.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		return nil, providers.ClassifyHTTPError("openai", nil, err)
	}
	return &streamer{stream: stream}, nil
}

type streamer struct {
	stream *ssestream.Stream[sdk.ChatCompletionChunk]
	done   bool
}

// Recv implements core.Streamer.
func (s *streamer) Recv() (core.StreamEvent, error) {
	if s.done {
		return core.StreamEvent{}, io.EOF
	}
	if !s.stream.Next() {
		if err := s.stream.Err(); err != nil {
			return core.StreamEvent{}, providers.ClassifyHTTPError("openai", nil, err)
		}
		s.done = true
		return core.DoneEvent(), nil
	}
	chunk := s.stream.Current()
	if len(chunk.Choices) == 0 {
		return s.Recv()
	}
	choice := chunk.Choices[0]

	if len(choice.Delta.ToolCalls) > 0 {
		tc := choice.Delta.ToolCalls[0]
		return core.ToolCallEvent(core.ToolCallDelta{
			Index:     int(tc.Index),
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}), nil
	}
	if choice.Delta.Content != "" {
		return core.ContentEvent(choice.Delta.Content), nil
	}
	return core.MetadataEvent(core.MetadataDelta{Model: chunk.Model, ID: chunk.ID}), nil
}

// Close implements core.Streamer.
func (s *streamer) Close() error {
	return s.stream.Close()
}

var _ core.Streamer = (*streamer)(nil)
var _ core.Client = (*StreamingClient)(nil)
