package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/providers"
)

// Stream implements core.Client, issuing the same /api/chat request as
// Complete with stream:true and reading Ollama's newline-delimited JSON
// response body one line at a time.
func (c *Client) Stream(ctx context.Context, req core.Request) (core.Streamer, error) {
	body, err := toChatRequest(req, c.defaultModel)
	if err != nil {
		return nil, err
	}
	streaming := true
	body.Stream = &streaming

	data, err := json.Marshal(body)
	if err != nil {
		return nil, core.NewSerializationError("ollama: marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return nil, core.NewNetworkError("ollama: build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.transport.Do(httpReq)
	if err != nil {
		return nil, providers.ClassifyHTTPError("ollama", nil, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, providers.ClassifyHTTPError("ollama", resp, nil)
	}
	return &streamer{body: resp.Body, scanner: bufio.NewScanner(resp.Body)}, nil
}

// streamer reads Ollama's newline-delimited JSON chat-stream responses,
// emitting one core.StreamEvent per line, matching the line-buffering
// approach of the Rust OllamaStream (which accumulates bytes until a '\n'
// rather than assuming one JSON object per network chunk).
type streamer struct {
	body      io.ReadCloser
	scanner   *bufio.Scanner
	sawModel  bool
	toolsSent bool
	done      bool
}

// Recv implements core.Streamer.
func (s *streamer) Recv() (core.StreamEvent, error) {
	if s.done {
		return core.StreamEvent{}, io.EOF
	}
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		var cr chatResponse
		if err := json.Unmarshal([]byte(line), &cr); err != nil {
			return core.StreamEvent{}, core.NewSerializationError("ollama: decode stream line", err)
		}

		if !s.sawModel && cr.Model != "" {
			s.sawModel = true
			return core.MetadataEvent(core.MetadataDelta{Model: cr.Model}), nil
		}
		if cr.Message.Content != "" {
			return core.ContentEvent(cr.Message.Content), nil
		}
		if !s.toolsSent && len(cr.Message.ToolCalls) > 0 {
			s.toolsSent = true
			tc := cr.Message.ToolCalls[0]
			return core.ToolCallEvent(core.ToolCallDelta{
				Index:     0,
				ID:        "call_0",
				Name:      tc.Function.Name,
				Arguments: string(tc.Function.Arguments),
			}), nil
		}
		if cr.Done {
			s.done = true
			return core.DoneEvent(), nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return core.StreamEvent{}, core.NewNetworkError("ollama: read stream", err)
	}
	s.done = true
	return core.DoneEvent(), nil
}

// Close implements core.Streamer.
func (s *streamer) Close() error {
	return s.body.Close()
}

var _ core.Streamer = (*streamer)(nil)
