// Package ollama provides a core.Client implementation backed by Ollama's
// local /api/chat HTTP endpoint. There is no official Ollama Go SDK in the
// dependency pack, so unlike providers/openai and providers/anthropic this
// adapter talks to the plain JSON HTTP API directly through
// providers.HTTPTransport, grounded on cogni-providers' reqwest-based
// Ollama provider (converter.rs/parser.rs/stream.rs).
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/providers"
)

const defaultBaseURL = "http://localhost:11434"

// Client implements core.Client via Ollama's /api/chat endpoint.
type Client struct {
	transport    providers.HTTPTransport
	baseURL      string
	defaultModel core.Model
}

// New builds a Client using transport to reach baseURL (e.g.
// "http://localhost:11434"). An empty baseURL defaults to the local
// instance.
func New(transport providers.HTTPTransport, baseURL string, defaultModel core.Model) (*Client, error) {
	if transport == nil {
		return nil, core.NewError(core.ErrConfiguration, "ollama: transport is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if defaultModel == "" {
		defaultModel = "llama3.2"
	}
	return &Client{transport: transport, baseURL: strings.TrimRight(baseURL, "/"), defaultModel: defaultModel}, nil
}

// Local returns a Client pointed at the default local Ollama instance using
// *http.Client's default transport.
func Local() (*Client, error) {
	return New(providers.StdTransport{}, defaultBaseURL, "llama3.2")
}

type chatMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []chatToolCall `json:"tool_calls,omitempty"`
}

type chatToolCall struct {
	Function chatFunctionCall `json:"function"`
}

type chatFunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type chatOptions struct {
	Temperature *float32 `json:"temperature,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`
	Stop        []string `json:"stop,omitempty"`
	Seed        *uint64  `json:"seed,omitempty"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   *bool         `json:"stream,omitempty"`
	Options  *chatOptions  `json:"options,omitempty"`
	Tools    []chatTool    `json:"tools,omitempty"`
	Format   any           `json:"format,omitempty"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// Complete implements core.Client.
func (c *Client) Complete(ctx context.Context, req core.Request) (core.Response, error) {
	body, err := toChatRequest(req, c.defaultModel)
	if err != nil {
		return core.Response{}, err
	}
	streaming := false
	body.Stream = &streaming

	data, err := json.Marshal(body)
	if err != nil {
		return core.Response{}, core.NewSerializationError("ollama: marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return core.Response{}, core.NewNetworkError("ollama: build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.transport.Do(httpReq)
	if err != nil {
		return core.Response{}, providers.ClassifyHTTPError("ollama", nil, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.Response{}, providers.ClassifyHTTPError("ollama", resp, nil)
	}
	defer resp.Body.Close()

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return core.Response{}, core.NewSerializationError("ollama: decode response", err)
	}
	return fromChatResponse(cr), nil
}

func toChatRequest(req core.Request, defaultModel core.Model) (chatRequest, error) {
	if len(req.Messages) == 0 {
		return chatRequest{}, core.NewError(core.ErrValidation, "ollama: request must contain at least one message")
	}
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	messages := make([]chatMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, chatMessage{Role: string(m.Role), Content: contentToText(m.Content)})
	}

	var opts *chatOptions
	if req.Parameters.Temperature != nil || req.Parameters.TopP != nil || len(req.Parameters.Stop) > 0 || req.Parameters.Seed != nil {
		opts = &chatOptions{
			Temperature: req.Parameters.Temperature,
			TopP:        req.Parameters.TopP,
			Stop:        req.Parameters.Stop,
			Seed:        req.Parameters.Seed,
		}
	}

	var tools []chatTool
	for _, t := range req.Tools {
		tools = append(tools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Function.Parameters,
			},
		})
	}

	var format any
	switch f := req.ResponseFormat.(type) {
	case core.JSONObjectFormat:
		format = "json"
	case core.JSONSchemaFormat:
		var schema any
		if len(f.Schema) > 0 {
			if err := json.Unmarshal(f.Schema, &schema); err != nil {
				return chatRequest{}, core.NewSerializationError("ollama: response format schema", err)
			}
		}
		format = schema
	}

	return chatRequest{
		Model:    string(model),
		Messages: messages,
		Options:  opts,
		Tools:    tools,
		Format:   format,
	}, nil
}

// contentToText flattens any Content into plain text the way the Rust
// converter does: inline placeholders for image/audio, newline-joined text
// parts for Multiple, since Ollama's chat API only accepts string content.
func contentToText(c core.Content) string {
	switch v := c.(type) {
	case core.TextContent:
		return v.Text
	case core.ImageContent:
		return "[Image content not yet supported]"
	case core.AudioContent:
		return "[Audio content not yet supported]"
	case core.MultiContent:
		var parts []string
		for _, item := range v.Items {
			if t, ok := item.(core.TextContent); ok {
				parts = append(parts, t.Text)
			}
		}
		return strings.Join(parts, "\n")
	default:
		return ""
	}
}

func fromChatResponse(cr chatResponse) core.Response {
	resp := core.Response{
		Content: cr.Message.Content,
		Metadata: core.ResponseMetadata{
			Model: cr.Model,
		},
	}
	for i, tc := range cr.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, core.ToolCall{
			ID:        fmt.Sprintf("call_%d", i),
			Name:      tc.Function.Name,
			Arguments: string(tc.Function.Arguments),
		})
	}
	if len(resp.ToolCalls) > 0 {
		resp.Metadata.FinishReason = core.FinishToolCalls
	} else {
		resp.Metadata.FinishReason = core.FinishStop
	}
	return resp
}

var _ core.Client = (*Client)(nil)
