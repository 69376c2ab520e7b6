// Package anthropic provides a core.Client implementation backed by the
// Anthropic Messages API, adapted from the teacher's Claude adapter but
// retargeted at core.Request/core.Response and cogni's structured-output
// workaround (Anthropic has no native JSON-schema response format, so
// structured output is emulated via a synthetic forced tool call — see
// DESIGN.md).
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/providers"
)

// httpResponse extracts the underlying *http.Response from an SDK error, if
// any, so ClassifyHTTPError's status-code branches see the real response
// instead of always falling through to the generic Network branch. Per the
// SDK's own documented errors.As(err, &apierr) pattern.
func httpResponse(err error) *http.Response {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.Response
	}
	return nil
}

// MessagesService captures the subset of the Anthropic SDK client used by
// the adapter.
type MessagesService interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
	NewStreaming(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[sdk.MessageStreamEventUnion]
}

// StructuredOutputToolName is the synthetic tool name used to emulate
// core.JSONSchemaFormat: Anthropic has no response_format parameter, so a
// JSONSchemaFormat request is translated into a forced call to a tool named
// this, whose input schema is the requested schema.
const StructuredOutputToolName = "cogni_structured_output"

// Client implements core.Client via the Anthropic Messages API.
type Client struct {
	msg          MessagesService
	defaultModel core.Model
	maxTokens    uint32 // used when a Request sets no MaxTokens
}

// Options configures optional Client behavior.
type Options struct {
	DefaultModel core.Model
	// MaxTokens is the ceiling used when a Request specifies none; Anthropic
	// requires max_tokens on every call, unlike OpenAI/Ollama.
	MaxTokens uint32
}

// New builds a Client from an existing Messages service.
func New(msg MessagesService, opts Options) (*Client, error) {
	if msg == nil {
		return nil, core.NewError(core.ErrConfiguration, "anthropic: messages service is required")
	}
	if opts.DefaultModel == "" {
		return nil, core.NewError(core.ErrConfiguration, "anthropic: default model is required")
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	return &Client{msg: msg, defaultModel: opts.DefaultModel, maxTokens: maxTokens}, nil
}

// NewFromAPIKey constructs a Client using the SDK's default HTTP transport.
func NewFromAPIKey(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, core.NewError(core.ErrConfiguration, "anthropic: api key is required")
	}
	c := sdk.NewClient(option.WithAPIKey(apiKey))
	return New(&c.Messages, opts)
}

// Complete implements core.Client.
func (c *Client) Complete(ctx context.Context, req core.Request) (core.Response, error) {
	params, structuredTool, err := c.prepareRequest(req)
	if err != nil {
		return core.Response{}, err
	}
	msg, err := c.msg.New(ctx, params)
	if err != nil {
		return core.Response{}, providers.ClassifyHTTPError("anthropic", httpResponse(err), err)
	}
	return translateResponse(msg, structuredTool), nil
}

// Stream implements core.Client.
func (c *Client) Stream(ctx context.Context, req core.Request) (core.Streamer, error) {
	params, structuredTool, err := c.prepareRequest(req)
	if err != nil {
		return nil, err
	}
	stream := c.msg.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		return nil, providers.ClassifyHTTPError("anthropic", httpResponse(err), err)
	}
	return newStreamer(stream, structuredTool), nil
}

func (c *Client) prepareRequest(req core.Request) (sdk.MessageNewParams, bool, error) {
	if len(req.Messages) == 0 {
		return sdk.MessageNewParams{}, false, core.NewError(core.ErrValidation, "anthropic: request must contain at least one message")
	}
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	maxTokens := c.maxTokens
	if req.Parameters.MaxTokens != nil {
		maxTokens = *req.Parameters.MaxTokens
	}

	msgs, system, err := toAnthropicMessages(req.Messages)
	if err != nil {
		return sdk.MessageNewParams{}, false, err
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  msgs,
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}
	if req.Parameters.Temperature != nil {
		params.Temperature = sdk.Float(float64(*req.Parameters.Temperature))
	}
	if req.Parameters.TopP != nil {
		params.TopP = sdk.Float(float64(*req.Parameters.TopP))
	}
	if len(req.Parameters.Stop) > 0 {
		params.StopSequences = req.Parameters.Stop
	}

	tools, err := toAnthropicTools(req.Tools)
	if err != nil {
		return sdk.MessageNewParams{}, false, err
	}

	structuredTool := false
	if jsf, ok := req.ResponseFormat.(core.JSONSchemaFormat); ok {
		schema, err := toolInputSchema(jsf.Schema)
		if err != nil {
			return sdk.MessageNewParams{}, false, err
		}
		tools = append(tools, sdk.ToolUnionParamOfTool(schema, StructuredOutputToolName))
		params.ToolChoice = sdk.ToolChoiceParamOfTool(StructuredOutputToolName)
		structuredTool = true
	} else if req.ToolChoice.Mode != core.ToolChoiceAuto {
		tc, err := toAnthropicToolChoice(req.ToolChoice)
		if err != nil {
			return sdk.MessageNewParams{}, false, err
		}
		params.ToolChoice = tc
	}
	if len(tools) > 0 {
		params.Tools = tools
	}

	return params, structuredTool, nil
}

func toAnthropicMessages(msgs []core.Message) ([]sdk.MessageParam, string, error) {
	conversation := make([]sdk.MessageParam, 0, len(msgs))
	var system string
	for _, m := range msgs {
		if m.Role == core.RoleSystem {
			text, ok := core.AsText(m.Content)
			if ok {
				if system != "" {
					system += "\n\n"
				}
				system += text
			}
			continue
		}
		block, err := toContentBlock(m)
		if err != nil {
			return nil, "", err
		}
		switch m.Role {
		case core.RoleUser:
			conversation = append(conversation, sdk.NewUserMessage(block))
		case core.RoleAssistant:
			conversation = append(conversation, sdk.NewAssistantMessage(block))
		case core.RoleTool:
			conversation = append(conversation, sdk.NewUserMessage(
				sdk.NewToolResultBlock(m.Metadata.ToolCallID, block.OfText.Text, false),
			))
		default:
			return nil, "", core.NewError(core.ErrValidation, fmt.Sprintf("anthropic: unsupported message role %q", m.Role))
		}
	}
	if len(conversation) == 0 {
		return nil, "", core.NewError(core.ErrValidation, "anthropic: at least one user/assistant message is required")
	}
	return conversation, system, nil
}

func toContentBlock(m core.Message) (sdk.ContentBlockParamUnion, error) {
	text, ok := core.AsText(m.Content)
	if !ok {
		return sdk.ContentBlockParamUnion{}, core.NewError(core.ErrSerialization,
			"anthropic: only text content is currently supported")
	}
	return sdk.NewTextBlock(text), nil
}

func toAnthropicTools(tools []core.Tool) ([]sdk.ToolUnionParam, error) {
	if len(tools) == 0 {
		return nil, nil
	}
	out := make([]sdk.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		schema, err := toolInputSchema(t.Function.Parameters)
		if err != nil {
			return nil, core.NewSerializationError(fmt.Sprintf("anthropic: tool %q schema", t.Name), err)
		}
		u := sdk.ToolUnionParamOfTool(schema, t.Name)
		if u.OfTool != nil {
			u.OfTool.Description = sdk.String(t.Description)
		}
		out = append(out, u)
	}
	return out, nil
}

func toolInputSchema(raw json.RawMessage) (sdk.ToolInputSchemaParam, error) {
	if len(raw) == 0 {
		return sdk.ToolInputSchemaParam{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return sdk.ToolInputSchemaParam{}, err
	}
	return sdk.ToolInputSchemaParam{ExtraFields: m}, nil
}

func toAnthropicToolChoice(choice core.ToolChoice) (sdk.ToolChoiceUnionParam, error) {
	switch choice.Mode {
	case core.ToolChoiceNone:
		none := sdk.NewToolChoiceNoneParam()
		return sdk.ToolChoiceUnionParam{OfNone: &none}, nil
	case core.ToolChoiceRequired:
		return sdk.ToolChoiceUnionParam{OfAny: &sdk.ToolChoiceAnyParam{}}, nil
	case core.ToolChoiceSpecific:
		if choice.Name == "" {
			return sdk.ToolChoiceUnionParam{}, core.NewError(core.ErrValidation, "anthropic: specific tool choice requires a name")
		}
		return sdk.ToolChoiceParamOfTool(choice.Name), nil
	default:
		return sdk.ToolChoiceUnionParam{}, nil
	}
}

func translateResponse(msg *sdk.Message, structuredTool bool) core.Response {
	resp := core.Response{}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			resp.Content += block.Text
		case "tool_use":
			if structuredTool && block.Name == StructuredOutputToolName {
				data, _ := json.Marshal(block.Input)
				resp.Content = string(data)
				continue
			}
			data, _ := json.Marshal(block.Input)
			resp.ToolCalls = append(resp.ToolCalls, core.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: string(data),
			})
		}
	}
	resp.Metadata = core.ResponseMetadata{
		Model:        string(msg.Model),
		ID:           msg.ID,
		FinishReason: toFinishReason(string(msg.StopReason)),
		Usage: &core.Usage{
			PromptTokens:     uint32(msg.Usage.InputTokens),
			CompletionTokens: uint32(msg.Usage.OutputTokens),
			TotalTokens:      uint32(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}
	return resp
}

func toFinishReason(s string) core.FinishReason {
	switch s {
	case "end_turn", "stop_sequence":
		return core.FinishStop
	case "max_tokens":
		return core.FinishLength
	case "tool_use":
		return core.FinishToolCalls
	default:
		return core.FinishReason(s)
	}
}

var _ core.Client = (*Client)(nil)
