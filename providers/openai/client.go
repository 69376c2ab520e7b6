// Package openai provides a core.Client implementation backed by the OpenAI
// Chat Completions API, built on the official github.com/openai/openai-go
// SDK client.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/providers"
)

// httpResponse extracts the underlying *http.Response from an SDK error, if
// any, so ClassifyHTTPError's status-code branches (401/403 -> Authentication,
// 429 -> Provider with Retry-After, ...) see the real response instead of
// always falling through to the generic Network branch. Per the SDK's own
// documented errors.As(err, &apierr) pattern.
func httpResponse(err error) *http.Response {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.Response
	}
	return nil
}

// ChatService captures the subset of the OpenAI SDK used by the adapter, so
// tests can substitute a fake without a network round-trip.
type ChatService interface {
	New(ctx context.Context, body sdk.ChatCompletionNewParams, opts ...option.RequestOption) (*sdk.ChatCompletion, error)
}

// Client implements core.Client via the OpenAI Chat Completions API.
type Client struct {
	chat         ChatService
	defaultModel core.Model
}

// New builds a Client from an existing chat-completions service, e.g.
// &sdk.NewClient(...).Chat.Completions.
func New(chat ChatService, defaultModel core.Model) (*Client, error) {
	if chat == nil {
		return nil, core.NewError(core.ErrConfiguration, "openai: chat completions service is required")
	}
	if defaultModel == "" {
		defaultModel = core.DefaultModel
	}
	return &Client{chat: chat, defaultModel: defaultModel}, nil
}

// NewFromAPIKey constructs a Client using the SDK's default HTTP transport.
func NewFromAPIKey(apiKey string, defaultModel core.Model) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, core.NewError(core.ErrConfiguration, "openai: api key is required")
	}
	c := sdk.NewClient(option.WithAPIKey(apiKey))
	return New(&c.Chat.Completions, defaultModel)
}

// Complete implements core.Client.
func (c *Client) Complete(ctx context.Context, req core.Request) (core.Response, error) {
	params, err := toRequestParams(req, c.defaultModel)
	if err != nil {
		return core.Response{}, err
	}
	resp, err := c.chat.New(ctx, params)
	if err != nil {
		return core.Response{}, providers.ClassifyHTTPError("openai", httpResponse(err), err)
	}
	return fromCompletion(resp), nil
}

// Stream implements core.Client by always returning a Configuration error:
// streaming goes through StreamingClient (see NewStreamingClient).
func (c *Client) Stream(ctx context.Context, req core.Request) (core.Streamer, error) {
	return nil, core.NewError(core.ErrConfiguration, "openai: use providers/openai's StreamingClient (NewStreamingClient), not Client.Stream directly")
}

func toRequestParams(req core.Request, defaultModel core.Model) (sdk.ChatCompletionNewParams, error) {
	if len(req.Messages) == 0 {
		return sdk.ChatCompletionNewParams{}, core.NewError(core.ErrValidation, "openai: request must contain at least one message")
	}
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	messages := make([]sdk.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		msg, err := toOpenAIMessage(m)
		if err != nil {
			return sdk.ChatCompletionNewParams{}, err
		}
		messages = append(messages, msg)
	}

	params := sdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: messages,
	}
	if req.Parameters.Temperature != nil {
		params.Temperature = sdk.Float(float64(*req.Parameters.Temperature))
	}
	if req.Parameters.TopP != nil {
		params.TopP = sdk.Float(float64(*req.Parameters.TopP))
	}
	if req.Parameters.MaxTokens != nil {
		params.MaxCompletionTokens = sdk.Int(int64(*req.Parameters.MaxTokens))
	}
	if len(req.Parameters.Stop) > 0 {
		params.Stop = sdk.ChatCompletionNewParamsStopUnion{OfStringArray: req.Parameters.Stop}
	}
	if req.Parameters.Seed != nil {
		params.Seed = sdk.Int(int64(*req.Parameters.Seed))
	}
	if req.Parameters.PresencePenalty != nil {
		params.PresencePenalty = sdk.Float(float64(*req.Parameters.PresencePenalty))
	}
	if req.Parameters.FrequencyPenalty != nil {
		params.FrequencyPenalty = sdk.Float(float64(*req.Parameters.FrequencyPenalty))
	}

	if len(req.Tools) > 0 {
		tools, err := toOpenAITools(req.Tools)
		if err != nil {
			return sdk.ChatCompletionNewParams{}, err
		}
		params.Tools = tools
	}
	if tc, ok := toOpenAIToolChoice(req.ToolChoice); ok {
		params.ToolChoice = tc
	}
	if req.ResponseFormat != nil {
		rf, err := toOpenAIResponseFormat(req.ResponseFormat)
		if err != nil {
			return sdk.ChatCompletionNewParams{}, err
		}
		params.ResponseFormat = rf
	}
	return params, nil
}

func toOpenAIMessage(m core.Message) (sdk.ChatCompletionMessageParamUnion, error) {
	text, ok := core.AsText(m.Content)
	if !ok {
		return sdk.ChatCompletionMessageParamUnion{}, core.NewError(core.ErrSerialization,
			"openai: only text content is supported for chat completions messages")
	}
	switch m.Role {
	case core.RoleSystem:
		return sdk.SystemMessage(text), nil
	case core.RoleUser:
		return sdk.UserMessage(text), nil
	case core.RoleAssistant:
		return sdk.AssistantMessage(text), nil
	case core.RoleTool:
		return sdk.ToolMessage(text, m.Metadata.ToolCallID), nil
	default:
		return sdk.ChatCompletionMessageParamUnion{}, core.NewError(core.ErrValidation,
			fmt.Sprintf("openai: unsupported message role %q", m.Role))
	}
}

func toOpenAITools(tools []core.Tool) ([]sdk.ChatCompletionToolParam, error) {
	out := make([]sdk.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		var params map[string]any
		if len(t.Function.Parameters) > 0 {
			if err := json.Unmarshal(t.Function.Parameters, &params); err != nil {
				return nil, core.NewSerializationError(fmt.Sprintf("openai: tool %q parameters", t.Name), err)
			}
		}
		out = append(out, sdk.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: sdk.String(t.Description),
				Parameters:  params,
			},
		})
	}
	return out, nil
}

func toOpenAIToolChoice(choice core.ToolChoice) (sdk.ChatCompletionToolChoiceOptionUnionParam, bool) {
	switch choice.Mode {
	case core.ToolChoiceAuto:
		return sdk.ChatCompletionToolChoiceOptionUnionParam{}, false
	case core.ToolChoiceNone:
		return sdk.ChatCompletionToolChoiceOptionUnionParam{OfAuto: sdk.String("none")}, true
	case core.ToolChoiceRequired:
		return sdk.ChatCompletionToolChoiceOptionUnionParam{OfAuto: sdk.String("required")}, true
	case core.ToolChoiceSpecific:
		return sdk.ChatCompletionToolChoiceOptionUnionParam{
			OfFunctionToolChoice: &sdk.ChatCompletionNamedToolChoiceParam{
				Function: sdk.ChatCompletionNamedToolChoiceFunctionParam{Name: choice.Name},
			},
		}, true
	default:
		return sdk.ChatCompletionToolChoiceOptionUnionParam{}, false
	}
}

func toOpenAIResponseFormat(rf core.ResponseFormat) (sdk.ChatCompletionNewParamsResponseFormatUnion, error) {
	switch f := rf.(type) {
	case core.JSONObjectFormat:
		return sdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}, nil
	case core.JSONSchemaFormat:
		var schema map[string]any
		if len(f.Schema) > 0 {
			if err := json.Unmarshal(f.Schema, &schema); err != nil {
				return sdk.ChatCompletionNewParamsResponseFormatUnion{}, core.NewSerializationError("openai: response format schema", err)
			}
		}
		return sdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Schema: schema,
					Strict: sdk.Bool(f.Strict),
				},
			},
		}, nil
	default:
		return sdk.ChatCompletionNewParamsResponseFormatUnion{}, core.NewError(core.ErrValidation, "openai: unsupported response format")
	}
}

func fromCompletion(resp *sdk.ChatCompletion) core.Response {
	if len(resp.Choices) == 0 {
		return core.Response{Metadata: core.ResponseMetadata{Model: resp.Model, ID: resp.ID}}
	}
	choice := resp.Choices[0]
	toolCalls := make([]core.ToolCall, 0, len(choice.Message.ToolCalls))
	for _, tc := range choice.Message.ToolCalls {
		toolCalls = append(toolCalls, core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return core.Response{
		Content:   choice.Message.Content,
		ToolCalls: toolCalls,
		Metadata: core.ResponseMetadata{
			Model:        resp.Model,
			ID:           resp.ID,
			FinishReason: toFinishReason(string(choice.FinishReason)),
			Usage: &core.Usage{
				PromptTokens:     uint32(resp.Usage.PromptTokens),
				CompletionTokens: uint32(resp.Usage.CompletionTokens),
				TotalTokens:      uint32(resp.Usage.TotalTokens),
			},
		},
	}
}

func toFinishReason(s string) core.FinishReason {
	switch s {
	case "stop":
		return core.FinishStop
	case "length":
		return core.FinishLength
	case "tool_calls":
		return core.FinishToolCalls
	case "content_filter":
		return core.FinishContentFilter
	default:
		return core.FinishReason(s)
	}
}

var _ core.Client = (*Client)(nil)
