// Package client provides the high-level façade over a core.Client: a
// fluent RequestBuilder, Client.Send/Stream convenience methods, and
// parallel multi-provider execution. Grounded on cogni-client/src/builder.rs
// and lib.rs (client.rs/parallel.rs/stateful.rs were not present in
// original_source, so Client/ParallelClient's surface is derived from
// lib.rs's re-exports plus spec.md 4.6).
package client

import (
	"context"

	"github.com/jkhoffman/cogni/contextwindow"
	"github.com/jkhoffman/cogni/core"
)

// RequestBuilder fluently accumulates a Request the way cogni-client's
// RequestBuilder does, adding role+text shorthands (system/user/assistant)
// and the full Parameters surface on top of core.RequestBuilder, plus an
// optional ContextManager that Send runs the built Request through before
// dispatch.
type RequestBuilder struct {
	client         *Client
	messages       []core.Message
	model          core.Model
	modelSet       bool
	parameters     core.Parameters
	tools          []core.Tool
	toolChoice     core.ToolChoice
	responseFormat core.ResponseFormat
	contextManager *contextwindow.ContextManager
}

// NewRequestBuilder starts an empty builder with no owning Client; Build
// and TryBuild still work, but Send requires a Client (use Client.NewRequest
// instead).
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

// System appends a system-role text message.
func (b *RequestBuilder) System(text string) *RequestBuilder {
	return b.Message(core.SystemMessage(text))
}

// User appends a user-role text message.
func (b *RequestBuilder) User(text string) *RequestBuilder {
	return b.Message(core.UserMessage(text))
}

// Assistant appends an assistant-role text message.
func (b *RequestBuilder) Assistant(text string) *RequestBuilder {
	return b.Message(core.AssistantMessage(text))
}

// Message appends a single message with full control over role/content/metadata.
func (b *RequestBuilder) Message(m core.Message) *RequestBuilder {
	b.messages = append(b.messages, m)
	return b
}

// Messages appends several messages.
func (b *RequestBuilder) Messages(ms ...core.Message) *RequestBuilder {
	b.messages = append(b.messages, ms...)
	return b
}

// Model sets the target model.
func (b *RequestBuilder) Model(m core.Model) *RequestBuilder {
	b.model = m
	b.modelSet = true
	return b
}

// Temperature sets Parameters.Temperature.
func (b *RequestBuilder) Temperature(t float32) *RequestBuilder {
	b.parameters.Temperature = &t
	return b
}

// TopP sets Parameters.TopP.
func (b *RequestBuilder) TopP(p float32) *RequestBuilder {
	b.parameters.TopP = &p
	return b
}

// MaxTokens sets Parameters.MaxTokens.
func (b *RequestBuilder) MaxTokens(n uint32) *RequestBuilder {
	b.parameters.MaxTokens = &n
	return b
}

// PresencePenalty sets Parameters.PresencePenalty.
func (b *RequestBuilder) PresencePenalty(p float32) *RequestBuilder {
	b.parameters.PresencePenalty = &p
	return b
}

// FrequencyPenalty sets Parameters.FrequencyPenalty.
func (b *RequestBuilder) FrequencyPenalty(p float32) *RequestBuilder {
	b.parameters.FrequencyPenalty = &p
	return b
}

// Stop sets the stop sequences.
func (b *RequestBuilder) Stop(stop ...string) *RequestBuilder {
	b.parameters.Stop = stop
	return b
}

// Seed sets Parameters.Seed.
func (b *RequestBuilder) Seed(seed uint64) *RequestBuilder {
	b.parameters.Seed = &seed
	return b
}

// Parameters replaces the generation parameters wholesale.
func (b *RequestBuilder) Parameters(p core.Parameters) *RequestBuilder {
	b.parameters = p
	return b
}

// Tool appends a callable tool.
func (b *RequestBuilder) Tool(t core.Tool) *RequestBuilder {
	b.tools = append(b.tools, t)
	return b
}

// Tools appends several callable tools.
func (b *RequestBuilder) Tools(ts ...core.Tool) *RequestBuilder {
	b.tools = append(b.tools, ts...)
	return b
}

// ToolChoice sets the tool-choice constraint.
func (b *RequestBuilder) ToolChoice(c core.ToolChoice) *RequestBuilder {
	b.toolChoice = c
	return b
}

// ResponseFormat sets the structured-output constraint.
func (b *RequestBuilder) ResponseFormat(f core.ResponseFormat) *RequestBuilder {
	b.responseFormat = f
	return b
}

// JSONMode requests any syntactically valid JSON object, the shorthand
// cogni-client calls json_mode.
func (b *RequestBuilder) JSONMode() *RequestBuilder {
	return b.ResponseFormat(core.JSONObjectFormat{})
}

// ContextManager attaches a context window manager; Send runs the built
// Request's Messages through it before dispatch.
func (b *RequestBuilder) ContextManager(m *contextwindow.ContextManager) *RequestBuilder {
	b.contextManager = m
	return b
}

func (b *RequestBuilder) request() core.Request {
	model := b.model
	if !b.modelSet {
		model = core.DefaultModel
		if b.client != nil {
			model = b.client.defaultModel
		}
	}
	return core.Request{
		Messages:       b.messages,
		Model:          model,
		Parameters:     b.parameters,
		Tools:          b.tools,
		ToolChoice:     b.toolChoice,
		ResponseFormat: b.responseFormat,
	}
}

// Build returns the accumulated Request. It panics if no messages were
// added, mirroring cogni-client's RequestBuilder::build.
func (b *RequestBuilder) Build() core.Request {
	req, err := b.TryBuild()
	if err != nil {
		panic(err)
	}
	return req
}

// TryBuild returns the accumulated Request, or an Error{Kind: Validation}
// if no messages were added, mirroring try_build.
func (b *RequestBuilder) TryBuild() (core.Request, error) {
	if len(b.messages) == 0 {
		return core.Request{}, core.NewError(core.ErrValidation, "request must contain at least one message")
	}
	return b.request(), nil
}

// Send builds the Request, optionally fits it through the attached
// ContextManager, and invokes the owning Client's provider. It requires the
// builder to have been obtained from Client.NewRequest.
func (b *RequestBuilder) Send(ctx context.Context) (core.Response, error) {
	if b.client == nil {
		return core.Response{}, core.NewError(core.ErrConfiguration, "client: RequestBuilder.Send requires a builder from Client.NewRequest")
	}
	req, err := b.TryBuild()
	if err != nil {
		return core.Response{}, err
	}
	if b.contextManager != nil {
		req.Messages = b.contextManager.FitMessages(req.Messages)
	}
	return b.client.provider.Complete(ctx, req)
}
