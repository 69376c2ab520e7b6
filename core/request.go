package core

import "encoding/json"

// Model identifies which provider model a Request targets, e.g.
// "gpt-4o" or "claude-sonnet-4-5".
type Model string

// DefaultModel is used by RequestBuilder when no model was set.
const DefaultModel Model = "gpt-4"

// Parameters controls generation behavior. All fields are optional; a zero
// value means "let the provider default apply".
type Parameters struct {
	MaxTokens        *uint32
	Temperature      *float32
	TopP             *float32
	N                *uint32
	Stop             []string
	PresencePenalty  *float32
	FrequencyPenalty *float32
	Seed             *uint64
}

// Function is the JSON-Schema-described callable surface of a Tool.
type Function struct {
	Parameters json.RawMessage // a JSON Schema object
	Returns    string          // optional, human-readable
}

// Tool is a function the model may call.
type Tool struct {
	Name        string
	Description string
	Function    Function
}

// ToolChoiceMode constrains whether/which tool the model must call.
type ToolChoiceMode int

const (
	ToolChoiceAuto ToolChoiceMode = iota
	ToolChoiceNone
	ToolChoiceRequired
	ToolChoiceSpecific
)

// ToolChoice pairs a ToolChoiceMode with the tool name when Mode is
// ToolChoiceSpecific.
type ToolChoice struct {
	Mode ToolChoiceMode
	Name string
}

// ToolCall is a single invocation the model requested. Arguments are an
// opaque JSON-encoded string: cogni never parses or validates them on the
// model's behalf, it passes them through to whatever the caller registered
// for Name.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolResult is the outcome of executing a ToolCall. Execution failures are
// represented here, with Success=false, rather than surfaced as a cogni
// Error — a tool failing is a normal part of a conversation, not a
// framework-level fault.
type ToolResult struct {
	CallID  string
	Content string
	Success bool
}

// SuccessResult builds a successful ToolResult.
func SuccessResult(callID, content string) ToolResult {
	return ToolResult{CallID: callID, Content: content, Success: true}
}

// ErrorResult builds a failed ToolResult carrying the error text as Content.
func ErrorResult(callID, errText string) ToolResult {
	return ToolResult{CallID: callID, Content: errText, Success: false}
}

// ResponseFormat constrains the shape of a Response's content.
type ResponseFormat interface {
	isResponseFormat()
}

// JSONObjectFormat requests any syntactically valid JSON object. It is not
// the default: a Request with a nil ResponseFormat behaves as unstructured
// text, not as JSONObjectFormat — callers opt in explicitly.
type JSONObjectFormat struct{}

func (JSONObjectFormat) isResponseFormat() {}

// JSONSchemaFormat requests a response conforming to Schema. Strict asks the
// provider (where supported) to enforce the schema itself. No adapter
// validates the response afterwards; structured.ValidateResponse does so
// for strict formats when a caller runs it.
type JSONSchemaFormat struct {
	Schema json.RawMessage
	Strict bool
}

func (JSONSchemaFormat) isResponseFormat() {}

// Request is a single call to a provider.
type Request struct {
	Messages       []Message
	Model          Model
	Parameters     Parameters
	Tools          []Tool
	ToolChoice     ToolChoice
	ResponseFormat ResponseFormat
	Stream         bool
}

// NewRequest builds a Request with default model and parameters.
func NewRequest(messages []Message) Request {
	return Request{Messages: messages, Model: DefaultModel}
}

// RequestBuilder fluently accumulates a Request.
type RequestBuilder struct {
	req Request
	set bool // whether Model was explicitly set
}

// NewRequestBuilder starts an empty builder.
func NewRequestBuilder() *RequestBuilder {
	return &RequestBuilder{}
}

// Message appends a single message.
func (b *RequestBuilder) Message(m Message) *RequestBuilder {
	b.req.Messages = append(b.req.Messages, m)
	return b
}

// Messages appends several messages.
func (b *RequestBuilder) Messages(ms ...Message) *RequestBuilder {
	b.req.Messages = append(b.req.Messages, ms...)
	return b
}

// Model sets the target model.
func (b *RequestBuilder) Model(m Model) *RequestBuilder {
	b.req.Model = m
	b.set = true
	return b
}

// Parameters replaces the generation parameters wholesale.
func (b *RequestBuilder) Parameters(p Parameters) *RequestBuilder {
	b.req.Parameters = p
	return b
}

// Temperature sets Parameters.Temperature.
func (b *RequestBuilder) Temperature(t float32) *RequestBuilder {
	b.req.Parameters.Temperature = &t
	return b
}

// MaxTokens sets Parameters.MaxTokens.
func (b *RequestBuilder) MaxTokens(n uint32) *RequestBuilder {
	b.req.Parameters.MaxTokens = &n
	return b
}

// Tool appends a callable tool.
func (b *RequestBuilder) Tool(t Tool) *RequestBuilder {
	b.req.Tools = append(b.req.Tools, t)
	return b
}

// ToolChoice sets the tool-choice constraint.
func (b *RequestBuilder) ToolChoice(c ToolChoice) *RequestBuilder {
	b.req.ToolChoice = c
	return b
}

// ResponseFormat sets the structured-output constraint.
func (b *RequestBuilder) ResponseFormat(f ResponseFormat) *RequestBuilder {
	b.req.ResponseFormat = f
	return b
}

// Stream marks the request as streaming.
func (b *RequestBuilder) Stream(stream bool) *RequestBuilder {
	b.req.Stream = stream
	return b
}

// Build returns the accumulated Request, applying DefaultModel if none was
// set. It panics if no messages were added: a request with zero messages is
// never meaningful and is a programmer error, not a runtime condition a
// caller should have to check for. Use TryBuild to handle it as an error
// instead.
func (b *RequestBuilder) Build() Request {
	req, err := b.TryBuild()
	if err != nil {
		panic(err)
	}
	return req
}

// TryBuild returns the accumulated Request, or an Error{Kind: Validation} if
// no messages were added.
func (b *RequestBuilder) TryBuild() (Request, error) {
	if len(b.req.Messages) == 0 {
		return Request{}, NewError(ErrValidation, "request must contain at least one message")
	}
	if !b.set {
		b.req.Model = DefaultModel
	}
	return b.req, nil
}
