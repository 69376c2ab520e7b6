package core

import "fmt"

// Usage reports token accounting for a single call.
type Usage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}

func (u Usage) String() string {
	return fmt.Sprintf("Usage(prompt: %d, completion: %d, total: %d)",
		u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}

// FinishReason reports why the model stopped generating.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishStopSequence  FinishReason = "stop_sequence"
	FinishToolCalls     FinishReason = "tool_calls"
	FinishContentFilter FinishReason = "content_filter"
)

// ResponseMetadata carries accounting and provenance fields alongside a
// Response's content.
type ResponseMetadata struct {
	Model        string
	ID           string
	Usage        *Usage
	FinishReason FinishReason
	Custom       map[string]string
}

// Response is a complete (non-streaming) result from a provider call.
type Response struct {
	Content   string
	ToolCalls []ToolCall
	Metadata  ResponseMetadata
}

// TextResponse builds a Response with only content set.
func TextResponse(content string) Response {
	return Response{Content: content}
}

// HasToolCalls reports whether the model requested any tool calls.
func (r Response) HasToolCalls() bool { return len(r.ToolCalls) > 0 }

func (r Response) String() string {
	if len(r.ToolCalls) == 0 {
		return r.Content
	}
	return fmt.Sprintf("%s [+%d tool calls]", r.Content, len(r.ToolCalls))
}
