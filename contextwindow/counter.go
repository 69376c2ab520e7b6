// Package contextwindow fits conversation histories within a model's token
// budget, grounded on cogni-context's ContextManager/TokenCounter/
// PruningStrategy trio.
package contextwindow

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/jkhoffman/cogni/core"
)

// perMessageOverhead is the flat structural cost cogni-context's
// TokenCounter::count_message charges per message in addition to its role,
// content, and optional name text.
const perMessageOverhead = 4

// TokenCounter counts tokens for text, single messages, and whole message
// lists, mirroring cogni-context's TokenCounter trait.
type TokenCounter interface {
	CountText(text string) int
	CountMessage(m core.Message) int
	CountMessages(messages []core.Message) int
}

// ModelLimits describes a model's context window and default output
// reservation, grounded on cogni-context/src/types.rs's ModelLimits.
type ModelLimits struct {
	ModelName       string
	ContextWindow   int
	MaxOutputTokens int
}

// AvailableTokens returns the context window minus reserveOutput, capped at
// MaxOutputTokens the same way ModelLimits::available_tokens saturates.
func (l ModelLimits) AvailableTokens(reserveOutput int) int {
	if reserveOutput > l.MaxOutputTokens {
		reserveOutput = l.MaxOutputTokens
	}
	avail := l.ContextWindow - reserveOutput
	if avail < 0 {
		return 0
	}
	return avail
}

// knownModelLimits mirrors ModelLimits::for_model's match arms.
var knownModelLimits = map[string]ModelLimits{
	"gpt-4":                  {ContextWindow: 8192, MaxOutputTokens: 4096},
	"gpt-4-0613":             {ContextWindow: 8192, MaxOutputTokens: 4096},
	"gpt-4-32k":              {ContextWindow: 32768, MaxOutputTokens: 4096},
	"gpt-4-32k-0613":         {ContextWindow: 32768, MaxOutputTokens: 4096},
	"gpt-4-turbo":            {ContextWindow: 128000, MaxOutputTokens: 4096},
	"gpt-4-1106-preview":     {ContextWindow: 128000, MaxOutputTokens: 4096},
	"gpt-4-0125-preview":     {ContextWindow: 128000, MaxOutputTokens: 4096},
	"gpt-4-turbo-preview":    {ContextWindow: 128000, MaxOutputTokens: 4096},
	"gpt-4-turbo-2024-04-09": {ContextWindow: 128000, MaxOutputTokens: 4096},
	"gpt-4o":                 {ContextWindow: 128000, MaxOutputTokens: 4096},
	"gpt-4o-2024-05-13":      {ContextWindow: 128000, MaxOutputTokens: 4096},
	"gpt-4o-mini":            {ContextWindow: 128000, MaxOutputTokens: 16384},
	"gpt-4o-mini-2024-07-18": {ContextWindow: 128000, MaxOutputTokens: 16384},
	"gpt-3.5-turbo":          {ContextWindow: 4096, MaxOutputTokens: 4096},
	"gpt-3.5-turbo-0613":     {ContextWindow: 4096, MaxOutputTokens: 4096},
	"gpt-3.5-turbo-16k":      {ContextWindow: 16384, MaxOutputTokens: 4096},
	"gpt-3.5-turbo-16k-0613": {ContextWindow: 16384, MaxOutputTokens: 4096},

	"claude-3-opus":            {ContextWindow: 200000, MaxOutputTokens: 4096},
	"claude-3-opus-20240229":   {ContextWindow: 200000, MaxOutputTokens: 4096},
	"claude-3-sonnet":          {ContextWindow: 200000, MaxOutputTokens: 4096},
	"claude-3-sonnet-20240229": {ContextWindow: 200000, MaxOutputTokens: 4096},
	"claude-3-haiku":           {ContextWindow: 200000, MaxOutputTokens: 4096},
	"claude-3-haiku-20240307":  {ContextWindow: 200000, MaxOutputTokens: 4096},
	"claude-2.1":               {ContextWindow: 200000, MaxOutputTokens: 4096},
	"claude-2.0":               {ContextWindow: 100000, MaxOutputTokens: 4096},
}

// ModelLimitsFor looks up the known context window and output reservation
// for model, mirroring ModelLimits::for_model. ok is false for an unknown
// model, matching the Rust Option<Self>::None case.
func ModelLimitsFor(model core.Model) (ModelLimits, bool) {
	l, ok := knownModelLimits[string(model)]
	if !ok {
		return ModelLimits{}, false
	}
	l.ModelName = string(model)
	return l, true
}

// TiktokenCounter counts tokens with a real BPE tokenizer via
// github.com/pkoukk/tiktoken-go, the Go analogue of TiktokenCounter's
// tiktoken_rs::get_bpe_from_model wrapper.
type TiktokenCounter struct {
	enc    *tiktoken.Tiktoken
	limits ModelLimits
}

// NewTiktokenCounter builds a counter for model, failing with
// core.ErrConfiguration when the model has no known encoding or limits, the
// same way TiktokenCounter::for_model returns a ContextError::UnsupportedModel.
func NewTiktokenCounter(model core.Model) (*TiktokenCounter, error) {
	limits, ok := ModelLimitsFor(model)
	if !ok {
		return nil, core.NewError(core.ErrConfiguration, fmt.Sprintf("contextwindow: unsupported model %q", model))
	}
	enc, err := tiktoken.EncodingForModel(string(model))
	if err != nil {
		return nil, core.NewError(core.ErrConfiguration, fmt.Sprintf("contextwindow: no tokenizer encoding for model %q: %v", model, err))
	}
	return &TiktokenCounter{enc: enc, limits: limits}, nil
}

// Limits returns the ModelLimits this counter was built for.
func (c *TiktokenCounter) Limits() ModelLimits { return c.limits }

// CountText returns the number of BPE tokens in text.
func (c *TiktokenCounter) CountText(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// CountMessage counts a single message's role, content, and optional name,
// plus cogni-context's flat per-message structural overhead.
func (c *TiktokenCounter) CountMessage(m core.Message) int {
	return countMessage(c, m)
}

// CountMessages sums CountMessage over messages.
func (c *TiktokenCounter) CountMessages(messages []core.Message) int {
	return countMessages(c, messages)
}

var _ TokenCounter = (*TiktokenCounter)(nil)

// countMessage and countMessages implement TokenCounter's default
// count_message/count_messages behavior (role + content + name text plus a
// flat structural overhead) in terms of any CountText. They are unexported;
// TiktokenCounter's CountMessage/CountMessages delegate to them.
func countMessage(c interface{ CountText(string) int }, m core.Message) int {
	n := c.CountText(string(m.Role))
	if text, ok := core.AsText(m.Content); ok {
		n += c.CountText(text)
	} else if mc, ok := m.Content.(core.MultiContent); ok {
		for _, item := range mc.Items {
			if text, ok := core.AsText(item); ok {
				n += c.CountText(text)
			}
		}
	}
	if m.Metadata.Name != "" {
		n += c.CountText(m.Metadata.Name)
	}
	return n + perMessageOverhead
}

func countMessages(c TokenCounter, messages []core.Message) int {
	total := 0
	for _, m := range messages {
		total += c.CountMessage(m)
	}
	return total
}
