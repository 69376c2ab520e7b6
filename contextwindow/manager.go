package contextwindow

import "github.com/jkhoffman/cogni/core"

// PruningStrategy reduces messages to fit within availableTokens, counted by
// counter. Grounded on cogni-context's PruningStrategy trait; strategies.rs
// itself was not part of the retrieved original_source, so SlidingWindow's
// exact shape is derived from spec.md 4.5 and manager.rs's embedded tests.
type PruningStrategy interface {
	Prune(messages []core.Message, availableTokens int, counter TokenCounter) []core.Message
}

// ContextManager fits a conversation's messages within a model's token
// budget, grounded on cogni-context/src/manager.rs's ContextManager.
type ContextManager struct {
	counter             TokenCounter
	maxTokens           int
	reserveOutputTokens int
	strategy            PruningStrategy
}

// NewContextManager builds a manager with counter's underlying model window
// as the default maxTokens when counter is a *TiktokenCounter, else 0 (the
// caller must set WithMaxTokens). A SlidingWindowStrategy keeping system
// messages with a window of 20 is the default strategy, matching
// manager.rs's Default impl intent.
func NewContextManager(counter TokenCounter) *ContextManager {
	m := &ContextManager{
		counter:  counter,
		strategy: NewSlidingWindowStrategy(true, 20),
	}
	if tc, ok := counter.(*TiktokenCounter); ok {
		m.maxTokens = tc.Limits().ContextWindow
	}
	return m
}

// WithMaxTokens overrides the token budget.
func (m *ContextManager) WithMaxTokens(n int) *ContextManager {
	m.maxTokens = n
	return m
}

// WithReserveOutputTokens reserves headroom for the model's own output.
func (m *ContextManager) WithReserveOutputTokens(n int) *ContextManager {
	m.reserveOutputTokens = n
	return m
}

// WithStrategy replaces the pruning strategy used once the budget is
// exceeded.
func (m *ContextManager) WithStrategy(s PruningStrategy) *ContextManager {
	m.strategy = s
	return m
}

// AvailableTokens is maxTokens minus reserveOutputTokens, saturating at
// zero, mirroring available_tokens's saturating_sub.
func (m *ContextManager) AvailableTokens() int {
	avail := m.maxTokens - m.reserveOutputTokens
	if avail < 0 {
		return 0
	}
	return avail
}

// CountMessages delegates to the manager's counter.
func (m *ContextManager) CountMessages(messages []core.Message) int {
	return m.counter.CountMessages(messages)
}

// WouldFit reports whether messages fit within AvailableTokens without
// pruning.
func (m *ContextManager) WouldFit(messages []core.Message) bool {
	return m.counter.CountMessages(messages) <= m.AvailableTokens()
}

// TokensRemaining returns how much budget is left after counting messages,
// saturating at zero when messages already exceed the budget.
func (m *ContextManager) TokensRemaining(messages []core.Message) int {
	remaining := m.AvailableTokens() - m.counter.CountMessages(messages)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FitMessages returns messages unchanged when they already fit within
// AvailableTokens; otherwise it delegates to the configured PruningStrategy
// with the same budget, mirroring fit_messages's no-op-when-under-budget
// behavior.
func (m *ContextManager) FitMessages(messages []core.Message) []core.Message {
	if m.WouldFit(messages) {
		return messages
	}
	return m.strategy.Prune(messages, m.AvailableTokens(), m.counter)
}
