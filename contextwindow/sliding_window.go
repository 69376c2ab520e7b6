package contextwindow

import "github.com/jkhoffman/cogni/core"

// SlidingWindowStrategy keeps system messages (optionally) at the front in
// original order, then the most recent windowSize non-system messages; if
// that still exceeds budget it trims from the oldest retained non-system
// message forward until it fits. Grounded on spec.md 4.5's sliding-window
// description — cogni-context's strategies.rs was not present in
// original_source, so there is no Rust source to transcribe here.
type SlidingWindowStrategy struct {
	KeepSystem bool
	WindowSize int
}

// NewSlidingWindowStrategy builds a SlidingWindowStrategy.
func NewSlidingWindowStrategy(keepSystem bool, windowSize int) *SlidingWindowStrategy {
	return &SlidingWindowStrategy{KeepSystem: keepSystem, WindowSize: windowSize}
}

// Prune implements PruningStrategy.
func (s *SlidingWindowStrategy) Prune(messages []core.Message, availableTokens int, counter TokenCounter) []core.Message {
	var system, rest []core.Message
	for _, m := range messages {
		if s.KeepSystem && m.Role == core.RoleSystem {
			system = append(system, m)
		} else {
			rest = append(rest, m)
		}
	}

	window := s.WindowSize
	if window > len(rest) {
		window = len(rest)
	}
	kept := rest[len(rest)-window:]

	for len(kept) > 0 {
		candidate := make([]core.Message, 0, len(system)+len(kept))
		candidate = append(candidate, system...)
		candidate = append(candidate, kept...)
		if counter.CountMessages(candidate) <= availableTokens {
			return candidate
		}
		kept = kept[1:]
	}

	out := make([]core.Message, len(system))
	copy(out, system)
	return out
}

var _ PruningStrategy = (*SlidingWindowStrategy)(nil)
