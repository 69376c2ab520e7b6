package contextwindow

import "github.com/jkhoffman/cogni/core"

// ScoreFunc assigns a message an importance score; higher is kept longer.
// Grounded on spec.md 4.5's Importance-based strategy: {score_fn: Message->float}.
type ScoreFunc func(core.Message) float64

// ImportanceStrategy keeps messages in descending score order while the
// running token total stays within budget, then re-emits the kept messages
// in their original positional order. Grounded on spec.md 4.5's
// descending-score-then-reorder algorithm; like SlidingWindowStrategy, there
// is no strategies.rs in original_source to transcribe from.
type ImportanceStrategy struct {
	ScoreFn ScoreFunc
}

// NewImportanceStrategy builds an ImportanceStrategy using scoreFn to rank
// messages.
func NewImportanceStrategy(scoreFn ScoreFunc) *ImportanceStrategy {
	return &ImportanceStrategy{ScoreFn: scoreFn}
}

type scoredMessage struct {
	message core.Message
	index   int
	score   float64
}

// Prune implements PruningStrategy.
func (s *ImportanceStrategy) Prune(messages []core.Message, availableTokens int, counter TokenCounter) []core.Message {
	scored := make([]scoredMessage, len(messages))
	for i, m := range messages {
		scored[i] = scoredMessage{message: m, index: i, score: s.ScoreFn(m)}
	}

	// Stable descending sort by score; ties keep original order.
	for i := 1; i < len(scored); i++ {
		for j := i; j > 0 && scored[j].score > scored[j-1].score; j-- {
			scored[j], scored[j-1] = scored[j-1], scored[j]
		}
	}

	kept := make([]scoredMessage, 0, len(scored))
	total := 0
	for _, sm := range scored {
		cost := counter.CountMessage(sm.message)
		if total+cost > availableTokens {
			break
		}
		kept = append(kept, sm)
		total += cost
	}

	for i := 1; i < len(kept); i++ {
		for j := i; j > 0 && kept[j].index < kept[j-1].index; j-- {
			kept[j], kept[j-1] = kept[j-1], kept[j]
		}
	}

	out := make([]core.Message, len(kept))
	for i, sm := range kept {
		out[i] = sm.message
	}
	return out
}

var _ PruningStrategy = (*ImportanceStrategy)(nil)
