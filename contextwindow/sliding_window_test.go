package contextwindow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jkhoffman/cogni/core"
)

func textOf(t *testing.T, m core.Message) string {
	t.Helper()
	text, ok := core.AsText(m.Content)
	require.True(t, ok)
	return text
}

func TestSlidingWindowTrimsFromOldestWhenStillOverBudget(t *testing.T) {
	counter := fixedCounter{perMessage: 10}
	strategy := NewSlidingWindowStrategy(true, 3)

	messages := []core.Message{
		core.SystemMessage("S"),
		core.UserMessage("U1"),
		core.AssistantMessage("A1"),
		core.UserMessage("U2"),
	}
	// window=3 keeps [U1,A1,U2] + system = 4 messages = 40 tokens, over a
	// budget of 25; trimming from the oldest non-system message must
	// proceed until the remainder fits.
	out := strategy.Prune(messages, 25, counter)
	require.Len(t, out, 2)
	require.Equal(t, "S", textOf(t, out[0]))
	require.Equal(t, "U2", textOf(t, out[1]))
}

func TestSlidingWindowDropsSystemWhenKeepSystemFalse(t *testing.T) {
	counter := fixedCounter{perMessage: 10}
	strategy := NewSlidingWindowStrategy(false, 2)

	messages := []core.Message{
		core.SystemMessage("S"),
		core.UserMessage("U1"),
		core.AssistantMessage("A1"),
	}
	out := strategy.Prune(messages, 1000, counter)
	require.Len(t, out, 2)
	require.Equal(t, "U1", textOf(t, out[0]))
	require.Equal(t, "A1", textOf(t, out[1]))
}

func TestSlidingWindowCollapsesToSystemOnlyWhenNothingElseFits(t *testing.T) {
	counter := fixedCounter{perMessage: 10}
	strategy := NewSlidingWindowStrategy(true, 5)

	messages := []core.Message{
		core.SystemMessage("S"),
		core.UserMessage("U1"),
		core.AssistantMessage("A1"),
	}
	out := strategy.Prune(messages, 15, counter)
	require.Len(t, out, 1)
	require.Equal(t, "S", textOf(t, out[0]))
}
