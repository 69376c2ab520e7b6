package core

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestAccumulatorContentIsOrderedConcatenation verifies spec.md section 8's
// quantified invariant: for any stream trace, the accumulated content
// equals the concatenation of every Content event's text in event order.
func TestAccumulatorContentIsOrderedConcatenation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("accumulated content equals ordered concatenation", prop.ForAll(
		func(chunks []string) bool {
			acc := NewAccumulator()
			for _, c := range chunks {
				acc.Process(ContentEvent(c))
			}
			acc.Process(DoneEvent())
			return acc.Content() == strings.Join(chunks, "")
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

// TestAccumulatorToolCallArgumentsAreOrderedConcatenation verifies spec.md
// section 8's quantified invariant: the final tool_call at index i has
// arguments equal to the concatenation of every arguments fragment sent for
// index i, regardless of how the id/name fragments are interleaved.
func TestAccumulatorToolCallArgumentsAreOrderedConcatenation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("tool call arguments concatenate in fragment order", prop.ForAll(
		func(id, name string, fragments []string) bool {
			acc := NewAccumulator()
			acc.Process(ToolCallEvent(ToolCallDelta{Index: 0, ID: id, Name: name}))
			for _, f := range fragments {
				acc.Process(ToolCallEvent(ToolCallDelta{Index: 0, Arguments: f}))
			}
			calls := acc.ToolCalls()
			if id == "" || name == "" {
				return len(calls) == 0
			}
			if len(calls) != 1 {
				return false
			}
			return calls[0].Arguments == strings.Join(fragments, "")
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
