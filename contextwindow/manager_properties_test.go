package contextwindow

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/jkhoffman/cogni/core"
)

// TestFitMessagesIsNoOpUnderBudget verifies spec.md section 8's quantified
// invariant: for any token counter and message list L with
// count_messages(L) <= budget, FitMessages(L) == L.
func TestFitMessagesIsNoOpUnderBudget(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("messages within budget pass through unchanged", prop.ForAll(
		func(texts []string) bool {
			messages := make([]core.Message, len(texts))
			for i, text := range texts {
				messages[i] = core.UserMessage(text)
			}
			counter := fixedCounter{perMessage: 1}
			budget := len(messages) // exactly enough room, never less
			mgr := NewContextManager(counter).WithMaxTokens(budget).WithReserveOutputTokens(0)

			fitted := mgr.FitMessages(messages)
			return reflect.DeepEqual(fitted, messages)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
