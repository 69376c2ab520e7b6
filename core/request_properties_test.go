package core

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestTryBuildSucceedsForAnyNonEmptyMessageList verifies spec.md section 8's
// quantified invariant: for all Requests built from a non-empty message
// list, TryBuild is Ok. Grounded on goadesign-goa-ai's
// runtime/a2a/retry package's gopter property-test style.
func TestTryBuildSucceedsForAnyNonEmptyMessageList(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("try_build is Ok for any non-empty message list", prop.ForAll(
		func(texts []string) bool {
			if len(texts) == 0 {
				texts = []string{"placeholder"}
			}
			b := NewRequestBuilder()
			for _, text := range texts {
				b.Message(UserMessage(text))
			}
			req, err := b.TryBuild()
			return err == nil && len(req.Messages) == len(texts)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("try_build fails for an empty message list", prop.ForAll(
		func(_ int) bool {
			_, err := NewRequestBuilder().TryBuild()
			return err != nil
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}
