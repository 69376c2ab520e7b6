package core_test

import (
	"testing"

	"github.com/jkhoffman/cogni/core"
	"github.com/stretchr/testify/require"
)

func TestRequestBuilderBuild(t *testing.T) {
	req := core.NewRequestBuilder().
		Message(core.UserMessage("hi")).
		Model("gpt-4o").
		Temperature(0.5).
		Build()

	require.Equal(t, core.Model("gpt-4o"), req.Model)
	require.Len(t, req.Messages, 1)
	require.NotNil(t, req.Parameters.Temperature)
	require.InDelta(t, 0.5, *req.Parameters.Temperature, 0.0001)
}

func TestRequestBuilderDefaultsModel(t *testing.T) {
	req := core.NewRequestBuilder().Message(core.UserMessage("hi")).Build()
	require.Equal(t, core.DefaultModel, req.Model)
}

func TestRequestBuilderBuildPanicsOnNoMessages(t *testing.T) {
	require.Panics(t, func() {
		core.NewRequestBuilder().Build()
	})
}

func TestRequestBuilderTryBuildReturnsError(t *testing.T) {
	_, err := core.NewRequestBuilder().TryBuild()
	require.Error(t, err)

	e, ok := core.AsError(err)
	require.True(t, ok)
	require.Equal(t, core.ErrValidation, e.Kind)
}
