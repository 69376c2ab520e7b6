package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jkhoffman/cogni/core"
)

type fakeProvider struct {
	resp core.Response
	err  error
	seen core.Request
}

func (f *fakeProvider) Complete(ctx context.Context, req core.Request) (core.Response, error) {
	f.seen = req
	return f.resp, f.err
}

func (f *fakeProvider) Stream(ctx context.Context, req core.Request) (core.Streamer, error) {
	return nil, core.NewError(core.ErrConfiguration, "not implemented")
}

func TestBuilderBasic(t *testing.T) {
	req := NewRequestBuilder().System("be terse").User("hello").Build()
	require.Len(t, req.Messages, 2)
	require.Equal(t, core.RoleSystem, req.Messages[0].Role)
	require.Equal(t, core.RoleUser, req.Messages[1].Role)
}

func TestBuilderWithParameters(t *testing.T) {
	req := NewRequestBuilder().User("hello").Temperature(0.7).MaxTokens(100).TopP(0.9).Build()
	require.NotNil(t, req.Parameters.Temperature)
	require.Equal(t, float32(0.7), *req.Parameters.Temperature)
	require.NotNil(t, req.Parameters.MaxTokens)
	require.Equal(t, uint32(100), *req.Parameters.MaxTokens)
	require.NotNil(t, req.Parameters.TopP)
	require.Equal(t, float32(0.9), *req.Parameters.TopP)
}

func TestBuilderNoMessagesPanics(t *testing.T) {
	require.Panics(t, func() {
		NewRequestBuilder().Build()
	})
}

func TestBuilderTryBuildNoMessages(t *testing.T) {
	_, err := NewRequestBuilder().TryBuild()
	require.Error(t, err)
	cerr, ok := core.AsError(err)
	require.True(t, ok)
	require.Equal(t, core.ErrValidation, cerr.Kind)
}

func TestBuilderSendRequiresOwningClient(t *testing.T) {
	_, err := NewRequestBuilder().User("hi").Send(context.Background())
	require.Error(t, err)
	cerr, ok := core.AsError(err)
	require.True(t, ok)
	require.Equal(t, core.ErrConfiguration, cerr.Kind)
}

func TestClientNewRequestSendDispatchesThroughProvider(t *testing.T) {
	fp := &fakeProvider{resp: core.Response{Content: "hi there"}}
	c := New(fp, WithDefaultModel("gpt-4o"))

	resp, err := c.NewRequest().User("hello").Send(context.Background())
	require.NoError(t, err)
	require.Equal(t, "hi there", resp.Content)
	require.Equal(t, core.Model("gpt-4o"), fp.seen.Model)
}

func TestClientChatConvenience(t *testing.T) {
	fp := &fakeProvider{resp: core.Response{Content: "pong"}}
	c := New(fp)

	resp, err := c.Chat(context.Background(), "ping")
	require.NoError(t, err)
	require.Equal(t, "pong", resp.Content)
	require.Len(t, fp.seen.Messages, 1)
}
