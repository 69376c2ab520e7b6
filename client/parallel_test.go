package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jkhoffman/cogni/core"
)

type delayedProvider struct {
	delay    time.Duration
	resp     core.Response
	err      error
	canceled chan struct{}
}

func (d *delayedProvider) Complete(ctx context.Context, req core.Request) (core.Response, error) {
	select {
	case <-time.After(d.delay):
		return d.resp, d.err
	case <-ctx.Done():
		if d.canceled != nil {
			close(d.canceled)
		}
		return core.Response{}, ctx.Err()
	}
}

func (d *delayedProvider) Stream(ctx context.Context, req core.Request) (core.Streamer, error) {
	return nil, core.NewError(core.ErrConfiguration, "not implemented")
}

func TestExecuteFirstSuccessReturnsFirstOkAndCancelsRest(t *testing.T) {
	slow := &delayedProvider{delay: 20 * time.Millisecond, err: core.NewNetworkError("down", nil)}
	fast := &delayedProvider{delay: 5 * time.Millisecond, resp: core.Response{Content: "fast-ok"}}
	cancelSignal := make(chan struct{})
	slowWinner := &delayedProvider{delay: 50 * time.Millisecond, resp: core.Response{Content: "too-late"}, canceled: cancelSignal}

	req := core.NewRequest([]core.Message{core.UserMessage("hi")})
	resp, err := Execute(context.Background(), req, FirstSuccess, slow, fast, slowWinner)
	require.NoError(t, err)
	require.Equal(t, "fast-ok", resp.Content)

	select {
	case <-cancelSignal:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected the slower provider to observe cancellation")
	}
}

func TestExecuteRaceReturnsFirstCompletion(t *testing.T) {
	fast := &delayedProvider{delay: 5 * time.Millisecond, resp: core.Response{Content: "first"}}
	slow := &delayedProvider{delay: 50 * time.Millisecond, resp: core.Response{Content: "second"}}

	req := core.NewRequest([]core.Message{core.UserMessage("hi")})
	resp, err := Execute(context.Background(), req, Race, slow, fast)
	require.NoError(t, err)
	require.Equal(t, "first", resp.Content)
}

func TestExecuteAllReturnsFirstOkInInputOrder(t *testing.T) {
	ok1 := &delayedProvider{delay: time.Millisecond, resp: core.Response{Content: "one"}}
	failing := &delayedProvider{delay: time.Millisecond, err: core.NewNetworkError("down", nil)}
	ok2 := &delayedProvider{delay: time.Millisecond, resp: core.Response{Content: "two"}}

	req := core.NewRequest([]core.Message{core.UserMessage("hi")})
	resp, err := Execute(context.Background(), req, All, failing, ok1, ok2)
	require.NoError(t, err)
	require.Equal(t, "one", resp.Content)
}

func TestExecuteAllReturnsLastErrorWhenNoneSucceed(t *testing.T) {
	errA := core.NewNetworkError("a-down", nil)
	errB := core.NewNetworkError("b-down", nil)
	a := &delayedProvider{delay: time.Millisecond, err: errA}
	b := &delayedProvider{delay: time.Millisecond, err: errB}

	req := core.NewRequest([]core.Message{core.UserMessage("hi")})
	_, err := Execute(context.Background(), req, All, a, b)
	require.Equal(t, errB, err)
}

func TestExecuteNoProvidersIsValidationError(t *testing.T) {
	req := core.NewRequest([]core.Message{core.UserMessage("hi")})
	_, err := Execute(context.Background(), req, All)
	require.Error(t, err)
	cerr, ok := core.AsError(err)
	require.True(t, ok)
	require.Equal(t, core.ErrValidation, cerr.Kind)
}
