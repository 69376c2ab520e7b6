package openai

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jkhoffman/cogni/core"
	"github.com/stretchr/testify/require"
)

type fakeChatService struct {
	resp *sdk.ChatCompletion
	err  error
	seen sdk.ChatCompletionNewParams
}

func (f *fakeChatService) New(ctx context.Context, body sdk.ChatCompletionNewParams, opts ...option.RequestOption) (*sdk.ChatCompletion, error) {
	f.seen = body
	return f.resp, f.err
}

func TestCompleteTranslatesResponse(t *testing.T) {
	fake := &fakeChatService{
		resp: &sdk.ChatCompletion{
			ID:    "chatcmpl-1",
			Model: "gpt-4o",
			Choices: []sdk.ChatCompletionChoice{
				{
					FinishReason: "stop",
					Message:      sdk.ChatCompletionMessage{Content: "hello there"},
				},
			},
		},
	}
	c, err := New(fake, core.DefaultModel)
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), core.NewRequest([]core.Message{core.UserMessage("hi")}))
	require.NoError(t, err)
	require.Equal(t, "hello there", resp.Content)
	require.Equal(t, core.FinishStop, resp.Metadata.FinishReason)
	require.Equal(t, "gpt-4o", resp.Metadata.Model)
}

func TestCompleteRejectsEmptyMessages(t *testing.T) {
	fake := &fakeChatService{}
	c, err := New(fake, core.DefaultModel)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), core.Request{})
	require.Error(t, err)
	cerr, ok := core.AsError(err)
	require.True(t, ok)
	require.Equal(t, core.ErrValidation, cerr.Kind)
}

func TestCompleteClassifiesAuthenticationErrorFromSDKResponse(t *testing.T) {
	httpResp := &http.Response{
		StatusCode: http.StatusUnauthorized,
		Status:     "401 Unauthorized",
		Body:       io.NopCloser(strings.NewReader(`{"error":"invalid api key"}`)),
	}
	fake := &fakeChatService{err: &sdk.Error{Response: httpResp}}
	c, err := New(fake, core.DefaultModel)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), core.NewRequest([]core.Message{core.UserMessage("hi")}))
	require.Error(t, err)
	cerr, ok := core.AsError(err)
	require.True(t, ok)
	require.Equal(t, core.ErrAuthentication, cerr.Kind)
}

func TestNewRejectsNilService(t *testing.T) {
	_, err := New(nil, core.DefaultModel)
	require.Error(t, err)
}
