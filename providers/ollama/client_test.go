package ollama

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jkhoffman/cogni/core"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	status int
	body   string
}

func (f fakeTransport) Do(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     http.Header{},
	}, nil
}

func TestCompleteDecodesResponse(t *testing.T) {
	body := `{"model":"llama3.2","message":{"role":"assistant","content":"hi there"},"done":true}`
	c, err := New(fakeTransport{status: 200, body: body}, "", "llama3.2")
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), core.NewRequest([]core.Message{core.UserMessage("hello")}))
	require.NoError(t, err)
	require.Equal(t, "hi there", resp.Content)
	require.Equal(t, core.FinishStop, resp.Metadata.FinishReason)
}

func TestCompleteClassifiesErrorStatus(t *testing.T) {
	c, err := New(fakeTransport{status: 500, body: "boom"}, "", "llama3.2")
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), core.NewRequest([]core.Message{core.UserMessage("hello")}))
	require.Error(t, err)
	cerr, ok := core.AsError(err)
	require.True(t, ok)
	require.Equal(t, core.ErrProvider, cerr.Kind)
}

func TestStreamEmitsContentThenDone(t *testing.T) {
	lines := []string{
		`{"model":"llama3.2","message":{"role":"assistant","content":""},"done":false}`,
		`{"model":"llama3.2","message":{"role":"assistant","content":"chunk one"},"done":false}`,
		`{"model":"llama3.2","message":{"role":"assistant","content":""},"done":true}`,
	}
	body := strings.Join(lines, "\n")

	transport := streamingTransport{body: body}
	c, err := New(transport, "", "llama3.2")
	require.NoError(t, err)

	s, err := c.Stream(context.Background(), core.NewRequest([]core.Message{core.UserMessage("hi")}))
	require.NoError(t, err)

	ev1, err := s.Recv()
	require.NoError(t, err)
	require.Equal(t, core.StreamEventMetadata, ev1.Kind)

	ev2, err := s.Recv()
	require.NoError(t, err)
	require.Equal(t, core.StreamEventContent, ev2.Kind)
	require.Equal(t, "chunk one", ev2.Content.Text)

	ev3, err := s.Recv()
	require.NoError(t, err)
	require.Equal(t, core.StreamEventDone, ev3.Kind)
}

type streamingTransport struct {
	body string
}

func (s streamingTransport) Do(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewReader([]byte(s.body))),
		Header:     http.Header{},
	}, nil
}
