package core_test

import (
	"encoding/json"
	"testing"

	"github.com/jkhoffman/cogni/core"
	"github.com/stretchr/testify/require"
)

func TestMessageJSONRoundTrip(t *testing.T) {
	cases := []core.Message{
		core.UserMessage("hello"),
		{Role: core.RoleAssistant, Content: core.ImageContent{URL: "https://x/y.png", MimeType: "image/png"}},
		{Role: core.RoleUser, Content: core.MultiContent{Items: []core.Content{
			core.Text("see this:"),
			core.ImageContent{Data: "aGVsbG8=", MimeType: "image/png"},
		}}},
	}

	for _, msg := range cases {
		data, err := json.Marshal(msg)
		require.NoError(t, err)

		var decoded core.Message
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, msg, decoded)
	}
}

func TestMessageJSONPreservesToolCallID(t *testing.T) {
	msg := core.ToolMessage("42", "call_1")
	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded core.Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "call_1", decoded.Metadata.ToolCallID)
}

func TestUnmarshalContentUnknownKind(t *testing.T) {
	_, err := core.UnmarshalContent(json.RawMessage(`{"kind":"bogus"}`))
	require.Error(t, err)
}
