package anthropic

import (
	"io"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/providers"
)

// streamer adapts an Anthropic Messages SSE stream to core.Streamer,
// folding content_block_start/delta/stop events into core.StreamEvents.
// Grounded on the teacher's anthropicStreamer but collapsed to a
// synchronous pull model: core.Streamer.Recv is called by the caller's own
// loop, so there is no need for the teacher's background goroutine and
// channel — ssestream.Stream.Next/Current is already pull-based.
type streamer struct {
	stream         *ssestream.Stream[sdk.MessageStreamEventUnion]
	structuredTool bool

	toolNames map[int]string
	toolIDs   map[int]string
	done      bool
}

func newStreamer(stream *ssestream.Stream[sdk.MessageStreamEventUnion], structuredTool bool) *streamer {
	return &streamer{
		stream:         stream,
		structuredTool: structuredTool,
		toolNames:      make(map[int]string),
		toolIDs:        make(map[int]string),
	}
}

// Recv implements core.Streamer.
func (s *streamer) Recv() (core.StreamEvent, error) {
	if s.done {
		return core.StreamEvent{}, io.EOF
	}
	for {
		if !s.stream.Next() {
			if err := s.stream.Err(); err != nil {
				return core.StreamEvent{}, providers.ClassifyHTTPError("anthropic", nil, err)
			}
			s.done = true
			return core.DoneEvent(), nil
		}
		event := s.stream.Current()
		ev, ok, err := s.handle(event)
		if err != nil {
			return core.StreamEvent{}, err
		}
		if ok {
			return ev, nil
		}
	}
}

func (s *streamer) handle(event sdk.MessageStreamEventUnion) (core.StreamEvent, bool, error) {
	switch ev := event.AsAny().(type) {
	case sdk.ContentBlockStartEvent:
		idx := int(ev.Index)
		if toolUse, ok := ev.ContentBlock.AsAny().(sdk.ToolUseBlock); ok {
			s.toolNames[idx] = toolUse.Name
			s.toolIDs[idx] = toolUse.ID
			return core.ToolCallEvent(core.ToolCallDelta{Index: idx, ID: toolUse.ID, Name: toolUse.Name}), true, nil
		}
		return core.StreamEvent{}, false, nil
	case sdk.ContentBlockDeltaEvent:
		idx := int(ev.Index)
		switch delta := ev.Delta.AsAny().(type) {
		case sdk.TextDelta:
			if delta.Text == "" {
				return core.StreamEvent{}, false, nil
			}
			return core.ContentEvent(delta.Text), true, nil
		case sdk.InputJSONDelta:
			if delta.PartialJSON == "" {
				return core.StreamEvent{}, false, nil
			}
			return core.ToolCallEvent(core.ToolCallDelta{Index: idx, Arguments: delta.PartialJSON}), true, nil
		default:
			return core.StreamEvent{}, false, nil
		}
	case sdk.MessageDeltaEvent:
		return core.MetadataEvent(core.MetadataDelta{
			Custom: map[string]string{"stop_reason": string(ev.Delta.StopReason)},
		}), true, nil
	case sdk.MessageStartEvent:
		return core.MetadataEvent(core.MetadataDelta{Model: string(ev.Message.Model), ID: ev.Message.ID}), true, nil
	default:
		return core.StreamEvent{}, false, nil
	}
}

// Close implements core.Streamer.
func (s *streamer) Close() error {
	return s.stream.Close()
}

var _ core.Streamer = (*streamer)(nil)
