package core

// ContentDelta is an incremental piece of text content.
type ContentDelta struct {
	Text string
}

// ToolCallDelta is an incremental piece of a tool call, addressed by Index
// so fragments from the same call can be concatenated even if the provider
// interleaves multiple in-flight tool calls on the wire (the pattern
// anthropic-sdk-go's content-block index does for tool_use blocks).
type ToolCallDelta struct {
	Index     int
	ID        string // may be empty on non-initial deltas
	Name      string // may be empty on non-initial deltas
	Arguments string // a fragment to append, not the whole value
}

// MetadataDelta carries incremental response metadata.
type MetadataDelta struct {
	Model  string
	ID     string
	Custom map[string]string
}

// StreamEventKind discriminates the StreamEvent union.
type StreamEventKind int

const (
	StreamEventContent StreamEventKind = iota
	StreamEventToolCall
	StreamEventMetadata
	StreamEventDone
)

// StreamEvent is one event in a provider's streaming response. Exactly one
// of the payload fields is meaningful, selected by Kind.
type StreamEvent struct {
	Kind     StreamEventKind
	Content  ContentDelta
	ToolCall ToolCallDelta
	Metadata MetadataDelta
}

// ContentEvent builds a StreamEventContent event.
func ContentEvent(text string) StreamEvent {
	return StreamEvent{Kind: StreamEventContent, Content: ContentDelta{Text: text}}
}

// ToolCallEvent builds a StreamEventToolCall event.
func ToolCallEvent(d ToolCallDelta) StreamEvent {
	return StreamEvent{Kind: StreamEventToolCall, ToolCall: d}
}

// MetadataEvent builds a StreamEventMetadata event.
func MetadataEvent(d MetadataDelta) StreamEvent {
	return StreamEvent{Kind: StreamEventMetadata, Metadata: d}
}

// DoneEvent builds the terminal StreamEventDone event.
func DoneEvent() StreamEvent { return StreamEvent{Kind: StreamEventDone} }

type partialToolCall struct {
	id        string
	name      string
	arguments string
}

// Accumulator merges a sequence of StreamEvents into a coherent Response.
// It is not safe for concurrent use; a caller feeds it events from a single
// stream in order.
type Accumulator struct {
	content   []byte
	toolCalls []partialToolCall
	metadata  map[string]string
	model     string
	id        string
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{metadata: make(map[string]string)}
}

// Process folds a single StreamEvent into the accumulator's state.
func (a *Accumulator) Process(ev StreamEvent) {
	switch ev.Kind {
	case StreamEventContent:
		a.content = append(a.content, ev.Content.Text...)
	case StreamEventToolCall:
		d := ev.ToolCall
		for len(a.toolCalls) <= d.Index {
			a.toolCalls = append(a.toolCalls, partialToolCall{})
		}
		tc := &a.toolCalls[d.Index]
		tc.id += d.ID
		tc.name += d.Name
		tc.arguments += d.Arguments
	case StreamEventMetadata:
		// Model/ID are scalar fields: last-writer-wins, and a delta that
		// doesn't carry them shouldn't clobber an already-set value.
		if ev.Metadata.Model != "" {
			a.model = ev.Metadata.Model
		}
		if ev.Metadata.ID != "" {
			a.id = ev.Metadata.ID
		}
		for k, v := range ev.Metadata.Custom {
			a.metadata[k] = v
		}
	case StreamEventDone:
		// nothing to fold; Done only terminates the caller's read loop.
	}
}

// Content returns the text accumulated so far.
func (a *Accumulator) Content() string { return string(a.content) }

// ToolCalls returns the complete tool calls accumulated so far: any slot
// still missing an id or name (a dangling index the provider never
// finalized) is dropped rather than surfaced half-built.
func (a *Accumulator) ToolCalls() []ToolCall {
	var out []ToolCall
	for _, tc := range a.toolCalls {
		if tc.id == "" || tc.name == "" {
			continue
		}
		out = append(out, ToolCall{ID: tc.id, Name: tc.name, Arguments: tc.arguments})
	}
	return out
}

// Metadata returns the custom metadata accumulated so far.
func (a *Accumulator) Metadata() map[string]string { return a.metadata }

// Response assembles the accumulated state into a final Response.
func (a *Accumulator) Response() Response {
	return Response{
		Content:   a.Content(),
		ToolCalls: a.ToolCalls(),
		Metadata:  ResponseMetadata{Model: a.model, ID: a.id, Custom: a.metadata},
	}
}
