package core

import (
	"encoding/json"
	"fmt"
)

// contentKind discriminates the wire encoding of a Content value. JSON has
// no sum types, so every encoded Content carries one of these under "kind".
type contentKind string

const (
	contentKindText     contentKind = "text"
	contentKindImage    contentKind = "image"
	contentKindAudio    contentKind = "audio"
	contentKindMultiple contentKind = "multiple"
)

// MarshalJSON encodes Message, tagging its Content with a Kind discriminator
// so round-tripping through JSON (as state stores do) does not lose which
// Content variant was stored.
func (m Message) MarshalJSON() ([]byte, error) {
	type alias struct {
		Role     Role            `json:"role"`
		Content  json.RawMessage `json:"content"`
		Metadata Metadata        `json:"metadata"`
	}
	enc, err := MarshalContent(m.Content)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	return json.Marshal(alias{Role: m.Role, Content: enc, Metadata: m.Metadata})
}

// UnmarshalJSON decodes Message, materializing the concrete Content
// implementation its Kind discriminator names.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias struct {
		Role     Role            `json:"role"`
		Content  json.RawMessage `json:"content"`
		Metadata Metadata        `json:"metadata"`
	}
	var tmp alias
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	content, err := UnmarshalContent(tmp.Content)
	if err != nil {
		return fmt.Errorf("decode content: %w", err)
	}
	m.Role = tmp.Role
	m.Content = content
	m.Metadata = tmp.Metadata
	return nil
}

// MarshalContent encodes a Content value with its Kind discriminator.
func MarshalContent(c Content) (json.RawMessage, error) {
	switch v := c.(type) {
	case TextContent:
		return json.Marshal(struct {
			Kind contentKind `json:"kind"`
			Text string      `json:"text"`
		}{contentKindText, v.Text})
	case ImageContent:
		return json.Marshal(struct {
			Kind     contentKind `json:"kind"`
			Data     string      `json:"data,omitempty"`
			URL      string      `json:"url,omitempty"`
			MimeType string      `json:"mime_type"`
		}{contentKindImage, v.Data, v.URL, v.MimeType})
	case AudioContent:
		return json.Marshal(struct {
			Kind     contentKind `json:"kind"`
			Data     string      `json:"data"`
			MimeType string      `json:"mime_type"`
		}{contentKindAudio, v.Data, v.MimeType})
	case MultiContent:
		items := make([]json.RawMessage, 0, len(v.Items))
		for i, item := range v.Items {
			enc, err := MarshalContent(item)
			if err != nil {
				return nil, fmt.Errorf("encode items[%d]: %w", i, err)
			}
			items = append(items, enc)
		}
		return json.Marshal(struct {
			Kind  contentKind       `json:"kind"`
			Items []json.RawMessage `json:"items"`
		}{contentKindMultiple, items})
	default:
		return nil, fmt.Errorf("unknown content type %T", c)
	}
}

// UnmarshalContent decodes a Content value by inspecting its Kind
// discriminator.
func UnmarshalContent(data json.RawMessage) (Content, error) {
	var disc struct {
		Kind contentKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &disc); err != nil {
		return nil, err
	}
	switch disc.Kind {
	case contentKindText:
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return TextContent{Text: v.Text}, nil
	case contentKindImage:
		var v struct {
			Data     string `json:"data"`
			URL      string `json:"url"`
			MimeType string `json:"mime_type"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return ImageContent{Data: v.Data, URL: v.URL, MimeType: v.MimeType}, nil
	case contentKindAudio:
		var v struct {
			Data     string `json:"data"`
			MimeType string `json:"mime_type"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return AudioContent{Data: v.Data, MimeType: v.MimeType}, nil
	case contentKindMultiple:
		var v struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		items := make([]Content, 0, len(v.Items))
		for i, raw := range v.Items {
			item, err := UnmarshalContent(raw)
			if err != nil {
				return nil, fmt.Errorf("decode items[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return MultiContent{Items: items}, nil
	default:
		return nil, fmt.Errorf("unknown content kind %q", disc.Kind)
	}
}
