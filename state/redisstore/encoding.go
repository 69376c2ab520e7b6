package redisstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/state"
)

// onDiskState mirrors filestore's wire shape: Messages stays a
// []core.Message so core.Message's Kind-discriminated MarshalJSON /
// UnmarshalJSON does the Content encoding, rather than duplicating it here.
type onDiskState struct {
	ID        uuid.UUID      `json:"id"`
	Messages  []core.Message `json:"messages"`
	Metadata  onDiskMetadata `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type onDiskMetadata struct {
	Title       string            `json:"title,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	AgentConfig []byte            `json:"agent_config,omitempty"`
	TokenCount  *uint32           `json:"token_count,omitempty"`
	Custom      map[string]string `json:"custom,omitempty"`
}

func wireState(cs state.ConversationState) onDiskState {
	return onDiskState{
		ID:       cs.ID,
		Messages: cs.Messages,
		Metadata: onDiskMetadata{
			Title:       cs.Metadata.Title,
			Tags:        cs.Metadata.Tags,
			AgentConfig: cs.Metadata.AgentConfig,
			TokenCount:  cs.Metadata.TokenCount,
			Custom:      cs.Metadata.Custom,
		},
		CreatedAt: cs.CreatedAt,
		UpdatedAt: cs.UpdatedAt,
	}
}

func (w onDiskState) toState() state.ConversationState {
	return state.ConversationState{
		ID:       w.ID,
		Messages: w.Messages,
		Metadata: state.Metadata{
			Title:       w.Metadata.Title,
			Tags:        w.Metadata.Tags,
			AgentConfig: w.Metadata.AgentConfig,
			TokenCount:  w.Metadata.TokenCount,
			Custom:      w.Metadata.Custom,
		},
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
