// Package state defines ConversationState, the persisted record of a
// conversation's messages and metadata, and the uniform Store interface
// every backend (in-memory, file, Redis) implements.
package state

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jkhoffman/cogni/core"
)

// Metadata is auxiliary, queryable information about a conversation.
type Metadata struct {
	Title       string
	Tags        []string
	AgentConfig []byte // opaque, caller-defined JSON
	TokenCount  *uint32
	Custom      map[string]string
}

// ConversationState is the complete persisted record of a conversation.
type ConversationState struct {
	ID        uuid.UUID
	Messages  []core.Message
	Metadata  Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New returns a ConversationState with a fresh random ID.
func New() ConversationState {
	now := time.Now().UTC()
	return ConversationState{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// WithID returns a ConversationState with the given ID.
func WithID(id uuid.UUID) ConversationState {
	now := time.Now().UTC()
	return ConversationState{ID: id, CreatedAt: now, UpdatedAt: now}
}

// AddMessage appends a message and bumps UpdatedAt.
func (s *ConversationState) AddMessage(m core.Message) {
	s.Messages = append(s.Messages, m)
	s.UpdatedAt = time.Now().UTC()
}

// AddMessages appends several messages and bumps UpdatedAt once.
func (s *ConversationState) AddMessages(ms ...core.Message) {
	s.Messages = append(s.Messages, ms...)
	s.UpdatedAt = time.Now().UTC()
}

// AddTag adds tag if not already present, reporting whether it changed
// anything.
func (s *ConversationState) AddTag(tag string) bool {
	for _, t := range s.Metadata.Tags {
		if t == tag {
			return false
		}
	}
	s.Metadata.Tags = append(s.Metadata.Tags, tag)
	s.UpdatedAt = time.Now().UTC()
	return true
}

// RemoveTag removes tag, reporting whether it was present.
func (s *ConversationState) RemoveTag(tag string) bool {
	for i, t := range s.Metadata.Tags {
		if t == tag {
			s.Metadata.Tags = append(s.Metadata.Tags[:i], s.Metadata.Tags[i+1:]...)
			s.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// Store persists and retrieves ConversationStates. Implementations must be
// safe for concurrent use.
type Store interface {
	Save(state ConversationState) error
	Load(id uuid.UUID) (ConversationState, error)
	Delete(id uuid.UUID) error
	// List returns every conversation, ordered by UpdatedAt descending.
	List() ([]ConversationState, error)
	FindByTags(tags []string) ([]ConversationState, error)
	Exists(id uuid.UUID) (bool, error)
	Upsert(state ConversationState) error
	ListIDs() ([]uuid.UUID, error)
}

// ErrNotFound is the sentinel a Store wraps (via fmt.Errorf("%w: %s", ...))
// when Load or Delete is given an id with no stored state. It is a plain
// sentinel rather than a core.Error because a missing conversation is a
// storage-layer condition, not one of the closed request-error kinds a
// provider call can fail with.
var ErrNotFound = errors.New("conversation not found")
