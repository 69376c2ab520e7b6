// Package inmem provides an in-memory state.Store.
package inmem

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jkhoffman/cogni/state"
)

// Store is a state.Store backed by a map guarded by a RWMutex. Every
// returned ConversationState is a deep copy, so callers cannot mutate the
// store's internal state by mutating what they got back — the same
// clone-on-access discipline the session store this is grounded on uses.
type Store struct {
	mu     sync.RWMutex
	states map[uuid.UUID]state.ConversationState
}

// New returns an empty Store.
func New() *Store {
	return &Store{states: make(map[uuid.UUID]state.ConversationState)}
}

func clone(s state.ConversationState) state.ConversationState {
	out := s
	out.Messages = nil
	out.Messages = append(out.Messages, s.Messages...)
	out.Metadata.Tags = append([]string(nil), s.Metadata.Tags...)
	if s.Metadata.Custom != nil {
		out.Metadata.Custom = make(map[string]string, len(s.Metadata.Custom))
		for k, v := range s.Metadata.Custom {
			out.Metadata.Custom[k] = v
		}
	}
	if s.Metadata.TokenCount != nil {
		tc := *s.Metadata.TokenCount
		out.Metadata.TokenCount = &tc
	}
	if s.Metadata.AgentConfig != nil {
		out.Metadata.AgentConfig = append([]byte(nil), s.Metadata.AgentConfig...)
	}
	return out
}

// Save stores a clone of s under s.ID, overwriting any existing entry.
func (st *Store) Save(s state.ConversationState) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.states[s.ID] = clone(s)
	return nil
}

// Load returns a clone of the stored state for id.
func (st *Store) Load(id uuid.UUID) (state.ConversationState, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.states[id]
	if !ok {
		return state.ConversationState{}, fmt.Errorf("%w: %s", state.ErrNotFound, id)
	}
	return clone(s), nil
}

// Delete removes id, returning state.ErrNotFound if it was never stored.
func (st *Store) Delete(id uuid.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.states[id]; !ok {
		return fmt.Errorf("%w: %s", state.ErrNotFound, id)
	}
	delete(st.states, id)
	return nil
}

// List returns every stored conversation ordered by UpdatedAt descending.
func (st *Store) List() ([]state.ConversationState, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]state.ConversationState, 0, len(st.states))
	for _, s := range st.states {
		out = append(out, clone(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// FindByTags returns every conversation carrying at least one of tags.
func (st *Store) FindByTags(tags []string) ([]state.ConversationState, error) {
	all, err := st.List()
	if err != nil {
		return nil, err
	}
	var out []state.ConversationState
	for _, s := range all {
		if hasAnyTag(s.Metadata.Tags, tags) {
			out = append(out, s)
		}
	}
	return out, nil
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// Exists reports whether id has a stored state.
func (st *Store) Exists(id uuid.UUID) (bool, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	_, ok := st.states[id]
	return ok, nil
}

// Upsert saves s regardless of whether it already existed.
func (st *Store) Upsert(s state.ConversationState) error {
	return st.Save(s)
}

// ListIDs returns the ids of every stored conversation.
func (st *Store) ListIDs() ([]uuid.UUID, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(st.states))
	for id := range st.states {
		out = append(out, id)
	}
	return out, nil
}

var _ state.Store = (*Store)(nil)
