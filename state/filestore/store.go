// Package filestore provides a state.Store that persists each conversation
// as a "<uuid>.json" file in a directory.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jkhoffman/cogni/state"
)

// Store is a state.Store backed by one JSON file per conversation under Dir.
type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+".json")
}

// Save writes state to its "<id>.json" file, overwriting any existing file.
func (s *Store) Save(cs state.ConversationState) error {
	data, err := json.Marshal(wireState(cs))
	if err != nil {
		return fmt.Errorf("marshal conversation state: %w", err)
	}
	tmp := s.path(cs.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write conversation state: %w", err)
	}
	return os.Rename(tmp, s.path(cs.ID))
}

// Load reads and decodes the state file for id.
func (s *Store) Load(id uuid.UUID) (state.ConversationState, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return state.ConversationState{}, fmt.Errorf("%w: %s", state.ErrNotFound, id)
	}
	if err != nil {
		return state.ConversationState{}, fmt.Errorf("read conversation state: %w", err)
	}
	var w onDiskState
	if err := json.Unmarshal(data, &w); err != nil {
		return state.ConversationState{}, fmt.Errorf("unmarshal conversation state: %w", err)
	}
	return w.toState(), nil
}

// Delete removes the state file for id.
func (s *Store) Delete(id uuid.UUID) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", state.ErrNotFound, id)
	}
	return err
}

// List reads every state file in the directory, ordered by UpdatedAt
// descending.
func (s *Store) List() ([]state.ConversationState, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read state directory: %w", err)
	}
	var out []state.ConversationState
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue
		}
		cs, err := s.Load(id)
		if err != nil {
			continue
		}
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// FindByTags returns every conversation carrying at least one of tags.
func (s *Store) FindByTags(tags []string) ([]state.ConversationState, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	var out []state.ConversationState
	for _, cs := range all {
		for _, want := range tags {
			if contains(cs.Metadata.Tags, want) {
				out = append(out, cs)
				break
			}
		}
	}
	return out, nil
}

func contains(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}

// Exists reports whether a state file exists for id.
func (s *Store) Exists(id uuid.UUID) (bool, error) {
	_, err := os.Stat(s.path(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Upsert saves cs regardless of whether it already existed.
func (s *Store) Upsert(cs state.ConversationState) error { return s.Save(cs) }

// ListIDs returns the ids of every stored conversation.
func (s *Store) ListIDs() ([]uuid.UUID, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(all))
	for _, cs := range all {
		ids = append(ids, cs.ID)
	}
	return ids, nil
}

var _ state.Store = (*Store)(nil)
