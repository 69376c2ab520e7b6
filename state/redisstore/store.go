// Package redisstore provides a state.Store backed by Redis, storing each
// conversation as a JSON blob and maintaining a sorted set (scored by
// UpdatedAt's unix timestamp) for List/ListIDs ordering and a per-tag set
// for FindByTags, so neither requires a full keyspace scan.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jkhoffman/cogni/state"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix    = "cogni:conversation:"
	indexKey     = "cogni:conversations:index"
	tagKeyPrefix = "cogni:conversations:tag:"
)

// Store is a state.Store backed by a Redis client.
type Store struct {
	rdb *redis.Client
	ctx context.Context
}

// New returns a Store using rdb. ctx is used for every call's Redis
// round-trip; pass context.Background() unless the caller needs a shared
// deadline (the state.Store interface itself is synchronous and
// context-free, matching the other backends).
func New(rdb *redis.Client, ctx context.Context) *Store {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Store{rdb: rdb, ctx: ctx}
}

func dataKey(id uuid.UUID) string { return keyPrefix + id.String() }
func tagKey(tag string) string    { return tagKeyPrefix + tag }

// Save writes state as a JSON blob, indexes it by UpdatedAt, and refreshes
// its tag memberships.
func (s *Store) Save(cs state.ConversationState) error {
	data, err := json.Marshal(wireState(cs))
	if err != nil {
		return fmt.Errorf("marshal conversation state: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	if prev, err := s.Load(cs.ID); err == nil {
		for _, tag := range prev.Metadata.Tags {
			pipe.SRem(s.ctx, tagKey(tag), cs.ID.String())
		}
	}
	pipe.Set(s.ctx, dataKey(cs.ID), data, 0)
	pipe.ZAdd(s.ctx, indexKey, redis.Z{Score: float64(cs.UpdatedAt.Unix()), Member: cs.ID.String()})
	for _, tag := range cs.Metadata.Tags {
		pipe.SAdd(s.ctx, tagKey(tag), cs.ID.String())
	}
	_, err = pipe.Exec(s.ctx)
	if err != nil {
		return fmt.Errorf("save conversation state: %w", err)
	}
	return nil
}

// Load reads and decodes the blob for id.
func (s *Store) Load(id uuid.UUID) (state.ConversationState, error) {
	data, err := s.rdb.Get(s.ctx, dataKey(id)).Bytes()
	if err == redis.Nil {
		return state.ConversationState{}, fmt.Errorf("%w: %s", state.ErrNotFound, id)
	}
	if err != nil {
		return state.ConversationState{}, fmt.Errorf("load conversation state: %w", err)
	}
	var w onDiskState
	if err := json.Unmarshal(data, &w); err != nil {
		return state.ConversationState{}, fmt.Errorf("unmarshal conversation state: %w", err)
	}
	return w.toState(), nil
}

// Delete removes the blob and every index entry for id.
func (s *Store) Delete(id uuid.UUID) error {
	cs, err := s.Load(id)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(s.ctx, dataKey(id))
	pipe.ZRem(s.ctx, indexKey, id.String())
	for _, tag := range cs.Metadata.Tags {
		pipe.SRem(s.ctx, tagKey(tag), id.String())
	}
	_, err = pipe.Exec(s.ctx)
	return err
}

// List returns every conversation ordered by UpdatedAt descending.
func (s *Store) List() ([]state.ConversationState, error) {
	ids, err := s.rdb.ZRevRange(s.ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list conversation index: %w", err)
	}
	out := make([]state.ConversationState, 0, len(ids))
	for _, idStr := range ids {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		cs, err := s.Load(id)
		if err != nil {
			continue
		}
		out = append(out, cs)
	}
	return out, nil
}

// FindByTags returns the union of conversations carrying any of tags,
// ordered by UpdatedAt descending.
func (s *Store) FindByTags(tags []string) ([]state.ConversationState, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	keys := make([]string, len(tags))
	for i, t := range tags {
		keys[i] = tagKey(t)
	}
	ids, err := s.rdb.SUnion(s.ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("union tag sets: %w", err)
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	var out []state.ConversationState
	for _, idStr := range ids {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		cs, err := s.Load(id)
		if err != nil {
			continue
		}
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Exists reports whether id has a stored blob.
func (s *Store) Exists(id uuid.UUID) (bool, error) {
	n, err := s.rdb.Exists(s.ctx, dataKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Upsert saves cs regardless of whether it already existed.
func (s *Store) Upsert(cs state.ConversationState) error { return s.Save(cs) }

// ListIDs returns the ids of every stored conversation, ordered by
// UpdatedAt descending.
func (s *Store) ListIDs() ([]uuid.UUID, error) {
	idStrs, err := s.rdb.ZRevRange(s.ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list conversation index: %w", err)
	}
	out := make([]uuid.UUID, 0, len(idStrs))
	for _, idStr := range idStrs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

var _ state.Store = (*Store)(nil)
