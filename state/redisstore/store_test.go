package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/state"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb, context.Background())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	cs := state.New()
	cs.Metadata.Title = "hello"
	cs.AddMessage(core.UserMessage("hi there"))
	require.NoError(t, s.Save(cs))

	got, err := s.Load(cs.ID)
	require.NoError(t, err)
	require.Equal(t, "hello", got.Metadata.Title)
	require.Len(t, got.Messages, 1)
	text, ok := core.AsText(got.Messages[0].Content)
	require.True(t, ok)
	require.Equal(t, "hi there", text)
}

func TestLoadMissingReturnsErrNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(state.New().ID)
	require.ErrorIs(t, err, state.ErrNotFound)
}

func TestDeleteMissingReturnsErrNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.Delete(state.New().ID)
	require.ErrorIs(t, err, state.ErrNotFound)
}

func TestDeleteRemovesEntryAndIndexes(t *testing.T) {
	s := newTestStore(t)

	cs := state.New()
	cs.AddTag("work")
	require.NoError(t, s.Save(cs))

	require.NoError(t, s.Delete(cs.ID))

	exists, err := s.Exists(cs.ID)
	require.NoError(t, err)
	require.False(t, exists)

	found, err := s.FindByTags([]string{"work"})
	require.NoError(t, err)
	require.Empty(t, found)

	ids, err := s.ListIDs()
	require.NoError(t, err)
	require.NotContains(t, ids, cs.ID)
}

func TestListOrderedByUpdatedAtDescending(t *testing.T) {
	s := newTestStore(t)

	older := state.New()
	older.UpdatedAt = time.Now().Add(-time.Hour).UTC()
	require.NoError(t, s.Save(older))

	newer := state.New()
	newer.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.Save(newer))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, newer.ID, list[0].ID)
	require.Equal(t, older.ID, list[1].ID)
}

func TestFindByTags(t *testing.T) {
	s := newTestStore(t)

	tagged := state.New()
	tagged.AddTag("project-x")
	require.NoError(t, s.Save(tagged))

	untagged := state.New()
	require.NoError(t, s.Save(untagged))

	found, err := s.FindByTags([]string{"project-x"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, tagged.ID, found[0].ID)
}

func TestExistsAndListIDs(t *testing.T) {
	s := newTestStore(t)

	cs := state.New()
	exists, err := s.Exists(cs.ID)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, s.Save(cs))

	exists, err = s.Exists(cs.ID)
	require.NoError(t, err)
	require.True(t, exists)

	ids, err := s.ListIDs()
	require.NoError(t, err)
	require.Contains(t, ids, cs.ID)
}

func TestUpsertOverwritesExisting(t *testing.T) {
	s := newTestStore(t)

	cs := state.New()
	cs.Metadata.Title = "v1"
	require.NoError(t, s.Save(cs))

	cs.Metadata.Title = "v2"
	require.NoError(t, s.Upsert(cs))

	got, err := s.Load(cs.ID)
	require.NoError(t, err)
	require.Equal(t, "v2", got.Metadata.Title)
}
