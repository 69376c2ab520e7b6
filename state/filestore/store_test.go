package filestore

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/state"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(t.TempDir())
	require.NoError(t, err)
	return st
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := newTestStore(t)
	cs := state.New()
	cs.AddMessage(core.UserMessage("hello"))
	cs.Metadata.Title = "greeting"

	require.NoError(t, st.Save(cs))

	got, err := st.Load(cs.ID)
	require.NoError(t, err)
	require.Equal(t, cs.ID, got.ID)
	require.Equal(t, "greeting", got.Metadata.Title)
	require.Len(t, got.Messages, 1)
	text, ok := core.AsText(got.Messages[0].Content)
	require.True(t, ok)
	require.Equal(t, "hello", text)
}

func TestLoadMissingReturnsErrNotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Load(uuid.New())
	require.ErrorIs(t, err, state.ErrNotFound)
}

func TestDeleteMissingReturnsErrNotFound(t *testing.T) {
	st := newTestStore(t)
	err := st.Delete(uuid.New())
	require.ErrorIs(t, err, state.ErrNotFound)
}

func TestListOrderedByUpdatedAtDescending(t *testing.T) {
	st := newTestStore(t)
	base := time.Now().UTC()

	older := state.New()
	older.UpdatedAt = base.Add(-time.Hour)
	newer := state.New()
	newer.UpdatedAt = base

	require.NoError(t, st.Save(older))
	require.NoError(t, st.Save(newer))

	list, err := st.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, newer.ID, list[0].ID)
	require.Equal(t, older.ID, list[1].ID)
}

func TestFindByTags(t *testing.T) {
	st := newTestStore(t)
	tagged := state.New()
	tagged.AddTag("urgent")
	untagged := state.New()

	require.NoError(t, st.Save(tagged))
	require.NoError(t, st.Save(untagged))

	found, err := st.FindByTags([]string{"urgent"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, tagged.ID, found[0].ID)
}

func TestExistsAndListIDs(t *testing.T) {
	st := newTestStore(t)
	cs := state.New()
	require.NoError(t, st.Save(cs))

	ok, err := st.Exists(cs.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ids, err := st.ListIDs()
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{cs.ID}, ids)
}

func TestUpsertOverwritesExisting(t *testing.T) {
	st := newTestStore(t)
	cs := state.New()
	require.NoError(t, st.Upsert(cs))

	cs.AddMessage(core.UserMessage("round two"))
	require.NoError(t, st.Upsert(cs))

	got, err := st.Load(cs.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
}
