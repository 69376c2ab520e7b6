package inmem

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jkhoffman/cogni/core"
	"github.com/jkhoffman/cogni/state"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New()
	cs := state.New()
	cs.AddMessage(core.UserMessage("hello"))

	require.NoError(t, st.Save(cs))

	got, err := st.Load(cs.ID)
	require.NoError(t, err)
	require.Equal(t, cs.ID, got.ID)
	require.Len(t, got.Messages, 1)
}

func TestLoadMissingReturnsErrNotFound(t *testing.T) {
	st := New()
	_, err := st.Load(uuid.New())
	require.ErrorIs(t, err, state.ErrNotFound)
}

func TestDeleteMissingReturnsErrNotFound(t *testing.T) {
	st := New()
	err := st.Delete(uuid.New())
	require.ErrorIs(t, err, state.ErrNotFound)
}

func TestDeleteRemovesEntry(t *testing.T) {
	st := New()
	cs := state.New()
	require.NoError(t, st.Save(cs))
	require.NoError(t, st.Delete(cs.ID))

	ok, err := st.Exists(cs.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestListOrderedByUpdatedAtDescending(t *testing.T) {
	st := New()
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
	st := New()
	tagged := state.New()
	tagged.AddTag("billing")
	untagged := state.New()

	require.NoError(t, st.Save(tagged))
	require.NoError(t, st.Save(untagged))

	found, err := st.FindByTags([]string{"billing"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, tagged.ID, found[0].ID)
}

func TestUpsertCreatesAndUpdates(t *testing.T) {
	st := New()
	cs := state.New()
	require.NoError(t, st.Upsert(cs))

	cs.AddMessage(core.UserMessage("hi"))
	require.NoError(t, st.Upsert(cs))

	got, err := st.Load(cs.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
}

func TestListIDs(t *testing.T) {
	st := New()
	a := state.New()
	b := state.New()
	require.NoError(t, st.Save(a))
	require.NoError(t, st.Save(b))

	ids, err := st.ListIDs()
	require.NoError(t, err)
	require.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, ids)
}

func TestLoadReturnsIndependentCopy(t *testing.T) {
	st := New()
	cs := state.New()
	cs.AddMessage(core.UserMessage("original"))
	require.NoError(t, st.Save(cs))

	got, err := st.Load(cs.ID)
	require.NoError(t, err)
	got.Messages[0] = core.UserMessage("mutated")

	again, err := st.Load(cs.ID)
	require.NoError(t, err)
	text, ok := core.AsText(again.Messages[0].Content)
	require.True(t, ok)
	require.Equal(t, "original", text)
}
