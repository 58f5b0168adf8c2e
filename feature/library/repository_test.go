package library_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinyl-scout/feature/library"
)

func TestUpsert_SameReleaseInBothListsAreDistinctRows(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Upsert(&library.Entry{ListType: library.ListCollection, ReleaseID: 1, Title: "Owned"}))
	require.NoError(t, repo.Upsert(&library.Entry{ListType: library.ListWantlist, ReleaseID: 1, Title: "Wanted"}))

	owned, err := repo.FindByReleaseID(library.ListCollection, 1)
	require.NoError(t, err)
	wanted, err := repo.FindByReleaseID(library.ListWantlist, 1)
	require.NoError(t, err)

	require.NotNil(t, owned)
	require.NotNil(t, wanted)
	assert.Equal(t, "Owned", owned.Title)
	assert.Equal(t, "Wanted", wanted.Title)
}

func TestUpsert_OverwritesExistingRow(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Upsert(&library.Entry{ListType: library.ListCollection, ReleaseID: 1, Title: "First"}))
	require.NoError(t, repo.Upsert(&library.Entry{ListType: library.ListCollection, ReleaseID: 1, Title: "Second", InstanceID: 7}))

	n, err := repo.Count(library.ListCollection)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	entry, err := repo.FindByReleaseID(library.ListCollection, 1)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Second", entry.Title)
	assert.Equal(t, int64(7), entry.InstanceID)
}

func TestUpsertFromSync_SkipsRowsModifiedAfterRunStart(t *testing.T) {
	repo := newTestRepo(t)

	runStart := time.Now()
	require.NoError(t, repo.Upsert(&library.Entry{ListType: library.ListCollection, ReleaseID: 1, Title: "Optimistic"}))

	require.NoError(t, repo.UpsertFromSync(&library.Entry{
		ListType:  library.ListCollection,
		ReleaseID: 1,
		Title:     "From Page",
	}, runStart))

	entry, err := repo.FindByReleaseID(library.ListCollection, 1)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Optimistic", entry.Title)
}

func TestUpsertFromSync_UpdatesRowsOlderThanRunStart(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Upsert(&library.Entry{ListType: library.ListCollection, ReleaseID: 1, Title: "Old"}))
	time.Sleep(10 * time.Millisecond)
	runStart := time.Now()

	require.NoError(t, repo.UpsertFromSync(&library.Entry{
		ListType:  library.ListCollection,
		ReleaseID: 1,
		Title:     "Fresh",
	}, runStart))

	entry, err := repo.FindByReleaseID(library.ListCollection, 1)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Fresh", entry.Title)
}

func TestDelete_AbsentEntryIsNoOp(t *testing.T) {
	repo := newTestRepo(t)
	assert.NoError(t, repo.Delete(library.ListWantlist, 404))
}

func TestLastRefresh_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.LastRefresh(library.ListCollection)
	require.NoError(t, err)
	assert.Nil(t, got)

	first := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, repo.SaveLastRefresh(library.ListCollection, first))

	second := time.Now().Truncate(time.Second)
	require.NoError(t, repo.SaveLastRefresh(library.ListCollection, second))

	got, err = repo.LastRefresh(library.ListCollection)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.WithinDuration(t, second, *got, time.Second)

	// Lists keep independent timestamps.
	other, err := repo.LastRefresh(library.ListWantlist)
	require.NoError(t, err)
	assert.Nil(t, other)
}
