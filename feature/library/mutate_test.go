package library_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vinyl-scout/core/cache"
	"vinyl-scout/core/catalog"
	"vinyl-scout/core/catalog/mocks"
	"vinyl-scout/feature/library"
)

func newTestCoordinator(t *testing.T, client catalog.Client) (*library.Coordinator, *library.Repository, *library.StatusService) {
	t.Helper()
	repo := newTestRepo(t)
	store := cache.New[catalog.CollectionStatus]("status", 5*time.Minute)
	status := library.NewStatusService(client, store, "crate")
	coord := library.NewCoordinator(client, repo, status, "crate", zap.NewNop())
	return coord, repo, status
}

func TestAddToCollection_LocalWriteVisibleImmediately(t *testing.T) {
	client := new(mocks.Client)
	client.On("AddToCollection", mock.Anything, "crate", int64(42)).
		Return(int64(4200), nil).Once()
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(42)).
		Return(&catalog.CollectionStatus{IsInCollection: true, InstanceID: 4200}, nil).Once()

	coord, repo, status := newTestCoordinator(t, client)

	err := coord.AddToCollection(context.Background(), library.Entry{
		ReleaseID: 42,
		Title:     "Kind of Blue",
		Artist:    "Miles Davis",
	})
	require.NoError(t, err)

	// Local entry is readable right away, instance ID recorded.
	entry, err := repo.FindByReleaseID(library.ListCollection, 42)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Kind of Blue", entry.Title)
	assert.Equal(t, int64(4200), entry.InstanceID)

	// Cached status reflects the mutation without a network round trip.
	got, err := status.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, got.IsInCollection)

	coord.Wait()
	client.AssertExpectations(t)
}

func TestAddToCollection_RemoteFailureKeepsLocalWrite(t *testing.T) {
	client := new(mocks.Client)
	client.On("AddToCollection", mock.Anything, "crate", int64(42)).
		Return(int64(0), catalog.ErrRateLimited).Once()

	coord, repo, _ := newTestCoordinator(t, client)

	err := coord.AddToCollection(context.Background(), library.Entry{ReleaseID: 42, Title: "Kept"})
	assert.ErrorIs(t, err, catalog.ErrRateLimited)

	// No rollback: the entry stays until reconciliation repairs it.
	entry, repoErr := repo.FindByReleaseID(library.ListCollection, 42)
	require.NoError(t, repoErr)
	assert.NotNil(t, entry)

	coord.Wait()
	client.AssertExpectations(t)
}

func TestAddToWantlist_VerificationRepairsMismatch(t *testing.T) {
	client := new(mocks.Client)
	client.On("AddToWantlist", mock.Anything, "crate", int64(7)).
		Return(nil).Once()
	// Remote truth disagrees with the optimistic value: the add did not
	// actually land server-side.
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(7)).
		Return(&catalog.CollectionStatus{IsInWantlist: false}, nil).Once()

	coord, repo, status := newTestCoordinator(t, client)

	require.NoError(t, coord.AddToWantlist(context.Background(), library.Entry{ReleaseID: 7, Title: "Ghost"}))
	coord.Wait()

	// Verified truth wins: the optimistic row was repaired away.
	entry, err := repo.FindByReleaseID(library.ListWantlist, 7)
	require.NoError(t, err)
	assert.Nil(t, entry)

	// The cache now holds the verified answer.
	got, err := status.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, got.IsInWantlist)

	client.AssertExpectations(t)
}

func TestVerification_RestoresEntryRemovedOptimistically(t *testing.T) {
	client := new(mocks.Client)
	client.On("RemoveFromWantlist", mock.Anything, "crate", int64(9)).
		Return(nil).Once()
	// Remote still reports membership; the removal did not take.
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(9)).
		Return(&catalog.CollectionStatus{IsInWantlist: true}, nil).Once()

	coord, repo, _ := newTestCoordinator(t, client)
	require.NoError(t, repo.Upsert(&library.Entry{
		ListType:  library.ListWantlist,
		ReleaseID: 9,
		Title:     "Boomerang",
	}))

	require.NoError(t, coord.RemoveFromWantlist(context.Background(), 9))

	// Optimistically gone.
	entry, err := repo.FindByReleaseID(library.ListWantlist, 9)
	require.NoError(t, err)
	assert.Nil(t, entry)

	coord.Wait()

	// Reconciled back once verified truth arrived.
	entry, err = repo.FindByReleaseID(library.ListWantlist, 9)
	require.NoError(t, err)
	assert.NotNil(t, entry)

	client.AssertExpectations(t)
}

func TestRemoveFromCollection_UsesLocalInstanceID(t *testing.T) {
	client := new(mocks.Client)
	client.On("RemoveFromCollection", mock.Anything, "crate", int64(5), int64(500)).
		Return(nil).Once()
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(5)).
		Return(&catalog.CollectionStatus{}, nil).Once()

	coord, repo, _ := newTestCoordinator(t, client)
	require.NoError(t, repo.Upsert(&library.Entry{
		ListType:   library.ListCollection,
		ReleaseID:  5,
		InstanceID: 500,
		Title:      "Owned",
	}))

	require.NoError(t, coord.RemoveFromCollection(context.Background(), 5))
	coord.Wait()

	entry, err := repo.FindByReleaseID(library.ListCollection, 5)
	require.NoError(t, err)
	assert.Nil(t, entry)

	client.AssertExpectations(t)
}

func TestRemoveFromCollection_FetchesInstanceIDWhenUnknown(t *testing.T) {
	client := new(mocks.Client)
	// No local entry, so the instance ID comes from a verified status check.
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(5)).
		Return(&catalog.CollectionStatus{IsInCollection: true, InstanceID: 777}, nil).Once()
	client.On("RemoveFromCollection", mock.Anything, "crate", int64(5), int64(777)).
		Return(nil).Once()
	// Post-mutation verification.
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(5)).
		Return(&catalog.CollectionStatus{}, nil).Once()

	coord, _, _ := newTestCoordinator(t, client)
	require.NoError(t, coord.RemoveFromCollection(context.Background(), 5))
	coord.Wait()

	client.AssertExpectations(t)
}

func TestVerification_SurvivesCallerCancellation(t *testing.T) {
	verifying := make(chan struct{})
	client := new(mocks.Client)
	client.On("AddToWantlist", mock.Anything, "crate", int64(3)).
		Return(nil).Once()
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(3)).
		Run(func(args mock.Arguments) {
			close(verifying)
			ctx := args.Get(0).(context.Context)
			assert.NoError(t, ctx.Err())
		}).
		Return(&catalog.CollectionStatus{IsInWantlist: true}, nil).Once()

	coord, _, _ := newTestCoordinator(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, coord.AddToWantlist(ctx, library.Entry{ReleaseID: 3, Title: "Async"}))
	cancel()

	select {
	case <-verifying:
	case <-time.After(time.Second):
		t.Fatal("verification never ran after caller cancellation")
	}
	coord.Wait()
	client.AssertExpectations(t)
}

func TestVerificationFailure_IsNotSurfaced(t *testing.T) {
	client := new(mocks.Client)
	client.On("AddToWantlist", mock.Anything, "crate", int64(8)).
		Return(nil).Once()
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(8)).
		Return(nil, errors.New("verification fetch failed")).Once()

	coord, repo, _ := newTestCoordinator(t, client)

	// The mutation itself succeeds; the failed verification only logs.
	require.NoError(t, coord.AddToWantlist(context.Background(), library.Entry{ReleaseID: 8, Title: "Quiet"}))
	coord.Wait()

	entry, err := repo.FindByReleaseID(library.ListWantlist, 8)
	require.NoError(t, err)
	assert.NotNil(t, entry)

	client.AssertExpectations(t)
}
