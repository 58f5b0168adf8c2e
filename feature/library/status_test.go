package library_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vinyl-scout/core/cache"
	"vinyl-scout/core/catalog"
	"vinyl-scout/core/catalog/mocks"
	"vinyl-scout/feature/library"
)

func newTestStatusService(client catalog.Client) *library.StatusService {
	store := cache.New[catalog.CollectionStatus]("status", 5*time.Minute)
	return library.NewStatusService(client, store, "crate")
}

func TestStatusKey(t *testing.T) {
	assert.Equal(t, "crate:42", library.StatusKey("crate", 42))
	// Username casing and padding do not split the cache.
	assert.Equal(t, library.StatusKey("crate", 42), library.StatusKey("  CRATE ", 42))
	// Different releases never share a key.
	assert.NotEqual(t, library.StatusKey("crate", 42), library.StatusKey("crate", 43))
}

func TestStatusGet_CachesAcrossChecks(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(1)).
		Return(&catalog.CollectionStatus{IsInCollection: true, InstanceID: 100}, nil).Once()

	svc := newTestStatusService(client)

	for i := 0; i < 3; i++ {
		got, err := svc.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, got.IsInCollection)
	}
	client.AssertExpectations(t)
}

func TestStatusGet_SeededReleasesSkipTheNetwork(t *testing.T) {
	client := new(mocks.Client)
	// Only the two unseeded releases hit the remote API.
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(4)).
		Return(&catalog.CollectionStatus{}, nil).Once()
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(5)).
		Return(&catalog.CollectionStatus{IsInWantlist: true}, nil).Once()

	svc := newTestStatusService(client)
	svc.Seed(1, catalog.CollectionStatus{IsInCollection: true})
	svc.Seed(2, catalog.CollectionStatus{IsInWantlist: true})
	svc.Seed(3, catalog.CollectionStatus{IsInCollection: true, IsInWantlist: true})

	for id := int64(1); id <= 5; id++ {
		_, err := svc.Get(context.Background(), id)
		require.NoError(t, err)
	}

	got, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, got.IsInCollection)
	assert.True(t, got.IsInWantlist)

	client.AssertExpectations(t)
}

func TestStatusVerified_BypassesCache(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(1)).
		Return(&catalog.CollectionStatus{IsInCollection: true}, nil).Once()

	svc := newTestStatusService(client)
	svc.Seed(1, catalog.CollectionStatus{})

	got, err := svc.Verified(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, got.IsInCollection)

	// The verified answer replaced the seeded one.
	cached, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, cached.IsInCollection)

	client.AssertExpectations(t)
}

func TestStatusInvalidate_ForcesRefetch(t *testing.T) {
	client := new(mocks.Client)
	client.On("GetCollectionStatus", mock.Anything, "crate", int64(1)).
		Return(&catalog.CollectionStatus{IsInWantlist: true}, nil).Twice()

	svc := newTestStatusService(client)

	_, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)

	svc.Invalidate(1)

	_, err = svc.Get(context.Background(), 1)
	require.NoError(t, err)

	client.AssertExpectations(t)
}
