package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vinyl-scout/core/catalog"
	"vinyl-scout/core/catalog/mocks"
)

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	inner := new(mocks.Client)
	inner.On("GetRelease", mock.Anything, int64(1)).
		Return(&catalog.Release{ID: 1, Title: "Test"}, nil)

	b := catalog.NewBreakerClient(inner, zap.NewNop())

	release, err := b.GetRelease(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Test", release.Title)
}

func TestBreaker_OpensAfterSustainedFailures(t *testing.T) {
	upstreamDown := errors.New("connection reset")

	inner := new(mocks.Client)
	inner.On("GetRelease", mock.Anything, mock.Anything).Return(nil, upstreamDown)

	b := catalog.NewBreakerClient(inner, zap.NewNop())

	// Feed the breaker enough failures to trip (>= 10 requests, 60% rate).
	for i := 0; i < 10; i++ {
		_, err := b.GetRelease(context.Background(), int64(i))
		assert.ErrorIs(t, err, upstreamDown)
	}

	// Circuit is open: the inner client is no longer reached.
	callsBefore := len(inner.Calls)
	_, err := b.GetRelease(context.Background(), 99)
	assert.ErrorIs(t, err, catalog.ErrNetworkUnavailable)
	assert.Len(t, inner.Calls, callsBefore)
}

func TestBreaker_NotFoundDoesNotTrip(t *testing.T) {
	inner := new(mocks.Client)
	inner.On("GetCollectionStatus", mock.Anything, "crate", mock.Anything).
		Return(nil, catalog.ErrNotFound)

	b := catalog.NewBreakerClient(inner, zap.NewNop())

	// 404s are data, not failures; the circuit stays closed.
	for i := 0; i < 20; i++ {
		_, err := b.GetCollectionStatus(context.Background(), "crate", int64(i))
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	}

	// Still reaching the inner client.
	assert.Len(t, inner.Calls, 20)
}
