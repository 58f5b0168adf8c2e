package library

import (
	"context"
	"fmt"

	"vinyl-scout/core/cache"
	"vinyl-scout/core/catalog"
)

// StatusKey builds the cache fingerprint for one (username, release) pair.
func StatusKey(username string, releaseID int64) string {
	return fmt.Sprintf("%s:%d", cache.Normalize(username), releaseID)
}

// StatusService answers membership questions through the status cache.
// Statuses change via user action, so the TTL is short; mutations
// invalidate and reseed eagerly.
type StatusService struct {
	client   catalog.Client
	store    *cache.Store[catalog.CollectionStatus]
	username string
}

// NewStatusService creates the service. ttlStore is the short-TTL status
// store from the composition root.
func NewStatusService(client catalog.Client, store *cache.Store[catalog.CollectionStatus], username string) *StatusService {
	return &StatusService{client: client, store: store, username: username}
}

// Get returns the membership status for a release, served from cache when
// fresh. Concurrent checks for the same release coalesce into one fetch.
func (s *StatusService) Get(ctx context.Context, releaseID int64) (catalog.CollectionStatus, error) {
	return s.store.Get(ctx, StatusKey(s.username, releaseID), s.fetcher(releaseID))
}

// Verified bypasses the cache and returns remote truth, still coalescing
// with any in-flight check for the same release.
func (s *StatusService) Verified(ctx context.Context, releaseID int64) (catalog.CollectionStatus, error) {
	return s.store.Refresh(ctx, StatusKey(s.username, releaseID), s.fetcher(releaseID))
}

// Seed overwrites the cached status with a value learned outside a fetch
// (the optimistic result of a mutation). Replace-as-a-unit.
func (s *StatusService) Seed(releaseID int64, status catalog.CollectionStatus) {
	s.store.Set(StatusKey(s.username, releaseID), status)
}

// Invalidate drops the cached status so no concurrent reader can observe a
// pre-mutation answer.
func (s *StatusService) Invalidate(releaseID int64) {
	s.store.Invalidate(StatusKey(s.username, releaseID))
}

func (s *StatusService) fetcher(releaseID int64) cache.Fetcher[catalog.CollectionStatus] {
	return func(ctx context.Context) (catalog.CollectionStatus, error) {
		status, err := s.client.GetCollectionStatus(ctx, s.username, releaseID)
		if err != nil {
			return catalog.CollectionStatus{}, err
		}
		return *status, nil
	}
}
