package library

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vinyl-scout/core/cache"
	"vinyl-scout/core/catalog"
)

// Service is the composition of the library engine: repository, status
// cache, per-list synchronizers, and the mutation coordinator. One instance
// is built at the composition root and shared.
type Service struct {
	repo        *Repository
	status      *StatusService
	coordinator *Coordinator
	syncers     map[ListType]*Syncer

	staleThreshold time.Duration
	logger         *zap.Logger
}

// NewService wires the library engine. statusStore is the short-TTL
// membership cache owned by the composition root.
func NewService(client catalog.Client, repo *Repository, statusStore *cache.Store[catalog.CollectionStatus], username string, syncCfg SyncConfig, logger *zap.Logger) *Service {
	status := NewStatusService(client, statusStore, username)

	return &Service{
		repo:        repo,
		status:      status,
		coordinator: NewCoordinator(client, repo, status, username, logger),
		syncers: map[ListType]*Syncer{
			ListCollection: NewSyncer(ListCollection, client, repo, username, syncCfg.PageSize, logger),
			ListWantlist:   NewSyncer(ListWantlist, client, repo, username, syncCfg.PageSize, logger),
		},
		staleThreshold: syncCfg.StaleThreshold(),
		logger:         logger,
	}
}

// Entries returns the locally persisted entries of one list.
func (s *Service) Entries(list ListType) ([]Entry, error) {
	if !list.Valid() {
		return nil, fmt.Errorf("library: unknown list type %q", list)
	}
	return s.repo.FindByListType(list)
}

// States returns a snapshot of both lists' sync states.
func (s *Service) States() map[ListType]SyncState {
	states := make(map[ListType]SyncState, len(s.syncers))
	for list, syncer := range s.syncers {
		states[list] = syncer.State()
	}
	return states
}

// Syncer returns the synchronizer for one list.
func (s *Service) Syncer(list ListType) (*Syncer, error) {
	syncer, ok := s.syncers[list]
	if !ok {
		return nil, fmt.Errorf("library: unknown list type %q", list)
	}
	return syncer, nil
}

// Refresh runs a full blocking sync of one list.
func (s *Service) Refresh(ctx context.Context, list ListType) error {
	syncer, err := s.Syncer(list)
	if err != nil {
		return err
	}
	return syncer.Refresh(ctx)
}

// RefreshIfStale triggers a sync for one list only when its last full sync
// is older than the configured staleness threshold.
func (s *Service) RefreshIfStale(ctx context.Context, list ListType) error {
	syncer, err := s.Syncer(list)
	if err != nil {
		return err
	}
	return syncer.RefreshIfStale(ctx, s.staleThreshold)
}

// Status returns the membership status of one release, cache-first.
func (s *Service) Status(ctx context.Context, releaseID int64) (catalog.CollectionStatus, error) {
	return s.status.Get(ctx, releaseID)
}

// Add adds a release to one list, optimistically.
func (s *Service) Add(ctx context.Context, list ListType, entry Entry) error {
	switch list {
	case ListCollection:
		return s.coordinator.AddToCollection(ctx, entry)
	case ListWantlist:
		return s.coordinator.AddToWantlist(ctx, entry)
	default:
		return fmt.Errorf("library: unknown list type %q", list)
	}
}

// Remove removes a release from one list, optimistically.
func (s *Service) Remove(ctx context.Context, list ListType, releaseID int64) error {
	switch list {
	case ListCollection:
		return s.coordinator.RemoveFromCollection(ctx, releaseID)
	case ListWantlist:
		return s.coordinator.RemoveFromWantlist(ctx, releaseID)
	default:
		return fmt.Errorf("library: unknown list type %q", list)
	}
}

// Drain blocks until background verifications have settled. Called on
// shutdown so reconciliation work is not lost.
func (s *Service) Drain() {
	s.coordinator.Wait()
}
