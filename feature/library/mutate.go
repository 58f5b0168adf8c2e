package library

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"vinyl-scout/core/catalog"
	"vinyl-scout/core/metrics"
)

// Coordinator applies collection/wantlist edits optimistically: the local
// write lands first (the value the UI renders instantly), then the remote
// mutation runs, then a background verification reconciles local truth
// against the remote answer.
//
// A remote failure is propagated to the caller but the optimistic local
// write is deliberately not rolled back; the next status check self-heals
// through the same reconciliation path.
type Coordinator struct {
	client   catalog.Client
	repo     *Repository
	status   *StatusService
	username string
	logger   *zap.Logger

	// verifications tracks in-flight background reconciliations so the
	// composition root (and tests) can drain them.
	verifications sync.WaitGroup
}

// NewCoordinator creates the coordinator.
func NewCoordinator(client catalog.Client, repo *Repository, status *StatusService, username string, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		client:   client,
		repo:     repo,
		status:   status,
		username: username,
		logger:   logger,
	}
}

// Wait blocks until all background verifications have completed.
func (c *Coordinator) Wait() {
	c.verifications.Wait()
}

// AddToCollection adds the release locally and remotely. entry carries the
// display metadata for the local record; entry.ReleaseID must be set.
func (c *Coordinator) AddToCollection(ctx context.Context, entry Entry) error {
	entry.ListType = ListCollection
	return c.add(ctx, entry, func(ctx context.Context) (catalog.CollectionStatus, error) {
		instanceID, err := c.client.AddToCollection(ctx, c.username, entry.ReleaseID)
		if err != nil {
			return catalog.CollectionStatus{}, err
		}
		return catalog.CollectionStatus{
			IsInCollection: true,
			IsInWantlist:   c.inList(ListWantlist, entry.ReleaseID),
			InstanceID:     instanceID,
		}, nil
	})
}

// AddToWantlist adds the release locally and remotely.
func (c *Coordinator) AddToWantlist(ctx context.Context, entry Entry) error {
	entry.ListType = ListWantlist
	return c.add(ctx, entry, func(ctx context.Context) (catalog.CollectionStatus, error) {
		if err := c.client.AddToWantlist(ctx, c.username, entry.ReleaseID); err != nil {
			return catalog.CollectionStatus{}, err
		}
		status := catalog.CollectionStatus{IsInWantlist: true}
		if existing, _ := c.repo.FindByReleaseID(ListCollection, entry.ReleaseID); existing != nil {
			status.IsInCollection = true
			status.InstanceID = existing.InstanceID
		}
		return status, nil
	})
}

// RemoveFromCollection removes the release locally and remotely. The remote
// removal needs the collection instance ID, taken from the local entry or,
// when unknown, from a verified status check.
func (c *Coordinator) RemoveFromCollection(ctx context.Context, releaseID int64) error {
	instanceID := int64(0)
	if existing, err := c.repo.FindByReleaseID(ListCollection, releaseID); err != nil {
		return err
	} else if existing != nil {
		instanceID = existing.InstanceID
	}

	return c.remove(ctx, ListCollection, releaseID, func(ctx context.Context) (catalog.CollectionStatus, error) {
		if instanceID == 0 {
			verified, err := c.status.Verified(ctx, releaseID)
			if err != nil {
				return catalog.CollectionStatus{}, err
			}
			instanceID = verified.InstanceID
		}
		if instanceID == 0 {
			// Nothing to remove remotely; the local delete stands.
			return catalog.CollectionStatus{IsInWantlist: c.inList(ListWantlist, releaseID)}, nil
		}
		if err := c.client.RemoveFromCollection(ctx, c.username, releaseID, instanceID); err != nil {
			return catalog.CollectionStatus{}, err
		}
		return catalog.CollectionStatus{IsInWantlist: c.inList(ListWantlist, releaseID)}, nil
	})
}

// RemoveFromWantlist removes the release locally and remotely.
func (c *Coordinator) RemoveFromWantlist(ctx context.Context, releaseID int64) error {
	return c.remove(ctx, ListWantlist, releaseID, func(ctx context.Context) (catalog.CollectionStatus, error) {
		if err := c.client.RemoveFromWantlist(ctx, c.username, releaseID); err != nil {
			return catalog.CollectionStatus{}, err
		}
		status := catalog.CollectionStatus{}
		if existing, _ := c.repo.FindByReleaseID(ListCollection, releaseID); existing != nil {
			status.IsInCollection = true
			status.InstanceID = existing.InstanceID
		}
		return status, nil
	})
}

// add is the shared optimistic add flow.
func (c *Coordinator) add(ctx context.Context, entry Entry, mutate func(context.Context) (catalog.CollectionStatus, error)) error {
	// Invalidate first so no concurrent reader serves the pre-mutation
	// answer while the remote call is in flight.
	c.status.Invalidate(entry.ReleaseID)

	if err := c.repo.Upsert(&entry); err != nil {
		return err
	}

	optimistic, err := mutate(ctx)
	if err != nil {
		return fmt.Errorf("adding release %d to %s: %w", entry.ReleaseID, entry.ListType, err)
	}

	if entry.ListType == ListCollection && optimistic.InstanceID != 0 {
		entry.InstanceID = optimistic.InstanceID
		if err := c.repo.Upsert(&entry); err != nil {
			c.logger.Warn("Recording instance id failed", zap.Error(err))
		}
	}

	c.finish(ctx, entry.ReleaseID, optimistic, entry)
	return nil
}

// remove is the shared optimistic remove flow.
func (c *Coordinator) remove(ctx context.Context, list ListType, releaseID int64, mutate func(context.Context) (catalog.CollectionStatus, error)) error {
	c.status.Invalidate(releaseID)

	if err := c.repo.Delete(list, releaseID); err != nil {
		return err
	}

	optimistic, err := mutate(ctx)
	if err != nil {
		return fmt.Errorf("removing release %d from %s: %w", releaseID, list, err)
	}

	c.finish(ctx, releaseID, optimistic, Entry{ReleaseID: releaseID})
	return nil
}

// finish seeds the cache with the optimistic status and schedules the
// background verification.
func (c *Coordinator) finish(ctx context.Context, releaseID int64, optimistic catalog.CollectionStatus, display Entry) {
	c.status.Seed(releaseID, optimistic)

	detached := context.WithoutCancel(ctx)
	c.verifications.Add(1)
	go func() {
		defer c.verifications.Done()
		c.verify(detached, releaseID, optimistic, display)
	}()
}

// verify re-fetches remote truth with a forced refresh and repairs local
// state on mismatch. Verified remote state always wins over the optimistic
// value; mismatches are counted, logged, and never surfaced to users.
func (c *Coordinator) verify(ctx context.Context, releaseID int64, optimistic catalog.CollectionStatus, display Entry) {
	verified, err := c.status.Verified(ctx, releaseID)
	if err != nil {
		metrics.ReconcileRuns.WithLabelValues("error").Inc()
		c.logger.Warn("Post-mutation verification failed",
			zap.Int64("release_id", releaseID),
			zap.Error(err),
		)
		return
	}

	mismatches := 0
	if verified.IsInCollection != optimistic.IsInCollection {
		mismatches++
		metrics.ReconcileMismatches.WithLabelValues("collection").Inc()
		c.repair(ListCollection, releaseID, verified.IsInCollection, verified.InstanceID, display)
	}
	if verified.IsInWantlist != optimistic.IsInWantlist {
		mismatches++
		metrics.ReconcileMismatches.WithLabelValues("wantlist").Inc()
		c.repair(ListWantlist, releaseID, verified.IsInWantlist, 0, display)
	}

	if mismatches == 0 {
		metrics.ReconcileRuns.WithLabelValues("clean").Inc()
		return
	}

	metrics.ReconcileRuns.WithLabelValues("mismatch").Inc()
	c.logger.Warn("Reconciled local state against verified remote truth",
		zap.Int64("release_id", releaseID),
		zap.Int("mismatches", mismatches),
	)
}

// repair makes the local entry for one list match the verified membership.
func (c *Coordinator) repair(list ListType, releaseID int64, present bool, instanceID int64, display Entry) {
	if !present {
		if err := c.repo.Delete(list, releaseID); err != nil {
			c.logger.Warn("Reconciliation delete failed", zap.Error(err))
		}
		return
	}

	entry := display
	entry.ID = 0
	entry.ListType = list
	entry.ReleaseID = releaseID
	entry.InstanceID = instanceID
	if err := c.repo.Upsert(&entry); err != nil {
		c.logger.Warn("Reconciliation upsert failed", zap.Error(err))
	}
}

func (c *Coordinator) inList(list ListType, releaseID int64) bool {
	existing, err := c.repo.FindByReleaseID(list, releaseID)
	return err == nil && existing != nil
}
