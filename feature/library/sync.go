package library

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"vinyl-scout/core/catalog"
	"vinyl-scout/core/metrics"
)

// ErrRefreshInProgress is returned when a refresh is requested while one is
// already running for the same list.
var ErrRefreshInProgress = errors.New("library: refresh already in progress")

// Syncer incrementally synchronizes one list (collection or wantlist) from
// the remote catalog into the local repository.
//
// Pages are fetched strictly in order; page N+1 is not requested until page
// N's items are ingested, so progress counters increase monotonically and
// partial results are immediately visible. Collection and wantlist syncers
// are independent and run concurrently.
type Syncer struct {
	list      ListType
	repo      *Repository
	logger    *zap.Logger
	pageSize  int
	fetchPage func(ctx context.Context, page, perPage int) (*catalog.Page, error)

	mu    sync.Mutex
	state SyncState
}

// NewSyncer creates the synchronizer for one list. The persisted
// last-refresh timestamp is loaded so staleness survives app restarts.
func NewSyncer(list ListType, client catalog.Client, repo *Repository, username string, pageSize int, logger *zap.Logger) *Syncer {
	if pageSize <= 0 {
		pageSize = 50
	}

	s := &Syncer{
		list:     list,
		repo:     repo,
		logger:   logger.With(zap.String("list", string(list))),
		pageSize: pageSize,
	}

	switch list {
	case ListWantlist:
		s.fetchPage = func(ctx context.Context, page, perPage int) (*catalog.Page, error) {
			return client.GetWantlistPage(ctx, username, page, perPage)
		}
	default:
		s.fetchPage = func(ctx context.Context, page, perPage int) (*catalog.Page, error) {
			return client.GetCollectionPage(ctx, username, page, perPage)
		}
	}

	if last, err := repo.LastRefresh(list); err == nil {
		s.state.LastRefresh = last
	} else {
		s.logger.Warn("Could not load persisted sync state", zap.Error(err))
	}

	return s
}

// State returns a snapshot of the current sync state.
func (s *Syncer) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// RefreshIfStale starts a full refresh when the list has never synced or
// its last sync is older than threshold. Fresh lists and lists already
// refreshing are a no-op (nil).
func (s *Syncer) RefreshIfStale(ctx context.Context, threshold time.Duration) error {
	s.mu.Lock()
	fresh := s.state.LastRefresh != nil && time.Since(*s.state.LastRefresh) <= threshold
	running := s.state.IsRefreshing
	s.mu.Unlock()

	if fresh || running {
		return nil
	}
	err := s.Refresh(ctx)
	if errors.Is(err, ErrRefreshInProgress) {
		return nil
	}
	return err
}

// Refresh performs a full sequential sync of every page, blocking until the
// last page is ingested or a page fails.
func (s *Syncer) Refresh(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	return s.run(ctx, nil)
}

// RefreshIncremental starts a refresh and returns immediately with two
// signals: firstPage closes once page 1 is ingested (the UI can unblock),
// done receives the final result once the background tail completes.
func (s *Syncer) RefreshIncremental(ctx context.Context) (firstPage <-chan struct{}, done <-chan error, err error) {
	if err := s.begin(); err != nil {
		return nil, nil, err
	}

	first := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		result <- s.run(ctx, first)
	}()
	return first, result, nil
}

// begin transitions to refreshing, rejecting concurrent runs for this list.
func (s *Syncer) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.IsRefreshing {
		return ErrRefreshInProgress
	}
	s.state.IsRefreshing = true
	s.state.IsBackgroundRefreshing = false
	s.state.PagesLoaded = 0
	s.state.TotalPages = 0
	s.state.ItemsLoaded = 0
	s.state.ErrorMessage = ""
	return nil
}

// run walks the pages. firstPage, when non-nil, is closed after page 1 is
// ingested and flips the state to background refreshing for the tail.
func (s *Syncer) run(ctx context.Context, firstPage chan struct{}) error {
	runStart := time.Now()
	list := string(s.list)

	page := 1
	totalPages := 1
	for page <= totalPages {
		fetched, err := s.fetchPage(ctx, page, s.pageSize)
		if err != nil {
			// Keep everything ingested so far; a later run retries
			// from page 1 with the same page size.
			s.fail(err, firstPage)
			metrics.SyncFailures.WithLabelValues(list).Inc()
			return err
		}

		if err := s.ingest(fetched.Items, runStart); err != nil {
			s.fail(err, firstPage)
			metrics.SyncFailures.WithLabelValues(list).Inc()
			return err
		}

		if page == 1 {
			totalPages = fetched.Pagination.Pages
			if totalPages < 1 {
				totalPages = 1
			}
		}

		s.mu.Lock()
		s.state.TotalPages = totalPages
		s.state.PagesLoaded = page
		s.state.ItemsLoaded += len(fetched.Items)
		if page == 1 && firstPage != nil && totalPages > 1 {
			s.state.IsBackgroundRefreshing = true
		}
		s.mu.Unlock()

		metrics.SyncPagesLoaded.WithLabelValues(list).Inc()
		metrics.SyncItemsLoaded.WithLabelValues(list).Add(float64(len(fetched.Items)))

		if page == 1 && firstPage != nil {
			close(firstPage)
			firstPage = nil
		}

		page++
	}

	if firstPage != nil {
		close(firstPage)
	}

	if err := s.repo.PruneStale(s.list, runStart); err != nil {
		s.logger.Warn("Pruning removed entries failed", zap.Error(err))
	}

	completedAt := time.Now()
	if err := s.repo.SaveLastRefresh(s.list, completedAt); err != nil {
		s.logger.Warn("Persisting sync state failed", zap.Error(err))
	}

	s.mu.Lock()
	s.state.LastRefresh = &completedAt
	s.state.IsRefreshing = false
	s.state.IsBackgroundRefreshing = false
	s.mu.Unlock()

	s.logger.Info("Library sync complete",
		zap.Int("pages", totalPages),
		zap.Int("items", s.State().ItemsLoaded),
	)
	return nil
}

func (s *Syncer) ingest(items []catalog.PageItem, runStart time.Time) error {
	for _, item := range items {
		entry := &Entry{
			ListType:      s.list,
			ReleaseID:     item.ReleaseID,
			InstanceID:    item.InstanceID,
			Title:         item.Title,
			Artist:        item.Artist,
			Year:          item.Year,
			Label:         item.Label,
			CatalogNumber: item.CatalogNumber,
			ThumbURL:      item.Thumb,
		}
		if err := s.repo.UpsertFromSync(entry, runStart); err != nil {
			return err
		}
	}
	return nil
}

// fail records the page failure and clears the refreshing flags. Prior
// pages stay ingested; there is no rollback. firstPage is released so no
// listener is left waiting on a run that will not continue.
func (s *Syncer) fail(err error, firstPage chan struct{}) {
	if firstPage != nil {
		close(firstPage)
	}
	s.mu.Lock()
	s.state.ErrorMessage = err.Error()
	s.state.IsRefreshing = false
	s.state.IsBackgroundRefreshing = false
	s.mu.Unlock()

	s.logger.Warn("Library sync halted", zap.Error(err))
}
