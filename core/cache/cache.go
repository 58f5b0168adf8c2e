package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vinyl-scout/core/metrics"
)

// Fetcher loads the value for a key from the remote source.
// It is expected to go through the rate limiter internally.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Store is a TTL cache with in-flight request coalescing.
//
// Entries are valid while their age is within the store's TTL. A read that
// misses (or forces a refresh) triggers exactly one fetch per key at any
// instant; concurrent readers for the same key share that fetch's result.
// Failed fetches are propagated to every awaiter and never cached.
type Store[T any] struct {
	name string
	ttl  time.Duration

	mu      sync.RWMutex
	entries map[string]entry[T]

	flight singleflight.Group
}

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// New creates a store for one kind of data. The name labels metrics; the TTL
// reflects the data's volatility (search results: minutes, release details:
// hours, membership status: minutes).
func New[T any](name string, ttl time.Duration) *Store[T] {
	return &Store[T]{
		name:    name,
		ttl:     ttl,
		entries: make(map[string]entry[T]),
	}
}

// Get returns the cached value for key if it is still fresh, otherwise
// fetches it. Concurrent calls for the same key coalesce into one fetch.
func (s *Store[T]) Get(ctx context.Context, key string, fetch Fetcher[T]) (T, error) {
	if v, ok := s.lookup(key); ok {
		metrics.CacheHits.WithLabelValues(s.name).Inc()
		return v, nil
	}

	metrics.CacheMisses.WithLabelValues(s.name).Inc()
	return s.fetchShared(ctx, key, fetch)
}

// Refresh bypasses the freshness check and fetches the value, but still
// coalesces with any fetch already in flight for the key. Used by the
// mutation coordinator to obtain verified remote truth. Counted separately
// from misses so verification traffic does not skew the hit rate.
func (s *Store[T]) Refresh(ctx context.Context, key string, fetch Fetcher[T]) (T, error) {
	metrics.CacheRefreshes.WithLabelValues(s.name).Inc()
	return s.fetchShared(ctx, key, fetch)
}

// Peek returns the cached value for key if it is fresh, without ever
// triggering a fetch.
func (s *Store[T]) Peek(key string) (T, bool) {
	return s.lookup(key)
}

// Set stores value under key, stamped now. Used to seed the cache with
// values learned outside a fetch (e.g. an optimistic mutation result).
func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	s.entries[key] = entry[T]{value: value, fetchedAt: time.Now()}
	s.mu.Unlock()
}

// Invalidate removes the entry for key. A fetch already in flight for the
// key is not affected; its result will repopulate the store when it lands.
func (s *Store[T]) Invalidate(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// InvalidateAll drops every entry.
func (s *Store[T]) InvalidateAll() {
	s.mu.Lock()
	s.entries = make(map[string]entry[T])
	s.mu.Unlock()
}

func (s *Store[T]) lookup(key string) (T, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || time.Since(e.fetchedAt) > s.ttl {
		var zero T
		return zero, false
	}
	return e.value, true
}

// fetchShared runs fetch through singleflight so that at most one fetch per
// key is outstanding. The fetch itself runs under a detached context: an
// awaiter abandoning its wait (view disappearing, request cancelled) does
// not cancel the shared fetch, which completes and populates the store for
// everyone else.
func (s *Store[T]) fetchShared(ctx context.Context, key string, fetch Fetcher[T]) (T, error) {
	detached := context.WithoutCancel(ctx)

	ch := s.flight.DoChan(key, func() (any, error) {
		v, err := fetch(detached)
		if err != nil {
			return nil, err
		}
		s.Set(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.CacheCoalesced.WithLabelValues(s.name).Inc()
		}
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
