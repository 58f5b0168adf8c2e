package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"vinyl-scout/core/metrics"
)

// BreakerClient wraps a Client with a circuit breaker so a struggling
// upstream stops being hammered while cached and local data keep serving.
//
// The breaker opens at a 60% failure rate over at least 10 requests, allows
// 3 probes in half-open state, and waits 2 minutes before probing. Expected
// conditions (not found, bad credentials) do not count as failures.
type BreakerClient struct {
	inner Client
	cb    *gobreaker.CircuitBreaker[any]
}

var _ Client = (*BreakerClient)(nil)

// NewBreakerClient wraps inner with circuit breaker protection.
func NewBreakerClient(inner Client, logger *zap.Logger) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "catalog-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},

		IsSuccessful: func(err error) bool {
			// 404 is membership data; 401 requires user action, not
			// protection. Only transport/server trouble should trip.
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrUnauthorized)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("catalog breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.BreakerState.Set(stateToFloat(to))
		},
	})

	return &BreakerClient{inner: inner, cb: cb}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

func execute[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: circuit breaker open", ErrNetworkUnavailable)
		}
		return zero, err
	}
	v, _ := result.(T)
	return v, nil
}

func (b *BreakerClient) Search(ctx context.Context, query string) (*SearchResults, error) {
	return execute(b, func() (*SearchResults, error) { return b.inner.Search(ctx, query) })
}

func (b *BreakerClient) GetRelease(ctx context.Context, releaseID int64) (*Release, error) {
	return execute(b, func() (*Release, error) { return b.inner.GetRelease(ctx, releaseID) })
}

func (b *BreakerClient) GetPriceSuggestions(ctx context.Context, releaseID int64) (PriceSuggestions, error) {
	return execute(b, func() (PriceSuggestions, error) { return b.inner.GetPriceSuggestions(ctx, releaseID) })
}

func (b *BreakerClient) GetCollectionStatus(ctx context.Context, username string, releaseID int64) (*CollectionStatus, error) {
	return execute(b, func() (*CollectionStatus, error) {
		return b.inner.GetCollectionStatus(ctx, username, releaseID)
	})
}

func (b *BreakerClient) AddToCollection(ctx context.Context, username string, releaseID int64) (int64, error) {
	return execute(b, func() (int64, error) { return b.inner.AddToCollection(ctx, username, releaseID) })
}

func (b *BreakerClient) RemoveFromCollection(ctx context.Context, username string, releaseID, instanceID int64) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.inner.RemoveFromCollection(ctx, username, releaseID, instanceID)
	})
	return err
}

func (b *BreakerClient) AddToWantlist(ctx context.Context, username string, releaseID int64) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.inner.AddToWantlist(ctx, username, releaseID)
	})
	return err
}

func (b *BreakerClient) RemoveFromWantlist(ctx context.Context, username string, releaseID int64) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.inner.RemoveFromWantlist(ctx, username, releaseID)
	})
	return err
}

func (b *BreakerClient) GetCollectionPage(ctx context.Context, username string, page, perPage int) (*Page, error) {
	return execute(b, func() (*Page, error) { return b.inner.GetCollectionPage(ctx, username, page, perPage) })
}

func (b *BreakerClient) GetWantlistPage(ctx context.Context, username string, page, perPage int) (*Page, error) {
	return execute(b, func() (*Page, error) { return b.inner.GetWantlistPage(ctx, username, page, perPage) })
}
