package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"vinyl-scout/core/metrics"
)

// Limiter gates every outbound catalog call behind a token bucket.
// The first Burst acquires return immediately; once the bucket is drained,
// callers are suspended and tokens are granted at the steady refill rate.
// Concurrent acquires are serialized internally, so a token is never
// double-spent.
type Limiter struct {
	bucket *rate.Limiter
}

// New creates a limiter with the given refill rate (tokens per second) and
// burst capacity.
func New(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// NewFromQuota creates a limiter from a per-minute request quota, the unit
// remote catalog APIs publish their limits in (60/min yields 1 token/sec).
func NewFromQuota(perMinute int, burst int) *Limiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return New(float64(perMinute)/60.0, burst)
}

// Acquire blocks until a token is available and consumes it.
// It fails only when ctx is cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l.bucket.Allow() {
		return nil
	}

	// Token not immediately available; wait for the next grant.
	metrics.RateLimitWaits.Inc()
	start := time.Now()
	if err := l.bucket.Wait(ctx); err != nil {
		return err
	}
	metrics.RateLimitWaitSeconds.Observe(time.Since(start).Seconds())
	return nil
}
