package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_BurstIsImmediate(t *testing.T) {
	// Capacity 2, refill 2/min: the first two acquires must not block.
	l := NewFromQuota(2, 2)

	start := time.Now()
	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestAcquire_ThirdTokenWaits(t *testing.T) {
	// Refill 2/min means the third token arrives no sooner than ~30s.
	// Use a faster rate to keep the test quick but preserve the shape:
	// capacity 2, 10 tokens/sec, so the third grant is ~100ms out.
	l := New(10, 2)

	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	start := time.Now()
	require.NoError(t, l.Acquire(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestAcquire_ConcurrentNoDoubleSpend(t *testing.T) {
	// 20 goroutines racing for tokens at 100/sec with burst 1 must be
	// spaced out: total elapsed covers at least 19 refill intervals.
	l := New(100, 1)

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Acquire(context.Background()))
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, time.Since(start), 190*time.Millisecond)
}

func TestAcquire_ContextCancelled(t *testing.T) {
	l := New(0.001, 1)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	assert.Error(t, err)
}

func TestNewFromQuota_Floors(t *testing.T) {
	// Degenerate configuration must still produce a working limiter.
	l := NewFromQuota(0, 0)
	assert.NoError(t, l.Acquire(context.Background()))
}
