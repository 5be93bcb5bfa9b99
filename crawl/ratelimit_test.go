package crawl_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/catalog"
	"github.com/fwojciec/catalog/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements catalog.DomainLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ catalog.DomainLimiter = crawl.NewIntervalLimiter(time.Second, 1)
	})

	t.Run("allows immediate request when under limit", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewIntervalLimiter(100*time.Millisecond, 1)

		start := time.Now()
		err := limiter.Wait(context.Background(), "shop.example")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "first request should be immediate")
	})

	t.Run("rate limits requests to same domain", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewIntervalLimiter(100*time.Millisecond, 1)

		// First request is immediate
		err := limiter.Wait(context.Background(), "shop.example")
		require.NoError(t, err)

		// Second request should wait
		start := time.Now()
		err = limiter.Wait(context.Background(), "shop.example")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "should wait for rate limit")
	})

	t.Run("different domains have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewIntervalLimiter(100*time.Millisecond, 1)

		// First request to domain A
		err := limiter.Wait(context.Background(), "shop.example")
		require.NoError(t, err)

		// First request to domain B should be immediate
		start := time.Now()
		err = limiter.Wait(context.Background(), "cdn.shop.example")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "different domain should not wait")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewIntervalLimiter(time.Second, 1)

		// First request exhausts the token
		err := limiter.Wait(context.Background(), "shop.example")
		require.NoError(t, err)

		// Second request with short timeout
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err = limiter.Wait(ctx, "shop.example")
		assert.Error(t, err, "should fail when context times out")
	})

	t.Run("concurrent requests are serialized per domain", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewIntervalLimiter(10*time.Millisecond, 1)

		var wg sync.WaitGroup
		var completed atomic.Int32

		// Launch 5 concurrent requests to same domain
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := limiter.Wait(context.Background(), "shop.example")
				if err == nil {
					completed.Add(1)
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, int32(5), completed.Load(), "all requests should complete")
	})
}

func TestNewIntervalLimiter(t *testing.T) {
	t.Parallel()

	t.Run("spaces requests by interval for a single slot", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewIntervalLimiter(100*time.Millisecond, 1)
		require.NoError(t, limiter.Wait(context.Background(), "shop.example"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "shop.example"))
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("divides the interval among slots", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewIntervalLimiter(200*time.Millisecond, 4)
		require.NoError(t, limiter.Wait(context.Background(), "shop.example"))

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "shop.example"))
		elapsed := time.Since(start)
		assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
		assert.Less(t, elapsed, 150*time.Millisecond)
	})

	t.Run("does not limit with zero interval", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewIntervalLimiter(0, 0)
		start := time.Now()
		for range 10 {
			require.NoError(t, limiter.Wait(context.Background(), "shop.example"))
		}
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})
}
