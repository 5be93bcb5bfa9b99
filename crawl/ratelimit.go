package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/catalog"
	"golang.org/x/time/rate"
)

var _ catalog.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter provides per-domain rate limiting using token buckets.
// It creates a separate rate limiter for each domain, allowing concurrent
// requests to different domains while enforcing rate limits within each domain.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewIntervalLimiter creates a DomainLimiter that lets each of slots
// workers issue at most one request per interval to a domain, i.e. one
// request per interval/slots overall. Each domain gets its own limiter with
// a burst of 1. A non-positive interval disables limiting.
func NewIntervalLimiter(interval time.Duration, slots int) *DomainLimiter {
	if slots < 1 {
		slots = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval / time.Duration(slots))
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
