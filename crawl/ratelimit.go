package crawl

import (
	"context"
	"time"

	"github.com/jbekker/capescout"
	"golang.org/x/time/rate"
)

var _ capescout.Limiter = (*Limiter)(nil)

// DefaultDelay is the politeness delay used when none is configured.
const DefaultDelay = time.Second

// Limiter spaces outbound requests by a fixed politeness delay. One
// shared instance covers listing-page and detail fetches alike, so the
// source site sees a single request cadence regardless of fetch kind.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter allowing one request per delay. A zero
// or negative delay disables waiting.
func NewLimiter(delay time.Duration) *Limiter {
	if delay <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait blocks until the next request is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
