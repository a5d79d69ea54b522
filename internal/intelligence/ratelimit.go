package intelligence

import (
	"context"
	"time"
)

// ProviderClass groups upstream providers by how aggressively they may be
// called. Ticketing APIs are the strictest.
type ProviderClass string

const (
	ClassGeneral   ProviderClass = "general"
	ClassTicketing ProviderClass = "ticketing"
	ClassMapping   ProviderClass = "mapping"
)

// RateLimitDelays holds the minimum inter-call delay per provider class.
type RateLimitDelays struct {
	General   time.Duration
	Ticketing time.Duration
	Mapping   time.Duration
}

// DefaultRateLimitDelays mirrors the upstream providers' published limits.
func DefaultRateLimitDelays() RateLimitDelays {
	return RateLimitDelays{
		General:   100 * time.Millisecond,
		Ticketing: time.Second,
		Mapping:   100 * time.Millisecond,
	}
}

// RateLimiter enforces a minimum delay between calls per provider class.
// It is a single-token limiter, not a bucket: concurrent callers for the
// same class serialize, each waiting out the delay from the previous
// permitted call. Waiters hold the class slot while sleeping, which is what
// spaces bursts out instead of dropping them.
type RateLimiter struct {
	classes map[ProviderClass]*classGate
	now     func() time.Time
}

type classGate struct {
	sem      chan struct{}
	minDelay time.Duration
	last     time.Time
}

// NewRateLimiter builds a limiter with the provided per-class delays.
func NewRateLimiter(delays RateLimitDelays) *RateLimiter {
	mk := func(d time.Duration) *classGate {
		g := &classGate{sem: make(chan struct{}, 1), minDelay: d}
		return g
	}
	return &RateLimiter{
		classes: map[ProviderClass]*classGate{
			ClassGeneral:   mk(delays.General),
			ClassTicketing: mk(delays.Ticketing),
			ClassMapping:   mk(delays.Mapping),
		},
		now: time.Now,
	}
}

// Wait blocks until at least the class's minimum delay has elapsed since the
// last permitted call, then records now as the new last-call time. Returns
// early with the context error if ctx is done first.
func (r *RateLimiter) Wait(ctx context.Context, class ProviderClass) error {
	gate, ok := r.classes[class]
	if !ok {
		gate = r.classes[ClassGeneral]
	}

	select {
	case gate.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-gate.sem }()

	if wait := gate.minDelay - r.now().Sub(gate.last); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	gate.last = r.now()
	return nil
}
