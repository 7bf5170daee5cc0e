package api

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter applies a per-caller token bucket to the ad-hoc query
// endpoint.
type RateLimiter struct {
	mu                sync.Mutex
	limiters          map[string]*rate.Limiter
	requestsPerSecond int
	burstSize         int
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		limiters:          make(map[string]*rate.Limiter),
		requestsPerSecond: 10,
		burstSize:         20,
	}
}

// Allow reports whether the caller may proceed.
func (rl *RateLimiter) Allow(caller string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Prevent unbounded growth from unauthenticated callers.
	if len(rl.limiters) >= 10000 {
		rl.limiters = make(map[string]*rate.Limiter)
	}

	limiter, exists := rl.limiters[caller]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(rl.requestsPerSecond), rl.burstSize)
		rl.limiters[caller] = limiter
	}

	return limiter.Allow()
}
