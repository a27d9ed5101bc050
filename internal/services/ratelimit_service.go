package services

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// sweepInterval is how often Allow drops idle buckets.
const sweepInterval = time.Minute

// RateLimiter enforces a per-minute request budget for each API key with a
// token bucket refilled continuously.
type RateLimiter struct {
	mu       sync.Mutex
	limits   map[string]int
	def      int
	limiters map[string]*rate.Limiter
	swept    time.Time
	now      func() time.Time
}

// NewRateLimiter takes per-key limits and a default for keys not listed.
func NewRateLimiter(limits map[string]int, defaultPerMinute int) *RateLimiter {
	return &RateLimiter{
		limits:   limits,
		def:      defaultPerMinute,
		limiters: map[string]*rate.Limiter{},
		now:      time.Now,
	}
}

// Limit is the per-minute budget of key.
func (l *RateLimiter) Limit(key string) int {
	if n, ok := l.limits[key]; ok {
		return n
	}
	return l.def
}

// Allow consumes one request for key. It returns whether the request may
// proceed and how many requests remain in the current budget.
func (l *RateLimiter) Allow(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.swept) >= sweepInterval {
		l.sweep(now)
	}

	lim, ok := l.limiters[key]
	if !ok {
		perMinute := l.Limit(key)
		lim = rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute)
		l.limiters[key] = lim
	}

	allowed := lim.AllowN(now, 1)
	remaining := int(lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// sweep drops buckets that have refilled completely. A full bucket behaves
// like a new one, so forgetting it changes no decision. Callers hold mu.
func (l *RateLimiter) sweep(now time.Time) {
	for key, lim := range l.limiters {
		if lim.TokensAt(now) >= float64(lim.Burst()) {
			delete(l.limiters, key)
		}
	}
	l.swept = now
}

// Reset forgets every key's usage.
func (l *RateLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters = map[string]*rate.Limiter{}
}
