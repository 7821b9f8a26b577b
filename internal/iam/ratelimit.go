package iam

import (
	"sync"
	"time"
)

// LoginRateLimiter throttles login attempts per client using a token
// bucket. A successful login resets the caller's bucket so legitimate
// users are never locked out by their own typos.
type LoginRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*attemptBucket
	limit   int
	period  time.Duration
}

type attemptBucket struct {
	tokens     int
	lastRefill time.Time
}

// NewLoginRateLimiter creates a limiter allowing limit attempts per period
// for each key.
func NewLoginRateLimiter(limit int, period time.Duration) *LoginRateLimiter {
	return &LoginRateLimiter{
		buckets: make(map[string]*attemptBucket),
		limit:   limit,
		period:  period,
	}
}

// Allow reports whether another attempt is permitted for the key.
func (rl *LoginRateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = &attemptBucket{tokens: rl.limit, lastRefill: now}
		rl.buckets[key] = bucket
	}

	elapsed := now.Sub(bucket.lastRefill)
	if elapsed >= rl.period {
		bucket.tokens = rl.limit
		bucket.lastRefill = now
	} else if refill := int(elapsed.Nanoseconds() * int64(rl.limit) / rl.period.Nanoseconds()); refill > 0 {
		bucket.tokens += refill
		if bucket.tokens > rl.limit {
			bucket.tokens = rl.limit
		}
		bucket.lastRefill = now
	}

	if bucket.tokens > 0 {
		bucket.tokens--
		return true
	}
	return false
}

// Reset restores the key's full allowance.
func (rl *LoginRateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if bucket, ok := rl.buckets[key]; ok {
		bucket.tokens = rl.limit
		bucket.lastRefill = time.Now()
	}
}

// Sweep drops buckets idle longer than the period. Call it periodically to
// bound memory on long-running processes.
func (rl *LoginRateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-2 * rl.period)
	for key, bucket := range rl.buckets {
		if bucket.lastRefill.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}
