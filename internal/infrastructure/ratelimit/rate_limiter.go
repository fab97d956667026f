package ratelimit

import (
	"sync"
	"time"
)

// Action names throttled by the limiter.
const (
	ActionSendMessage        = "send_message"
	ActionCreateRequest      = "create_request"
	ActionCreateConversation = "create_conversation"
	ActionSubmitFeedback     = "submit_feedback"
)

type limit struct {
	maxTokens  int
	refillRate int
	refillTime time.Duration
}

var limits = map[string]limit{
	ActionSendMessage:        {maxTokens: 10, refillRate: 1, refillTime: 6 * time.Second},
	ActionCreateRequest:      {maxTokens: 5, refillRate: 1, refillTime: 5 * time.Minute},
	ActionCreateConversation: {maxTokens: 5, refillRate: 1, refillTime: 12 * time.Minute},
	ActionSubmitFeedback:     {maxTokens: 3, refillRate: 1, refillTime: 10 * time.Minute},
}

var defaultLimit = limit{maxTokens: 20, refillRate: 1, refillTime: 3 * time.Second}

type tokenBucket struct {
	tokens     int
	maxTokens  int
	refillRate int
	refillTime time.Duration
	lastRefill time.Time
	mutex      sync.Mutex
}

func newTokenBucket(l limit) *tokenBucket {
	return &tokenBucket{
		tokens:     l.maxTokens,
		maxTokens:  l.maxTokens,
		refillRate: l.refillRate,
		refillTime: l.refillTime,
		lastRefill: time.Now(),
	}
}

func (tb *tokenBucket) allow() (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	if tokensToAdd := int(elapsed/tb.refillTime) * tb.refillRate; tokensToAdd > 0 {
		tb.tokens += tokensToAdd
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefill = now
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}

	return false, tb.lastRefill.Add(tb.refillTime).Sub(now)
}

// RateLimiter throttles per-user actions with token buckets.
type RateLimiter struct {
	buckets map[string]*tokenBucket
	mutex   sync.RWMutex
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*tokenBucket),
	}
}

// Allow reports whether the user may perform the action now, and if not,
// how long to wait for the next token.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	key := userID + ":" + action

	rl.mutex.RLock()
	bucket, exists := rl.buckets[key]
	rl.mutex.RUnlock()

	if !exists {
		rl.mutex.Lock()
		if bucket, exists = rl.buckets[key]; !exists {
			l, ok := limits[action]
			if !ok {
				l = defaultLimit
			}
			bucket = newTokenBucket(l)
			rl.buckets[key] = bucket
		}
		rl.mutex.Unlock()
	}

	return bucket.allow()
}

// Cleanup removes buckets idle for over an hour.
func (rl *RateLimiter) Cleanup() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	for key, bucket := range rl.buckets {
		// lastRefill is mutated by allow() under the bucket mutex.
		bucket.mutex.Lock()
		idle := now.Sub(bucket.lastRefill) > time.Hour
		bucket.mutex.Unlock()
		if idle {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine periodically evicts idle buckets.
func (rl *RateLimiter) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			rl.Cleanup()
		}
	}()
}
