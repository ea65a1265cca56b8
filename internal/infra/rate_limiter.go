package infra

import (
	"sync"
	"time"
)

// RateLimiter is a token bucket. One instance guards one endpoint
// class; all REST calls of that class share it. Safe for concurrent
// use.
type RateLimiter struct {
	mu          sync.Mutex
	tokens      float64
	maxTokens   float64
	refillRate  float64 // tokens per second
	lastRefill  time.Time
	lastRequest time.Time
}

// NewRateLimiter creates a bucket that holds up to maxRequests tokens
// and refills at perSecond.
func NewRateLimiter(maxRequests int, perSecond float64) *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		tokens:      float64(maxRequests),
		maxTokens:   float64(maxRequests),
		refillRate:  perSecond,
		lastRefill:  now,
		lastRequest: now.Add(-time.Hour), // first request never waits
	}
}

// Wait blocks until a token is available.
func (r *RateLimiter) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()

	for r.tokens < 1 {
		waitTime := time.Duration(float64(time.Second) / r.refillRate)
		r.mu.Unlock()
		time.Sleep(waitTime)
		r.mu.Lock()
		r.refill()
	}

	r.tokens--
	r.lastRequest = time.Now()
}

// TryAcquire takes a token if one is available, without blocking.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()

	if r.tokens >= 1 {
		r.tokens--
		r.lastRequest = time.Now()
		return true
	}
	return false
}

// refill credits tokens for the time elapsed since the last refill,
// capped at the bucket size. Caller holds the mutex.
func (r *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(r.lastRefill).Seconds()
	r.tokens += elapsed * r.refillRate

	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}

	r.lastRefill = now
}

// Binance allows far higher request rates than these; the headroom
// keeps a misbehaving strategy well clear of an IP ban.
var (
	binanceOrderLimiter  *RateLimiter
	binanceMarketLimiter *RateLimiter
	rateLimiterOnce      sync.Once
)

// GetBinanceOrderLimiter returns the shared limiter for order
// endpoints: 10 requests/second, burst of 5.
func GetBinanceOrderLimiter() *RateLimiter {
	rateLimiterOnce.Do(initBinanceLimiters)
	return binanceOrderLimiter
}

// GetBinanceMarketLimiter returns the shared limiter for market-data
// endpoints: 20 requests/second, burst of 10.
func GetBinanceMarketLimiter() *RateLimiter {
	rateLimiterOnce.Do(initBinanceLimiters)
	return binanceMarketLimiter
}

func initBinanceLimiters() {
	binanceOrderLimiter = NewRateLimiter(5, 10)
	binanceMarketLimiter = NewRateLimiter(10, 20)
}
