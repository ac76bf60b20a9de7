package llm

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// rateLimiter is a token bucket refilled continuously at requestsPerMinute.
type rateLimiter struct {
	last     time.Time
	now      func() time.Time
	interval time.Duration
	tokens   float64
	capacity float64
	mu       sync.Mutex
}

func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	rl := &rateLimiter{
		now:      time.Now,
		interval: time.Minute / time.Duration(requestsPerMinute),
		tokens:   float64(requestsPerMinute),
		capacity: float64(requestsPerMinute),
	}
	rl.last = rl.now()
	return rl
}

// reserve takes a token if one is available and otherwise reports how long
// until the next one.
func (rl *rateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if elapsed := now.Sub(rl.last); elapsed > 0 {
		rl.tokens = min(rl.capacity, rl.tokens+float64(elapsed)/float64(rl.interval))
		rl.last = now
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return 0
	}
	return time.Duration(math.Ceil((1 - rl.tokens) * float64(rl.interval)))
}

// wait blocks until a token is taken or ctx is done.
func (rl *rateLimiter) wait(ctx context.Context) error {
	for {
		delay := rl.reserve()
		if delay == 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// RateLimitedClient keeps generation calls under a requests-per-minute quota.
// Probes are not counted.
type RateLimitedClient struct {
	inner   Client
	limiter *rateLimiter
}

// NewRateLimitedClient wraps inner. A non-positive quota means 60 per minute.
func NewRateLimitedClient(inner Client, requestsPerMinute int) *RateLimitedClient {
	return &RateLimitedClient{inner: inner, limiter: newRateLimiter(requestsPerMinute)}
}

// Generate waits for quota and calls the wrapped client.
func (c *RateLimitedClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return "", err
	}
	return c.inner.Generate(ctx, system, prompt)
}

// Available delegates to the wrapped client when it can probe.
func (c *RateLimitedClient) Available(ctx context.Context) error {
	if p, ok := c.inner.(Prober); ok {
		return p.Available(ctx)
	}
	return nil
}
