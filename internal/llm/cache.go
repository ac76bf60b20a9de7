package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// cacheEntry represents a cached generation.
type cacheEntry struct {
	expiry   time.Time
	response string
}

// responseCache provides thread-safe TTL caching for generated text.
type responseCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
}

// newResponseCache creates a new cache with the specified TTL.
func newResponseCache(ttl time.Duration) *responseCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}

	cache := &responseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

func (c *responseCache) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiry) {
		return "", false
	}
	return entry.response, true
}

func (c *responseCache) set(key, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		response: response,
		expiry:   time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *responseCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

func (c *responseCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *responseCache) close() {
	close(c.stopCh)
}

func cacheKey(system, prompt string) string {
	sum := sha256.Sum256([]byte(system + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

// CachedClient serves repeated identical requests from memory. Failed
// generations are never cached.
type CachedClient struct {
	inner Client
	cache *responseCache
	once  sync.Once
}

// NewCachedClient wraps inner with a response cache of the given TTL.
func NewCachedClient(inner Client, ttl time.Duration) *CachedClient {
	return &CachedClient{inner: inner, cache: newResponseCache(ttl)}
}

// Generate returns a cached response or calls the wrapped client.
func (c *CachedClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	key := cacheKey(system, prompt)
	if response, ok := c.cache.get(key); ok {
		return response, nil
	}

	response, err := c.inner.Generate(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	c.cache.set(key, response)
	return response, nil
}

// Available delegates to the wrapped client when it can probe.
func (c *CachedClient) Available(ctx context.Context) error {
	if p, ok := c.inner.(Prober); ok {
		return p.Available(ctx)
	}
	return nil
}

// Close stops the cache cleanup goroutine.
func (c *CachedClient) Close() error {
	c.once.Do(c.cache.close)
	return nil
}
