package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingClient counts calls and replies with a fixed response or error.
type countingClient struct {
	err      error
	response string
	calls    int
	mu       sync.Mutex
}

func (c *countingClient) Generate(_ context.Context, _, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.response, c.err
}

func (c *countingClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type probingClient struct {
	countingClient
	availableErr error
}

func (p *probingClient) Available(context.Context) error {
	return p.availableErr
}

func TestResponseCache(t *testing.T) {
	t.Run("basic operations", func(t *testing.T) {
		cache := newResponseCache(5 * time.Minute)
		defer cache.close()

		_, found := cache.get("missing")
		assert.False(t, found)

		cache.set("key1", "hello")
		got, found := cache.get("key1")
		assert.True(t, found)
		assert.Equal(t, "hello", got)
		assert.Equal(t, 1, cache.size())
	})

	t.Run("expiration", func(t *testing.T) {
		cache := newResponseCache(50 * time.Millisecond)
		defer cache.close()

		cache.set("key2", "soon gone")
		_, found := cache.get("key2")
		assert.True(t, found)

		time.Sleep(100 * time.Millisecond)
		_, found = cache.get("key2")
		assert.False(t, found)
	})
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, cacheKey("a", "b"), cacheKey("a", "b"))
	assert.NotEqual(t, cacheKey("a", "b"), cacheKey("b", "a"))
	assert.NotEqual(t, cacheKey("ab", ""), cacheKey("a", "b"))
}

func TestCachedClient(t *testing.T) {
	inner := &countingClient{response: "advice"}
	client := NewCachedClient(inner, time.Minute)
	defer func() { _ = client.Close() }()

	for i := 0; i < 3; i++ {
		got, err := client.Generate(context.Background(), "sys", "prompt")
		require.NoError(t, err)
		assert.Equal(t, "advice", got)
	}
	assert.Equal(t, 1, inner.count())

	_, err := client.Generate(context.Background(), "sys", "other prompt")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.count())
}

func TestCachedClientDoesNotCacheErrors(t *testing.T) {
	inner := &countingClient{err: errors.New("boom")}
	client := NewCachedClient(inner, time.Minute)
	defer func() { _ = client.Close() }()

	_, err := client.Generate(context.Background(), "s", "p")
	require.Error(t, err)
	_, err = client.Generate(context.Background(), "s", "p")
	require.Error(t, err)
	assert.Equal(t, 2, inner.count())
}

func TestCachedClientAvailable(t *testing.T) {
	plain := NewCachedClient(&countingClient{}, time.Minute)
	defer func() { _ = plain.Close() }()
	assert.NoError(t, plain.Available(context.Background()))

	down := errors.New("down")
	probing := NewCachedClient(&probingClient{availableErr: down}, time.Minute)
	defer func() { _ = probing.Close() }()
	assert.ErrorIs(t, probing.Available(context.Background()), down)

	// Close is idempotent.
	assert.NoError(t, probing.Close())
}
