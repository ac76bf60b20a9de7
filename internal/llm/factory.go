package llm

import (
	"fmt"
	"strings"
)

// NewClient creates a client for cfg.Provider. A positive RateLimit wraps the
// client in a rate limiter and a positive CacheTTL puts a response cache in
// front of that, so cache hits do not spend quota.
func NewClient(cfg Config) (Client, error) {
	var (
		client Client
		err    error
	)

	switch strings.ToLower(cfg.Provider) {
	case "ollama", "":
		client, err = newOllamaClient(cfg)
	case "openai":
		client, err = newOpenAIClient(cfg)
	case "anthropic":
		client, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RateLimit > 0 {
		client = NewRateLimitedClient(client, cfg.RateLimit)
	}
	if cfg.CacheTTL > 0 {
		return NewCachedClient(client, cfg.CacheTTL), nil
	}
	return client, nil
}
