package llm

import (
	"context"
	"strings"
	"time"
)

// Client generates free text from a system instruction and a user prompt.
type Client interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Prober is implemented by clients that can check, ahead of a call, that the
// provider is reachable and serves the configured model.
type Prober interface {
	Available(ctx context.Context) error
}

// Config holds provider settings. Zero values select provider defaults.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	CacheTTL    time.Duration
	Temperature float64
	TopP        float64
	MaxTokens   int
	// RateLimit caps generation requests per minute. Zero disables it.
	RateLimit   int
}

const (
	defaultTimeout     = 60 * time.Second
	defaultTemperature = 0.7
	defaultTopP        = 0.9
	defaultMaxTokens   = 800
)

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return defaultTimeout
}

func (c Config) temperature() float64 {
	if c.Temperature > 0 {
		return c.Temperature
	}
	return defaultTemperature
}

func (c Config) topP() float64 {
	if c.TopP > 0 {
		return c.TopP
	}
	return defaultTopP
}

func (c Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return defaultMaxTokens
}

func (c Config) baseURL(fallback string) string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return fallback
}
