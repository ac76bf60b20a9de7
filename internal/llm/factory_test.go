package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantType any
		wantErr  bool
	}{
		{"default is ollama", Config{}, &ollamaClient{}, false},
		{"ollama", Config{Provider: "Ollama"}, &ollamaClient{}, false},
		{"openai", Config{Provider: "openai", APIKey: "k"}, &openAIClient{}, false},
		{"anthropic", Config{Provider: "anthropic", APIKey: "k"}, &anthropicClient{}, false},
		{"openai without key", Config{Provider: "openai"}, nil, true},
		{"unknown provider", Config{Provider: "gemini"}, nil, true},
		{"cached", Config{Provider: "ollama", CacheTTL: time.Minute}, &CachedClient{}, false},
		{"rate limited", Config{Provider: "ollama", RateLimit: 30}, &RateLimitedClient{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, client)
			if c, ok := client.(*CachedClient); ok {
				_ = c.Close()
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	assert.Equal(t, defaultTimeout, cfg.timeout())
	assert.Equal(t, defaultTemperature, cfg.temperature())
	assert.Equal(t, defaultTopP, cfg.topP())
	assert.Equal(t, defaultMaxTokens, cfg.maxTokens())
	assert.Equal(t, "http://fallback", cfg.baseURL("http://fallback"))

	cfg = Config{Timeout: time.Second, Temperature: 0.2, TopP: 0.5, MaxTokens: 10, BaseURL: "http://custom//"}
	assert.Equal(t, time.Second, cfg.timeout())
	assert.Equal(t, 0.2, cfg.temperature())
	assert.Equal(t, 0.5, cfg.topP())
	assert.Equal(t, 10, cfg.maxTokens())
	assert.Equal(t, "http://custom", cfg.baseURL("http://fallback"))
}

func TestNewClientCacheWrapsLimiter(t *testing.T) {
	client, err := NewClient(Config{Provider: "ollama", RateLimit: 30, CacheTTL: time.Minute})
	require.NoError(t, err)

	cached, ok := client.(*CachedClient)
	require.True(t, ok)
	defer func() { _ = cached.Close() }()
	assert.IsType(t, &RateLimitedClient{}, cached.inner)
}
