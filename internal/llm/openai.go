package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/budgetsim/internal/common"
)

const (
	defaultOpenAIURL   = "https://api.openai.com/v1"
	defaultOpenAIModel = "gpt-4o-mini"
)

// openAIClient implements the Client interface for the OpenAI chat API.
type openAIClient struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	topP        float64
	maxTokens   int
}

func newOpenAIClient(cfg Config) (*openAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &openAIClient{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.baseURL(defaultOpenAIURL),
		model:       model,
		temperature: cfg.temperature(),
		topP:        cfg.topP(),
		maxTokens:   cfg.maxTokens(),
		httpClient:  newHTTPClient(cfg.timeout()),
	}, nil
}

// openAIResponse represents the OpenAI API response structure.
type openAIResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
		Index        int    `json:"index"`
	} `json:"choices"`
}

// Generate sends a chat completion request and returns the first choice.
func (c *openAIClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
		"temperature": c.temperature,
		"top_p":       c.topP,
		"max_tokens":  c.maxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var response openAIResponse
	if err := doJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+"/chat/completions", headers, requestBody, &response, "OpenAI"); err != nil {
		return "", err
	}

	if len(response.Choices) == 0 || strings.TrimSpace(response.Choices[0].Message.Content) == "" {
		return "", common.ErrEmptyResponse
	}
	return response.Choices[0].Message.Content, nil
}
