package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/budgetsim/internal/common"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
)

// ollamaClient talks to a local Ollama server.
type ollamaClient struct {
	httpClient  *http.Client
	baseURL     string
	model       string
	temperature float64
	topP        float64
	numPredict  int
}

func newOllamaClient(cfg Config) (*ollamaClient, error) {
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}

	return &ollamaClient{
		baseURL:     cfg.baseURL(defaultOllamaURL),
		model:       model,
		temperature: cfg.temperature(),
		topP:        cfg.topP(),
		numPredict:  cfg.maxTokens(),
		httpClient:  newHTTPClient(cfg.timeout()),
	}, nil
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Options  ollamaOptions   `json:"options"`
	Stream   bool            `json:"stream"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// Generate sends a non-streaming chat request.
func (c *ollamaClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	request := ollamaChatRequest{
		Model: c.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Options: ollamaOptions{
			Temperature: c.temperature,
			TopP:        c.topP,
			NumPredict:  c.numPredict,
		},
	}

	var response ollamaChatResponse
	if err := doJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+"/api/chat", nil, request, &response, "ollama"); err != nil {
		return "", err
	}

	if strings.TrimSpace(response.Message.Content) == "" {
		return "", common.ErrEmptyResponse
	}
	return response.Message.Content, nil
}

// Available lists local models and checks that the configured one is pulled.
func (c *ollamaClient) Available(ctx context.Context) error {
	var tags ollamaTagsResponse
	if err := doJSON(ctx, c.httpClient, http.MethodGet, c.baseURL+"/api/tags", nil, nil, &tags, "ollama"); err != nil {
		return fmt.Errorf("%w: %v", common.ErrProviderUnavailable, err)
	}

	for _, m := range tags.Models {
		if strings.Contains(m.Name, c.model) || strings.Contains(m.Model, c.model) {
			return nil
		}
	}
	return fmt.Errorf("%w: model %s is not installed", common.ErrProviderUnavailable, c.model)
}
