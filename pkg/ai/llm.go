package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/infrastructure/cache"
	"github.com/DIZ-admin/meeting-minutes-generator-v2/pkg/config"
)

// LLMClient is a minimal client for OpenAI-compatible chat
// completion endpoints.
type LLMClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	cache       *cache.MemoryStore
	cacheTTL    time.Duration
	client      *http.Client
}

// NewLLMClient creates a chat client using values from the provided
// config. Pass a nil config to fall back to environment variables.
// The cache is optional; pass nil to disable response caching.
func NewLLMClient(cfg *config.LLMConfig, store *cache.MemoryStore) *LLMClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("LLM_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("LLM_BASE_URL")
		if base == "" {
			base = "https://api.openai.com"
		}
	}

	model := "gpt-4o-mini"
	maxTokens := 4096
	temperature := 0.2
	cacheTTL := 24 * time.Hour
	if cfg != nil {
		if cfg.Model != "" {
			model = cfg.Model
		}
		if cfg.MaxTokens > 0 {
			maxTokens = cfg.MaxTokens
		}
		if cfg.Temperature > 0 {
			temperature = cfg.Temperature
		}
		if cfg.CacheTTL > 0 {
			cacheTTL = cfg.CacheTTL
		}
	}

	return &LLMClient{
		apiKey:      apiKey,
		baseURL:     base,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		cache:       store,
		cacheTTL:    cacheTTL,
		client:      &http.Client{Timeout: 120 * time.Second},
	}
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string      `json:"model,omitempty"`
	Messages    interface{} `json:"messages,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends a system and user message pair and returns the
// assistant content. Identical requests within the cache TTL are
// served from memory.
func (c *LLMClient) Generate(ctx context.Context, system, user string) (string, error) {
	key := cache.Key(c.model, system, user)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return cached, nil
		}
	}

	messages := []map[string]string{
		{"role": "system", "content": system},
		{"role": "user", "content": user},
	}

	reqBody := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("llm returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from llm")
	}

	content := cr.Choices[0].Message.Content
	if c.cache != nil {
		c.cache.Set(key, content, c.cacheTTL)
	}
	return content, nil
}
