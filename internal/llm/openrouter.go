package llm

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	chatCompletionsPath      = "/chat/completions"
)

// OpenRouterProvider implements Provider using OpenRouter's OpenAI-compatible API.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
// BaseURL may be either the API root or the full chat-completions URL.
func NewOpenRouterProvider(cfg OpenRouterConfig, timeout time.Duration) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openrouter model is required")
	}

	inner := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: openRouterBaseURL(cfg.BaseURL),
	}, timeout)

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// openRouterBaseURL returns the API root go-openai appends its paths to.
func openRouterBaseURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return defaultOpenRouterBaseURL
	}
	return strings.TrimSuffix(base, chatCompletionsPath)
}
