package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/papergen/internal/logger"
	"github.com/abhisek/papergen/internal/store"
)

// NewProvider creates a Provider from configuration.
// Real providers are wrapped with the event-logging middleware when repo is
// non-nil. There is no retry layer: every generation is a single attempt.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter, cfg.Timeout)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI, cfg.Timeout)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic, cfg.Timeout)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini, cfg.Timeout)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if repo == nil {
		return base, nil
	}
	return WithLogging(base, cfg.Provider, repo, log), nil
}
