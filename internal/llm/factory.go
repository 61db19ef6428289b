package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"CompanyInsights/internal/config"
)

// New builds the model selected by cfg.LLM.Provider.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Model, error) {
	c := cfg.LLM
	timeout := cfg.LLMTimeout()
	switch c.Provider {
	case "ollama", "":
		return NewOllamaModel(c.BaseURL, c.Model, c.Temperature, timeout, logger), nil
	case "claude":
		return NewClaudeModel(c.APIKey, c.Model, c.MaxTokens, c.Temperature, timeout, logger), nil
	case "gemini":
		m, err := NewGeminiModel(ctx, c.APIKey, c.Model, c.MaxTokens, c.Temperature, timeout, logger)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", c.Provider)
	}
}
