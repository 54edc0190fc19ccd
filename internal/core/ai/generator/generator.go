// Package generator provides text generation through LLM chat APIs.
package generator

import (
	"context"
	"fmt"

	"github.com/guiyumin/voicediary/internal/core/config"
)

// Usage reports token consumption for one generation call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Result contains the generation output.
type Result struct {
	Text  string
	Usage Usage
}

// TextGenerator produces text from a prompt.
type TextGenerator interface {
	// Generate sends the prompt and returns the model's response.
	Generate(ctx context.Context, prompt string) (*Result, error)

	// Name returns the provider name.
	Name() string
}

// New creates a TextGenerator based on configuration.
func New(cfg config.AIServiceConfig) (TextGenerator, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		return NewOpenAI(cfg)
	case "anthropic":
		return NewAnthropic(cfg)
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", provider)
	}
}
