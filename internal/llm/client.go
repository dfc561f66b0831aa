// Package llm provides the model gateway: single-shot prompt-in, text-out
// calls to a generative model endpoint, plus extraction of JSON payloads from
// the raw text the model returns.
package llm

import (
	"context"
)

// Client is the interface for model providers. Generate sends one prompt and
// returns the model's raw text. No retry, no streaming: callers treat every
// failure uniformly.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Provider is the type of model provider.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Config holds provider construction settings.
type Config struct {
	APIKey string
	Model  string
}

// NewClient creates a model client for the given provider.
func NewClient(provider Provider, cfg Config) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg)
	case ProviderAnthropic:
		return NewAnthropicClient(cfg)
	default:
		return NewGeminiClient(cfg)
	}
}
