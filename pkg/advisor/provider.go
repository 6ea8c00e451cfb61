// Package advisor generates an AI remediation narrative from processed
// scan results. It is model-agnostic: providers implement a minimal text
// generation interface, and the core pipeline never depends on this
// package or the network.
package advisor

import (
	"context"
	"fmt"
)

// Provider is a text-generation backend.
type Provider interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// NewProvider builds a provider by name.
func NewProvider(ctx context.Context, providerName, apiKey, modelName string) (Provider, error) {
	switch providerName {
	case "gemini":
		return NewGeminiProvider(ctx, apiKey, modelName)
	case "openai":
		return NewOpenAIProvider(apiKey, modelName), nil
	case "anthropic":
		return NewAnthropicProvider(apiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
}
