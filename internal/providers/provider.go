package providers

import (
	"context"
	"fmt"
)

// Schema describes the JSON shape a structured response must have. It
// marshals to a JSON Schema subset understood by every supported provider.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	// Ordering lists property names in the order they should be generated.
	Ordering []string `json:"-"`
}

// Request is a single generation call. Parts are sent, in order, as user
// content.
type Request struct {
	System      string
	Parts       []string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Response contains the raw text returned by the provider.
type Response struct {
	Content    string
	TokensUsed int
}

// Generator is the provider abstraction.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
	Model() string
}

// New creates a provider by name. An empty model selects the provider's
// default. A missing credential is a *ConfigError.
func New(provider, model string) (Generator, error) {
	if model == "" {
		model = DefaultModel(provider)
	}
	switch canonicalName(provider) {
	case "gemini":
		return NewGemini(model)
	case "openai":
		return NewOpenAI(model)
	case "anthropic":
		return NewAnthropic(model)
	case "ollama":
		return NewOllama(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

func defaultMaxTokens(n int) int {
	if n == 0 {
		return 4096
	}
	return n
}
