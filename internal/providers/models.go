package providers

import "strings"

// Models lists the models of one provider that handle structured summaries.
// The first model is the provider's default.
type Models struct {
	Provider string
	Models   []string
}

var catalog = []Models{
	{Provider: "gemini", Models: []string{"gemini-2.0-flash-lite", "gemini-2.0-flash", "gemini-2.5-flash", "gemini-2.5-pro"}},
	{Provider: "openai", Models: []string{"gpt-4.1-mini", "gpt-4.1", "gpt-4o-mini", "gpt-4o"}},
	{Provider: "anthropic", Models: []string{"claude-haiku-4-5", "claude-sonnet-4-5"}},
	{Provider: "ollama", Models: []string{"llama3.2", "llama3.3", "qwen2.5", "mistral"}},
}

// Known returns the model catalog in display order.
func Known() []Models {
	out := make([]Models, len(catalog))
	for i, m := range catalog {
		out[i] = Models{Provider: m.Provider, Models: append([]string(nil), m.Models...)}
	}
	return out
}

// DefaultModel returns the model used when none is configured, or "" for an
// unknown provider. Aliases resolve to their canonical provider.
func DefaultModel(provider string) string {
	name := canonicalName(provider)
	for _, m := range catalog {
		if m.Provider == name {
			return m.Models[0]
		}
	}
	return ""
}

func canonicalName(provider string) string {
	switch p := strings.ToLower(provider); p {
	case "google":
		return "gemini"
	case "lmstudio":
		return "ollama"
	default:
		return p
	}
}
