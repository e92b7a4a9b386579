// Package providers implements the Generator interface for each supported LLM
// provider.
//
// Supported providers: Google (Gemini, through the GenAI SDK), OpenAI,
// Anthropic, and Ollama / LM Studio for local models. Every request may carry
// a [Schema]; providers that support constrained decoding pass it through,
// the others describe it in the system prompt.
//
// Providers make exactly one call per Generate. Retrying is the caller's
// decision; errors are typed so that callers can tell transient failures
// (rate limits, server errors) from fatal ones ([IsAuthError],
// [IsConfigError]).
//
// Use [New] to obtain a Generator by provider name and model string.
package providers
