// Package redact scrubs Reddit comment text before it is sent to any LLM
// provider.
//
// Two families of regex heuristics are applied. Secrets covers credential
// shapes people occasionally paste (bearer tokens, JWTs, provider API keys).
// PII covers email addresses, US and French phone numbers, and u/ user
// mentions. Matches are replaced with [REDACTED]; nothing else in the text
// changes, so neighborhood matching and upvote data are unaffected.
package redact
