package redact

import (
	"regexp"
)

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for credentials people paste by accident.
var secretPatterns = []*regexp.Regexp{
	// Bearer tokens
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs (three base64 segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Anthropic API keys
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	// OpenAI API keys
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
	// Google API keys
	regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`),
}

// piiPatterns match personal details that do not belong in a prompt.
var piiPatterns = []*regexp.Regexp{
	// Email addresses
	regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	// North American phone numbers: (310) 555-0100, 310-555-0100, +1 310.555.0100
	regexp.MustCompile(`(?:\+?1[\s.-]?)?\(?\b[2-9]\d{2}\)?[\s.-]?\d{3}[\s.-]\d{4}\b`),
	// French phone numbers: 06 12 34 56 78, +33 6 12 34 56 78
	regexp.MustCompile(`(?:\+33\s?|\b0)[1-9](?:[\s.-]?\d{2}){4}\b`),
	// Reddit user mentions
	regexp.MustCompile(`(?i)(?:^|\s)/?u/[A-Za-z0-9_-]{3,20}\b`),
}

// Secrets replaces detected credentials in text with [REDACTED].
func Secrets(text string) string {
	return replaceAll(text, secretPatterns)
}

// PII replaces email addresses, phone numbers and user mentions with
// [REDACTED].
func PII(text string) string {
	return replaceAll(text, piiPatterns)
}

// Comment applies both secret and PII redaction. It is what the summarizer
// runs on every comment before it is placed in a prompt.
func Comment(text string) string {
	return PII(Secrets(text))
}

func replaceAll(text string, patterns []*regexp.Regexp) string {
	result := text
	for _, pat := range patterns {
		result = pat.ReplaceAllStringFunc(result, func(match string) string {
			// Keep the leading whitespace the user-mention pattern consumes.
			if n := leadingSpace(match); n > 0 {
				return match[:n] + placeholder
			}
			return placeholder
		})
	}
	return result
}

func leadingSpace(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t' || s[n] == '\n' || s[n] == '\r') {
		n++
	}
	return n
}
