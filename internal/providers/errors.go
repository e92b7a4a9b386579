package providers

import (
	"errors"
	"fmt"
)

// ConfigError reports a provider that cannot be used because a required
// setting, usually an API key, is missing.
type ConfigError struct {
	Provider string
	Setting  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s is not set", e.Provider, e.Setting)
}

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

type rateLimitError struct {
	body string
}

func (e *rateLimitError) Error() string {
	if e.body == "" {
		return "rate limited"
	}
	return "rate limited: " + e.body
}

type serverError struct {
	statusCode int
	body       string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.statusCode, e.body)
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// IsConfigError checks if an error is a missing-configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsFatal reports errors that no amount of retrying will fix.
func IsFatal(err error) bool {
	return IsAuthError(err) || IsConfigError(err)
}

// statusError maps a non-200 HTTP status to a typed error.
func statusError(code int, body []byte) error {
	switch {
	case code == 429:
		return &rateLimitError{body: string(body)}
	case code == 401 || code == 403:
		return &authError{message: string(body)}
	case code >= 500:
		return &serverError{statusCode: code, body: string(body)}
	default:
		return fmt.Errorf("API error (status %d): %s", code, string(body))
	}
}
