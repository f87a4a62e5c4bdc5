package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Completer turns a prompt into a completion. It is the only capability the
// extraction pipeline needs from a model provider.
type Completer interface {
	// Complete sends a single-turn prompt and returns the raw text reply.
	Complete(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier (e.g., "openai").
	Name() string
}

// ErrUnavailable marks a provider that cannot serve requests at all
// (missing credentials, disabled, unknown type).
var ErrUnavailable = errors.New("provider unavailable")

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("empty response")

// StatusError is a non-2xx reply from a provider HTTP API.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 500 {
		body = body[:500] + "...[truncated]"
	}
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, body)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return shouldRetry(e.StatusCode)
}

// shouldRetry returns true for status codes that should be retried.
func shouldRetry(statusCode int) bool {
	switch statusCode {
	case 408, 409, 425, 429:
		return true
	default:
		// Retry on server errors (500+)
		return statusCode >= 500
	}
}

// CompleterFunc adapts a function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Name returns "func".
func (f CompleterFunc) Name() string {
	return "func"
}

// Verify interface
var _ Completer = CompleterFunc(nil)
