package providers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is a Completer for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	FailFirst    int // Fail the first N requests, then succeed
	ResponseText string
	// Responses are returned in order; the last one repeats. Takes precedence over ResponseText.
	Responses []string
	// Respond, when set, computes the reply from the prompt and overrides everything else.
	Respond func(prompt string) (string, error)

	// State
	requestCount atomic.Int64
	mu           sync.Mutex
	prompts      []string
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "[]",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Complete returns the configured reply.
func (c *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	count := c.requestCount.Add(1)

	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()

	if c.ShouldFail {
		return "", fmt.Errorf("mock client configured to fail")
	}
	if c.FailAfter > 0 && int(count) > c.FailAfter {
		return "", fmt.Errorf("mock client failed after %d requests", c.FailAfter)
	}
	if c.FailFirst > 0 && int(count) <= c.FailFirst {
		return "", fmt.Errorf("mock client failing request %d of first %d", count, c.FailFirst)
	}

	// Simulate latency
	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if c.Respond != nil {
		return c.Respond(prompt)
	}
	if len(c.Responses) > 0 {
		idx := int(count) - 1
		if idx >= len(c.Responses) {
			idx = len(c.Responses) - 1
		}
		return c.Responses[idx], nil
	}
	return c.ResponseText, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Prompts returns a copy of every prompt received, in order.
func (c *MockClient) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prompts))
	copy(out, c.prompts)
	return out
}

// Reset resets the request counter and recorded prompts.
func (c *MockClient) Reset() {
	c.requestCount.Store(0)
	c.mu.Lock()
	c.prompts = nil
	c.mu.Unlock()
}

// Verify interface
var _ Completer = (*MockClient)(nil)
