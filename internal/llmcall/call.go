// Package llmcall provides model call recording and querying for traceability.
// Every model attempt is recorded with its prompt key, response, and latency.
package llmcall

import (
	"time"

	"github.com/google/uuid"
)

// Call represents a recorded model call attempt.
type Call struct {
	// Unique identifier
	ID string `json:"id" yaml:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	LatencyMs int       `json:"latency_ms" yaml:"latency_ms"`

	// Context references
	RunID    string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Property string `json:"property,omitempty" yaml:"property,omitempty"` // empty for batched calls
	Attempt  int    `json:"attempt" yaml:"attempt"`

	// Prompt traceability
	PromptKey  string `json:"prompt_key" yaml:"prompt_key"`
	PromptHash string `json:"prompt_hash,omitempty" yaml:"prompt_hash,omitempty"` // Hash of the exact rendered prompt

	// Model info
	Provider string `json:"provider" yaml:"provider"`

	// Response
	Response string `json:"response,omitempty" yaml:"response,omitempty"`

	// Status
	Success bool   `json:"success" yaml:"success"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RecordOptions provides context for recording a model call.
type RecordOptions struct {
	// Context references (all optional)
	RunID    string
	Property string
	Attempt  int

	// Prompt identification (required for traceability)
	PromptKey  string
	PromptHash string

	Provider string
}

// NewCall creates a Call from the outcome of one attempt.
func NewCall(opts RecordOptions, response string, latency time.Duration, err error) *Call {
	call := &Call{
		ID:         uuid.New().String(),
		Timestamp:  time.Now(),
		LatencyMs:  int(latency.Milliseconds()),
		RunID:      opts.RunID,
		Property:   opts.Property,
		Attempt:    opts.Attempt,
		PromptKey:  opts.PromptKey,
		PromptHash: opts.PromptHash,
		Provider:   opts.Provider,
		Response:   response,
		Success:    err == nil,
	}
	if err != nil {
		call.Error = err.Error()
	}
	return call
}
