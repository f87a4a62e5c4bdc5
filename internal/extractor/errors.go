package extractor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackzampolin/sift/internal/parser"
)

// ErrProviderUnavailable is returned by New when no completer is supplied.
var ErrProviderUnavailable = errors.New("model provider unavailable")

// ParseError reports a model response that no parse strategy could recover,
// or that recovered into the wrong shape.
type ParseError struct {
	Property   string // empty for a batched response
	Strategies []parser.Strategy
	Reason     string
}

func (e *ParseError) Error() string {
	target := e.Property
	if target == "" {
		target = "batch"
	}
	names := make([]string, len(e.Strategies))
	for i, s := range e.Strategies {
		names[i] = string(s)
	}
	reason := e.Reason
	if reason == "" {
		reason = "no strategy recovered a value"
	}
	return fmt.Sprintf("parse response for %s: %s (tried %s)", target, reason, strings.Join(names, ", "))
}
