package extractor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/sift/internal/llmcall"
	"github.com/jackzampolin/sift/internal/prompts"
	"github.com/jackzampolin/sift/internal/providers"
)

// completeWithRetry sends prompt to the completer, making up to MaxRetries+1
// attempts. The wait before retry n is n × RetryDelay. Only the last error is
// returned.
func (e *Extractor) completeWithRetry(ctx context.Context, prompt string, opts llmcall.RecordOptions) (string, error) {
	opts.PromptHash = prompts.HashText(prompt)
	opts.Provider = e.completer.Name()
	step := e.cfg.RetryDelay

	attempt := 0
	return retry.DoWithData(
		func() (string, error) {
			attempt++
			e.count(func(c *counters) { c.llmCalls++ })

			start := time.Now()
			resp, err := e.completer.Complete(ctx, prompt)
			if err == nil && strings.TrimSpace(resp) == "" {
				err = providers.ErrEmptyResponse
			}

			if e.recorder != nil {
				call := opts
				call.Attempt = attempt
				e.recorder.RecordCall(llmcall.NewCall(call, resp, time.Since(start), err))
			}
			return resp, err
		},
		retry.Context(ctx),
		retry.Attempts(uint(e.cfg.MaxRetries+1)),
		// retry-go numbers the first retry 1.
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return time.Duration(n) * step
		}),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			e.logger.Debug("model call failed, retrying",
				"prompt", opts.PromptKey, "property", opts.Property, "attempt", n+1, "error", err)
		}),
	)
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	if errors.Is(err, providers.ErrUnavailable) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *providers.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return true
}
