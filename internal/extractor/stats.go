package extractor

import (
	"github.com/jackzampolin/sift/internal/config"
	"github.com/jackzampolin/sift/internal/sentpool"
	"github.com/jackzampolin/sift/internal/validate"
)

// Stats is a snapshot of an Extractor's counters since construction or the
// last ResetStats.
type Stats struct {
	TotalExtractions int                 `json:"totalExtractions" yaml:"totalExtractions"`
	LLMCalls         int                 `json:"llmCalls" yaml:"llmCalls"`
	FallbacksUsed    int                 `json:"fallbacksUsed" yaml:"fallbacksUsed"`
	ParseErrors      int                 `json:"parseErrors" yaml:"parseErrors"`
	ValidationErrors int                 `json:"validationErrors" yaml:"validationErrors"`
	Rejections       validate.Rejections `json:"rejections" yaml:"rejections"`
	SentencePool     sentpool.Stats      `json:"sentencePool" yaml:"sentencePool"`
	Config           config.Extraction   `json:"config" yaml:"config"`
}

type counters struct {
	totalExtractions int
	llmCalls         int
	fallbacksUsed    int
	parseErrors      int
}

// Stats returns a snapshot of the extractor's counters.
func (e *Extractor) Stats() Stats {
	e.mu.Lock()
	c := e.counters
	e.mu.Unlock()

	rejections := e.validator.Rejections()
	return Stats{
		TotalExtractions: c.totalExtractions,
		LLMCalls:         c.llmCalls,
		FallbacksUsed:    c.fallbacksUsed,
		ParseErrors:      c.parseErrors,
		ValidationErrors: rejections.Total(),
		Rejections:       rejections,
		SentencePool:     e.pool.Stats(),
		Config:           e.cfg,
	}
}

// ResetStats zeroes every counter. The sentence pool is left alone; it is
// cleared at the start of each extraction.
func (e *Extractor) ResetStats() {
	e.mu.Lock()
	e.counters = counters{}
	e.mu.Unlock()
	e.validator.ResetRejections()
}

func (e *Extractor) count(fn func(*counters)) {
	e.mu.Lock()
	fn(&e.counters)
	e.mu.Unlock()
}
