package llmcall

import (
	"sort"
	"time"
)

// Summary aggregates a set of calls.
type Summary struct {
	Count        int            `json:"count" yaml:"count"`
	SuccessCount int            `json:"success_count" yaml:"success_count"`
	ErrorCount   int            `json:"error_count" yaml:"error_count"`
	TotalLatency time.Duration  `json:"total_latency" yaml:"total_latency"`
	AvgLatencyMs float64        `json:"avg_latency_ms" yaml:"avg_latency_ms"`
	P95LatencyMs int            `json:"p95_latency_ms" yaml:"p95_latency_ms"`
	ByProvider   map[string]int `json:"by_provider,omitempty" yaml:"by_provider,omitempty"`
	ByPromptKey  map[string]int `json:"by_prompt_key,omitempty" yaml:"by_prompt_key,omitempty"`
}

// Summarize aggregates calls by outcome, provider and prompt key.
func Summarize(calls []Call) Summary {
	s := Summary{
		Count:       len(calls),
		ByProvider:  make(map[string]int),
		ByPromptKey: make(map[string]int),
	}
	if len(calls) == 0 {
		return s
	}

	latencies := make([]int, 0, len(calls))
	for _, c := range calls {
		if c.Success {
			s.SuccessCount++
		} else {
			s.ErrorCount++
		}
		s.TotalLatency += time.Duration(c.LatencyMs) * time.Millisecond
		latencies = append(latencies, c.LatencyMs)
		s.ByProvider[c.Provider]++
		s.ByPromptKey[c.PromptKey]++
	}

	s.AvgLatencyMs = float64(s.TotalLatency.Milliseconds()) / float64(s.Count)
	sort.Ints(latencies)
	s.P95LatencyMs = latencies[percentileIndex(len(latencies), 0.95)]
	return s
}

// Summary aggregates the calls matching filter.
func (s *Store) Summary(filter QueryFilter) Summary {
	return Summarize(s.List(filter))
}

// percentileIndex returns the nearest-rank index for p in a sorted slice of n.
func percentileIndex(n int, p float64) int {
	idx := int(float64(n)*p+0.5) - 1
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
