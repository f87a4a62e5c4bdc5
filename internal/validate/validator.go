// Package validate enforces structural validity, evidence exclusivity and
// type conversion on extraction candidates, and merges result sets.
package validate

import (
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/jackzampolin/sift/internal/config"
	"github.com/jackzampolin/sift/internal/sentpool"
	"github.com/jackzampolin/sift/internal/typeinfer"
	"github.com/jackzampolin/sift/internal/types"
)

// Rejections counts dropped candidates by reason.
type Rejections struct {
	Structure  int `json:"structure" yaml:"structure"`
	Schema     int `json:"schema" yaml:"schema"`
	Threshold  int `json:"threshold" yaml:"threshold"`
	Conflict   int `json:"conflict" yaml:"conflict"`
	Type       int `json:"type" yaml:"type"`
	Conversion int `json:"conversion" yaml:"conversion"`
	Duplicate  int `json:"duplicate" yaml:"duplicate"`
}

// Total returns the number of rejections of any kind.
func (r Rejections) Total() int {
	return r.Structure + r.Schema + r.Threshold + r.Conflict + r.Type + r.Conversion + r.Duplicate
}

// Validator checks candidates for one property at a time against a shared
// sentence pool. The pool is what keeps evidence exclusive across properties.
type Validator struct {
	maxValues int
	dedup     bool
	threshold float64
	pool      *sentpool.Pool
	logger    *slog.Logger

	mu         sync.Mutex
	rejections Rejections
}

// New creates a Validator. A nil logger uses slog.Default().
func New(cfg config.Extraction, pool *sentpool.Pool, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	if pool == nil {
		pool = sentpool.New()
	}
	return &Validator{
		maxValues: cfg.MaxValuesPerProperty,
		dedup:     cfg.EnableSentenceDeduplication,
		threshold: cfg.ConfidenceThreshold,
		pool:      pool,
		logger:    logger,
	}
}

// Pool returns the sentence pool the validator claims evidence in.
func (v *Validator) Pool() *sentpool.Pool {
	return v.pool
}

// ValidateResults checks candidates in order and claims the evidence
// sentence of every accepted result for the property. It stops once
// MaxValuesPerProperty results are accepted.
func (v *Validator) ValidateResults(candidates []types.Candidate, p types.Property) []types.Result {
	results := v.Screen(candidates, p)
	v.Claim(results, p)
	return results
}

// Screen runs every check of ValidateResults without claiming sentences in
// the pool. A sentence accepted earlier in the same call still counts as
// taken, so two results never share evidence. Callers that merge result sets
// claim the merged set afterwards.
func (v *Validator) Screen(candidates []types.Candidate, p types.Property) []types.Result {
	key := p.Key()
	id := ownerID(p)
	t := typeinfer.Infer(p)
	seen := make(map[string]bool)
	accepted := make(map[string]bool)
	out := make([]types.Result, 0, min(len(candidates), v.maxValues))

	for _, c := range candidates {
		if len(out) >= v.maxValues {
			break
		}

		c.Value = strings.TrimSpace(c.Value)
		c.Section = strings.TrimSpace(c.Section)
		c.Sentence = strings.TrimSpace(c.Sentence)
		if c.Value == "" || c.Section == "" || c.Sentence == "" ||
			math.IsNaN(c.Confidence) || math.IsInf(c.Confidence, 0) {
			v.reject(&ValidationError{Property: key, Value: c.Value, Reason: ReasonStructure}, ReasonStructure)
			continue
		}
		c.Confidence = math.Max(0, math.Min(1, c.Confidence))
		if c.Confidence < v.threshold {
			v.reject(&ValidationError{Property: key, Value: c.Value, Reason: ReasonThreshold}, ReasonThreshold)
			continue
		}

		if v.dedup && !v.pool.IsAvailable(c.Sentence) {
			owner, _ := v.pool.Owner(c.Sentence)
			v.reject(&ConflictError{
				Property:   key,
				Owner:      owner,
				Sentence:   c.Sentence,
				Confidence: c.Confidence / 2,
			}, ReasonConflict)
			continue
		}
		hash := sentpool.Hash(c.Sentence)
		if v.dedup && accepted[hash] {
			v.reject(&ConflictError{
				Property:   key,
				Owner:      id,
				Sentence:   c.Sentence,
				Confidence: c.Confidence / 2,
			}, ReasonConflict)
			continue
		}

		if !typeinfer.ValidateValue(c.Value, t) {
			v.reject(&ValidationError{Property: key, Value: c.Value, Reason: ReasonType}, ReasonType)
			continue
		}
		converted, ok := typeinfer.ConvertValue(c.Value, t)
		if !ok {
			v.reject(&ValidationError{Property: key, Value: c.Value, Reason: ReasonConversion}, ReasonConversion)
			continue
		}

		norm := strings.ToLower(c.Value)
		if seen[norm] {
			v.reject(&ValidationError{Property: key, Value: c.Value, Reason: ReasonDuplicate}, ReasonDuplicate)
			continue
		}
		seen[norm] = true
		accepted[hash] = true

		if c.Source == "" {
			c.Source = types.SourceModel
		}
		out = append(out, types.Result{
			Candidate:    c,
			ExpectedType: t,
			Validated:    true,
			Converted:    converted,
		})
	}
	return out
}

// Claim marks the evidence sentences of results as used by the property.
// It is a no-op when sentence deduplication is disabled.
func (v *Validator) Claim(results []types.Result, p types.Property) {
	if !v.dedup {
		return
	}
	id := ownerID(p)
	for _, r := range results {
		v.pool.MarkUsed(r.Sentence, id)
	}
}

// ownerID is the name a property claims sentences under.
func ownerID(p types.Property) string {
	if p.ID != "" {
		return p.ID
	}
	return p.Key()
}

// MergeResults combines model-derived and deterministic results. Model
// results take priority; a deterministic result is added only when its
// (value, sentence) pair is new and the cap has not been reached. The
// merged list is sorted by descending confidence.
func (v *Validator) MergeResults(model, deterministic []types.Result) []types.Result {
	out := make([]types.Result, 0, len(model)+len(deterministic))
	seen := make(map[string]bool)
	for _, r := range model {
		seen[pairKey(r.Candidate)] = true
		out = append(out, r)
	}
	for _, r := range deterministic {
		if len(out) >= v.maxValues {
			break
		}
		k := pairKey(r.Candidate)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// Rejections returns a snapshot of rejection counts.
func (v *Validator) Rejections() Rejections {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rejections
}

// ResetRejections zeroes the rejection counters.
func (v *Validator) ResetRejections() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rejections = Rejections{}
}

func (v *Validator) reject(err error, reason string) {
	v.mu.Lock()
	switch reason {
	case ReasonStructure:
		v.rejections.Structure++
	case ReasonSchema:
		v.rejections.Schema++
	case ReasonThreshold:
		v.rejections.Threshold++
	case ReasonType:
		v.rejections.Type++
	case ReasonConversion:
		v.rejections.Conversion++
	case ReasonDuplicate:
		v.rejections.Duplicate++
	case ReasonConflict:
		v.rejections.Conflict++
	}
	v.mu.Unlock()
	v.logger.Debug("candidate rejected", "reason", reason, "error", err)
}

func pairKey(c types.Candidate) string {
	return strings.ToLower(strings.TrimSpace(c.Value)) + "\x00" + sentpool.Hash(c.Sentence)
}
