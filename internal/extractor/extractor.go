// Package extractor orchestrates property extraction: it prepares sections,
// asks a model for values in batched or per-property mode, and falls back to
// pattern extraction whenever the model path yields nothing usable.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/sift/internal/config"
	"github.com/jackzampolin/sift/internal/deterministic"
	"github.com/jackzampolin/sift/internal/llmcall"
	"github.com/jackzampolin/sift/internal/parser"
	"github.com/jackzampolin/sift/internal/prompts"
	"github.com/jackzampolin/sift/internal/providers"
	"github.com/jackzampolin/sift/internal/sentpool"
	"github.com/jackzampolin/sift/internal/textproc"
	"github.com/jackzampolin/sift/internal/types"
	"github.com/jackzampolin/sift/internal/validate"
)

// Output maps each requested property key to its ordered results.
type Output map[string][]types.Result

// Results returns the output as a plain map. It lets report.Render print
// an Output in text format.
func (o Output) Results() map[string][]types.Result {
	return o
}

// Mode names the strategy a run used.
type Mode string

const (
	ModeBatched       Mode = "batched"
	ModePerProperty   Mode = "per-property"
	ModeDeterministic Mode = "deterministic"
)

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder records every model call attempt.
func WithRecorder(r llmcall.Recorder) Option {
	return func(e *Extractor) {
		e.recorder = r
	}
}

// WithPool sets the sentence pool. The pool is cleared at the start of every
// extraction, so sharing one between extractors is not supported.
func WithPool(pool *sentpool.Pool) Option {
	return func(e *Extractor) {
		if pool != nil {
			e.pool = pool
		}
	}
}

// Extractor runs the extraction pipeline for one document at a time.
// Extract must not be called concurrently on the same instance; Stats may be
// called at any time.
type Extractor struct {
	cfg       config.Extraction
	completer providers.Completer
	logger    *slog.Logger
	recorder  llmcall.Recorder

	pool          *sentpool.Pool
	processor     *textproc.Processor
	builder       *prompts.Builder
	parser        *parser.Parser
	deterministic *deterministic.Extractor
	validator     *validate.Validator

	mu       sync.Mutex
	counters counters
}

// New creates an Extractor that uses completer for model calls.
// It returns ErrProviderUnavailable when completer is nil.
func New(cfg config.Extraction, completer providers.Completer, opts ...Option) (*Extractor, error) {
	if completer == nil {
		return nil, ErrProviderUnavailable
	}
	return newExtractor(cfg, completer, opts)
}

// NewDeterministic creates an Extractor that never calls a model. Every
// property is served by pattern extraction.
func NewDeterministic(cfg config.Extraction, opts ...Option) (*Extractor, error) {
	return newExtractor(cfg, nil, opts)
}

func newExtractor(cfg config.Extraction, completer providers.Completer, opts []Option) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extraction config: %w", err)
	}

	e := &Extractor{
		cfg:       cfg,
		completer: completer,
		logger:    slog.Default(),
		pool:      sentpool.New(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.processor = textproc.New(cfg)
	e.builder = prompts.NewBuilder(cfg.PromptSentenceLimit)
	e.parser = parser.New()
	e.deterministic = deterministic.New(cfg.MaxValuesPerProperty)
	e.validator = validate.New(cfg, e.pool, e.logger)
	return e, nil
}

// run carries the per-call state of one extraction.
type run struct {
	id       string
	sections types.Sections
	out      Output
}

// Extract returns validated results for every property, keyed by
// Property.Key(). Every requested key is present, possibly with an empty
// slice. Model failures degrade to pattern extraction rather than errors;
// the only error is a context already done on entry.
func (e *Extractor) Extract(ctx context.Context, sections map[string]string, properties []types.Property) (Output, error) {
	mode := ModePerProperty
	switch {
	case e.completer == nil:
		mode = ModeDeterministic
	case e.cfg.EnableMultiPropertyAnalysis && len(properties) > 1:
		mode = ModeBatched
	}
	return e.extract(ctx, sections, properties, mode)
}

// ExtractDeterministic runs the pipeline with pattern extraction only.
// Results pass through the same validation and sentence pool as Extract.
func (e *Extractor) ExtractDeterministic(ctx context.Context, sections map[string]string, properties []types.Property) (Output, error) {
	return e.extract(ctx, sections, properties, ModeDeterministic)
}

func (e *Extractor) extract(ctx context.Context, sections map[string]string, properties []types.Property, mode Mode) (Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	r := &run{
		id:       uuid.New().String(),
		sections: e.processor.ProcessSections(sections),
		out:      make(Output, len(properties)),
	}
	e.pool.Clear()
	for _, p := range properties {
		r.out[p.Key()] = []types.Result{}
	}

	e.logger.Debug("extraction started",
		"run_id", r.id, "mode", mode, "properties", len(properties),
		"sections", r.sections.Names(), "sentences", r.sections.SentenceCount())

	switch mode {
	case ModeBatched:
		e.extractBatched(ctx, r, properties)
	case ModePerProperty:
		e.extractEach(ctx, r, properties)
	default:
		for _, p := range properties {
			r.out[p.Key()] = e.deterministicResults(r.sections, p)
		}
	}

	e.count(func(c *counters) { c.totalExtractions++ })

	values := 0
	for _, results := range r.out {
		values += len(results)
	}
	e.logger.Info("extraction complete",
		"run_id", r.id, "mode", mode, "properties", len(properties),
		"values", values, "duration", time.Since(start))
	return r.out, nil
}

// extractBatched asks for every property in one prompt. A response that is
// not a mapping sends every property through per-property mode; a model
// failure sends every property to the fallback.
func (e *Extractor) extractBatched(ctx context.Context, r *run, properties []types.Property) {
	prompt, err := e.builder.Multi(r.sections, properties)
	if err != nil {
		e.logger.Warn("batched prompt failed, using per-property mode", "run_id", r.id, "error", err)
		e.extractEach(ctx, r, properties)
		return
	}

	resp, err := e.completeWithRetry(ctx, prompt, llmcall.RecordOptions{
		RunID:     r.id,
		PromptKey: prompts.MultiPromptKey,
	})
	if err != nil {
		e.logger.Warn("batched model call failed, using fallback", "run_id", r.id, "error", err)
		for _, p := range properties {
			r.out[p.Key()] = e.fallback(r.sections, p)
		}
		return
	}

	outcome, ok := e.parser.ParseDetailed(resp)
	byKey, isMap := outcome.Value.(map[string]any)
	if !ok || !isMap {
		perr := &ParseError{Strategies: e.parser.Strategies()}
		if ok {
			perr.Reason = fmt.Sprintf("expected an object keyed by property, got %T via %s", outcome.Value, outcome.Strategy)
		}
		e.count(func(c *counters) { c.parseErrors++ })
		e.logger.Warn("batched response unusable, using per-property mode", "run_id", r.id, "error", perr)
		e.extractEach(ctx, r, properties)
		return
	}

	for _, p := range properties {
		r.out[p.Key()] = e.batchedProperty(r, p, byKey)
	}
}

func (e *Extractor) batchedProperty(r *run, p types.Property, byKey map[string]any) (results []types.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("panic validating batched results", "property", p.Key(), "panic", rec)
			results = e.fallback(r.sections, p)
		}
	}()

	raw, _ := lookup(byKey, p)
	results = e.validator.ValidateResults(e.validator.Decode(raw, p.Key()), p)
	if len(results) == 0 && e.cfg.EnableDeterministicFallback {
		results = e.fallback(r.sections, p)
	}
	return results
}

func (e *Extractor) extractEach(ctx context.Context, r *run, properties []types.Property) {
	for _, p := range properties {
		r.out[p.Key()] = e.extractProperty(ctx, r, p)
	}
}

// extractProperty runs the single-property model path and merges pattern
// results into it. Any failure on the model path yields the fallback.
func (e *Extractor) extractProperty(ctx context.Context, r *run, p types.Property) (results []types.Result) {
	key := p.Key()
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("panic extracting property", "property", key, "panic", rec)
			results = e.fallback(r.sections, p)
		}
	}()

	prompt, err := e.builder.Single(r.sections, p)
	if err != nil {
		e.logger.Warn("prompt failed, using fallback", "property", key, "error", err)
		return e.fallback(r.sections, p)
	}

	resp, err := e.completeWithRetry(ctx, prompt, llmcall.RecordOptions{
		RunID:     r.id,
		Property:  key,
		PromptKey: prompts.SinglePromptKey,
	})
	if err != nil {
		e.logger.Warn("model call failed, using fallback", "property", key, "error", err)
		return e.fallback(r.sections, p)
	}

	outcome, ok := e.parser.ParseDetailed(resp)
	if !ok {
		e.count(func(c *counters) { c.parseErrors++ })
		e.logger.Warn("model response unparseable, using fallback",
			"property", key, "error", &ParseError{Property: key, Strategies: e.parser.Strategies()})
		return e.fallback(r.sections, p)
	}
	e.logger.Debug("model response parsed", "property", key, "strategy", outcome.Strategy)

	model := e.validator.Screen(e.validator.Decode(propertyValue(outcome.Value, p), key), p)
	if !e.cfg.EnableDeterministicFallback {
		e.validator.Claim(model, p)
		return model
	}

	det := e.validator.Screen(e.discounted(r.sections, p), p)
	merged := e.validator.MergeResults(model, det)
	e.validator.Claim(merged, p)
	return merged
}

// fallback serves a property from pattern extraction alone, when enabled.
func (e *Extractor) fallback(sections types.Sections, p types.Property) []types.Result {
	if !e.cfg.EnableDeterministicFallback {
		return []types.Result{}
	}
	e.count(func(c *counters) { c.fallbacksUsed++ })
	return e.deterministicResults(sections, p)
}

func (e *Extractor) deterministicResults(sections types.Sections, p types.Property) []types.Result {
	return e.validator.ValidateResults(e.discounted(sections, p), p)
}

// discounted returns pattern candidates scaled by FallbackDiscount.
func (e *Extractor) discounted(sections types.Sections, p types.Property) []types.Candidate {
	candidates := e.deterministic.Extract(sections, p)
	for i := range candidates {
		candidates[i].Confidence *= e.cfg.FallbackDiscount
		candidates[i].Source = types.SourceDeterministic
	}
	return candidates
}

// propertyValue narrows a parsed single-property response to the part that
// holds candidates: an array, a single candidate object, or the entry of a
// mapping keyed by the property.
func propertyValue(v any, p types.Property) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if _, isCandidate := m["value"]; isCandidate {
		return m
	}
	if raw, found := lookup(m, p); found {
		return raw
	}
	return nil
}

// lookup finds a property's entry by label, then ID, then either one
// case-insensitively.
func lookup(m map[string]any, p types.Property) (any, bool) {
	for _, k := range []string{p.Label, p.ID} {
		if k == "" {
			continue
		}
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	for k, v := range m {
		if (p.Label != "" && strings.EqualFold(k, p.Label)) || (p.ID != "" && strings.EqualFold(k, p.ID)) {
			return v, true
		}
	}
	return nil, false
}
