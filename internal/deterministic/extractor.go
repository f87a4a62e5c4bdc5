// Package deterministic extracts property values with regular expressions,
// without any model call.
package deterministic

import (
	"regexp"
	"strings"

	"github.com/jackzampolin/sift/internal/types"
	"github.com/jackzampolin/sift/internal/typeinfer"
)

// Pattern confidences, by specificity.
const (
	ConfidenceURL            = 0.9
	ConfidenceDate           = 0.8
	ConfidenceExplicitNumber = 0.7
	ConfidenceGeneric        = 0.5
)

const numberExpr = `[+-]?\d[\d,]*(?:\.\d+)?`

var (
	genericNumber = regexp.MustCompile(`(` + numberExpr + `)`)
	isoDate       = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	slashDate     = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4}|\d{4}/\d{1,2}/\d{1,2})\b`)
	yearLiteral   = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
	urlToken      = regexp.MustCompile(`(?i)\b((?:https?|ftp)://[^\s<>"'\[\]{}]+)`)
	labelSplit    = regexp.MustCompile(`[\s_\-]+`)
)

type pattern struct {
	re         *regexp.Regexp
	confidence float64
	// requiresLabel restricts the pattern to sentences that mention the property.
	requiresLabel bool
}

// Extractor finds candidate values for a property by pattern matching.
type Extractor struct {
	maxValues int
}

// New creates an Extractor that returns at most maxValues candidates per property.
func New(maxValues int) *Extractor {
	if maxValues <= 0 {
		maxValues = 5
	}
	return &Extractor{maxValues: maxValues}
}

// Extract scans sections in order, then sentences in order, applying every
// pattern for the property's type. Matches must pass type validation and are
// deduplicated by normalized value. Confidences are the raw pattern scores.
func (e *Extractor) Extract(sections types.Sections, p types.Property) []types.Candidate {
	t := typeinfer.Infer(p)
	label := labelExpr(p)
	patterns := patternsFor(t, label)
	var mention *regexp.Regexp
	if label != "" {
		mention = regexp.MustCompile(`(?i)\b` + label + `\b`)
	}

	seen := make(map[string]bool)
	var out []types.Candidate
	for _, sec := range sections {
		for _, sentence := range sec.Sentences {
			mentioned := mention != nil && mention.MatchString(sentence)
			for _, pat := range patterns {
				if pat.requiresLabel && !mentioned {
					continue
				}
				for _, m := range pat.re.FindAllStringSubmatch(sentence, -1) {
					value := cleanValue(m[1], t)
					if value == "" || !typeinfer.ValidateValue(value, t) {
						continue
					}
					key := strings.ToLower(value)
					if seen[key] {
						continue
					}
					seen[key] = true
					out = append(out, types.Candidate{
						Value:      value,
						Section:    sec.Name,
						Sentence:   sentence,
						Confidence: pat.confidence,
						Source:     types.SourceDeterministic,
					})
					if len(out) >= e.maxValues {
						return out
					}
				}
			}
		}
	}
	return out
}

// labelExpr turns a property label into a regex that tolerates spaces,
// underscores and hyphens between words.
func labelExpr(p types.Property) string {
	name := strings.TrimSpace(p.Label)
	if name == "" {
		name = strings.TrimSpace(p.ID)
	}
	var words []string
	for _, w := range labelSplit.Split(name, -1) {
		if w != "" {
			words = append(words, regexp.QuoteMeta(w))
		}
	}
	return strings.Join(words, `[\s_\-]+`)
}

func patternsFor(t types.ExtractionType, label string) []pattern {
	switch t {
	case types.TypeNumber:
		var ps []pattern
		if label != "" {
			ps = append(ps,
				pattern{re: regexp.MustCompile(`(?i)\b` + label + `\b[^0-9\n]{0,40}?(` + numberExpr + `)`), confidence: ConfidenceExplicitNumber},
				pattern{re: regexp.MustCompile(`(?i)(` + numberExpr + `)\s*%?\s+(?:[\w\-]+\s+){0,3}?` + label + `\b`), confidence: ConfidenceExplicitNumber},
			)
		}
		return append(ps, pattern{re: genericNumber, confidence: ConfidenceGeneric, requiresLabel: true})
	case types.TypeDate:
		return []pattern{
			{re: isoDate, confidence: ConfidenceDate},
			{re: slashDate, confidence: ConfidenceDate},
			{re: yearLiteral, confidence: ConfidenceDate},
		}
	case types.TypeURL:
		return []pattern{{re: urlToken, confidence: ConfidenceURL}}
	default:
		if label == "" {
			return nil
		}
		return []pattern{{
			re:         regexp.MustCompile(`(?i)\b` + label + `\b\s*(?::|=|-|\s(?:is|was)\s)\s*([^.;,\n]+)`),
			confidence: ConfidenceGeneric,
		}}
	}
}

func cleanValue(v string, t types.ExtractionType) string {
	v = strings.TrimSpace(v)
	switch t {
	case types.TypeURL:
		v = strings.TrimRight(v, ".,;:!?)")
	case types.TypeNumber:
		v = strings.TrimRight(v, ",")
	default:
		v = strings.Trim(v, `"'`)
	}
	return strings.TrimSpace(v)
}
