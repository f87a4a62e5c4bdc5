// Package textproc cleans raw section text and splits it into bounded sentence lists.
package textproc

import (
	"html"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"

	"github.com/jackzampolin/sift/internal/config"
	"github.com/jackzampolin/sift/internal/types"
)

const (
	// hashPrefixRunes is how much of a section the identity hash covers.
	hashPrefixRunes = 100
	truncationMark  = "..."
)

// Processor turns raw section text into types.Section values.
// It holds no state beyond its configuration and is safe for concurrent use.
type Processor struct {
	maxSectionSize         int
	maxSentencesPerSection int
	minSentenceLength      int
	maxSentenceLength      int
	policy                 *bluemonday.Policy
}

// New creates a Processor using the size limits from cfg.
func New(cfg config.Extraction) *Processor {
	return &Processor{
		maxSectionSize:         cfg.MaxSectionSize,
		maxSentencesPerSection: cfg.MaxSentencesPerSection,
		minSentenceLength:      cfg.MinSentenceLength,
		maxSentenceLength:      cfg.MaxSentenceLength,
		policy:                 bluemonday.StrictPolicy(),
	}
}

// Clean strips markup, normalizes to NFC, drops control and format
// characters, collapses whitespace and trims.
func (p *Processor) Clean(text string) string {
	if text == "" {
		return ""
	}
	// The strict policy removes every tag and escapes what remains.
	stripped := html.UnescapeString(p.policy.Sanitize(text))
	normalized := norm.NFC.String(stripped)

	var sb strings.Builder
	sb.Grow(len(normalized))
	for _, r := range normalized {
		switch {
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		case r == utf8.RuneError, unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			// dropped
		default:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// ExtractSentences splits text at '.', '!' or '?' followed by whitespace and
// an uppercase letter. Pieces outside the configured length bounds, or
// without any letter, are discarded.
func (p *Processor) ExtractSentences(text string) []string {
	var sentences []string
	for _, piece := range splitSentences(text) {
		piece = strings.TrimSpace(piece)
		n := utf8.RuneCountInString(piece)
		if n < p.minSentenceLength || n > p.maxSentenceLength {
			continue
		}
		if !hasLetter(piece) {
			continue
		}
		sentences = append(sentences, piece)
	}
	return sentences
}

// ProcessSections cleans every section, truncates oversized content, extracts
// and caps its sentences, and computes an identity hash. Sections are returned
// in lexical name order.
func (p *Processor) ProcessSections(raw map[string]string) types.Sections {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(types.Sections, 0, len(names))
	for _, name := range names {
		out = append(out, p.ProcessSection(name, raw[name]))
	}
	return out
}

// ProcessSection processes a single named section.
func (p *Processor) ProcessSection(name, text string) types.Section {
	content := p.Clean(text)
	if p.maxSectionSize > 0 && utf8.RuneCountInString(content) > p.maxSectionSize {
		content = string([]rune(content)[:p.maxSectionSize]) + truncationMark
	}

	sentences := p.ExtractSentences(content)
	if p.maxSentencesPerSection > 0 && len(sentences) > p.maxSentencesPerSection {
		sentences = sentences[:p.maxSentencesPerSection]
	}
	if sentences == nil {
		sentences = []string{}
	}

	return types.Section{
		Name:      name,
		Content:   content,
		Sentences: sentences,
		Hash:      RollingHash(content),
		Stats: types.SectionStats{
			OriginalLength:  utf8.RuneCountInString(text),
			ProcessedLength: utf8.RuneCountInString(content),
			SentenceCount:   len(sentences),
		},
	}
}

// RollingHash is a light, non-cryptographic hash over the first 100 runes of s,
// rendered in base 36. It identifies sections in logs and traces.
func RollingHash(s string) string {
	var h int32
	i := 0
	for _, r := range s {
		if i == hashPrefixRunes {
			break
		}
		h = h*31 + int32(r)
		i++
	}
	return strconv.FormatInt(int64(h), 36)
}

// splitSentences cuts text after terminal punctuation when the following
// whitespace run ends in an uppercase letter.
func splitSentences(text string) []string {
	runes := []rune(text)
	var pieces []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		pieces = append(pieces, string(runes[start:i+1]))
		start = j
		i = j - 1
	}
	if start < len(runes) {
		pieces = append(pieces, string(runes[start:]))
	}
	return pieces
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
