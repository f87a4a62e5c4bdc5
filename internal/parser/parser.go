// Package parser recovers structured data from model replies that may be
// wrapped in prose, fenced, or malformed.
package parser

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Strategy names one step of the fallback chain.
type Strategy string

const (
	StrategyDirect        Strategy = "direct"
	StrategyBalancedBlock Strategy = "balanced-block"
	StrategyRepair        Strategy = "repair"
	StrategyKeyValue      Strategy = "key-value"
	StrategyLines         Strategy = "lines"
)

const (
	// KeyValueConfidence is assigned to candidates recovered from loose "key": "value" pairs.
	KeyValueConfidence = 0.5
	// LineConfidence is assigned to candidates recovered from key: value lines.
	LineConfidence = 0.4
	// UnknownSection marks candidates whose section could not be recovered.
	UnknownSection = "unknown"
)

// Outcome is a successful parse and the strategy that produced it.
type Outcome struct {
	Value    any
	Strategy Strategy
}

type step struct {
	name Strategy
	fn   func(string) (any, bool)
}

// Parser runs an ordered chain of strategies, each trading precision for
// recall, and returns the first structured value found.
type Parser struct {
	steps []step
}

// New creates a Parser with the standard strategy chain.
func New() *Parser {
	return &Parser{
		steps: []step{
			{StrategyDirect, parseDirect},
			{StrategyBalancedBlock, parseBalancedBlock},
			{StrategyRepair, parseRepaired},
			{StrategyKeyValue, parseKeyValues},
			{StrategyLines, parseLines},
		},
	}
}

// Strategies returns the chain order.
func (p *Parser) Strategies() []Strategy {
	out := make([]Strategy, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.name
	}
	return out
}

// Parse returns a map[string]any or []any recovered from raw.
// ok is false when every strategy misses.
func (p *Parser) Parse(raw string) (any, bool) {
	out, ok := p.ParseDetailed(raw)
	return out.Value, ok
}

// ParseDetailed is Parse plus the name of the strategy that succeeded.
func (p *Parser) ParseDetailed(raw string) (Outcome, bool) {
	if strings.TrimSpace(raw) == "" {
		return Outcome{}, false
	}
	for _, s := range p.steps {
		if v, ok := attempt(s.fn, raw); ok {
			return Outcome{Value: v, Strategy: s.name}, true
		}
	}
	return Outcome{}, false
}

// attempt runs one strategy; a panic counts as a miss.
func attempt(fn func(string) (any, bool), raw string) (v any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = nil, false
		}
	}()
	return fn(raw)
}

// decode parses s as JSON and accepts only objects and arrays.
func decode(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !gjson.Valid(s) {
		return nil, false
	}
	res := gjson.Parse(s)
	if !res.IsObject() && !res.IsArray() {
		return nil, false
	}
	return res.Value(), true
}

func parseDirect(raw string) (any, bool) {
	return decode(raw)
}

func parseBalancedBlock(raw string) (any, bool) {
	block, ok := firstBalancedBlock(raw)
	if !ok {
		return nil, false
	}
	return decode(block)
}

// firstBalancedBlock returns the first complete {...} or [...] span of s.
// Brackets inside string literals are ignored.
func firstBalancedBlock(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	var stack []byte
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return "", false
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

var (
	fencePattern         = regexp.MustCompile("```[a-zA-Z]*")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	singleQuotedKey      = regexp.MustCompile(`'([^'"\n]*)'\s*:`)
	singleQuotedValue    = regexp.MustCompile(`([:\[,]\s*)'([^'"\n]*)'`)
	newlinePattern       = regexp.MustCompile(`\r?\n`)
)

// repair applies the syntax fixes models most often need.
func repair(raw string) string {
	s := fencePattern.ReplaceAllString(raw, "")
	s = newlinePattern.ReplaceAllString(s, " ")
	s = singleQuotedKey.ReplaceAllString(s, `"$1":`)
	s = singleQuotedValue.ReplaceAllString(s, `$1"$2"`)
	s = trailingCommaPattern.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

func parseRepaired(raw string) (any, bool) {
	s := repair(raw)
	if v, ok := decode(s); ok {
		return v, true
	}
	if block, ok := firstBalancedBlock(s); ok {
		return decode(block)
	}
	return nil, false
}

// candidateFields are the per-value keys of a well-formed reply. Loose pairs
// using them describe a value, not a property, so they are skipped.
var candidateFields = map[string]bool{
	"value":      true,
	"section":    true,
	"sentence":   true,
	"confidence": true,
	"source":     true,
}

var keyValuePattern = regexp.MustCompile(`"([^"\\\n]+)"\s*:\s*"((?:[^"\\]|\\.)*)"`)

func parseKeyValues(raw string) (any, bool) {
	out := make(map[string]any)
	for _, m := range keyValuePattern.FindAllStringSubmatch(raw, -1) {
		key := strings.TrimSpace(m[1])
		value := strings.TrimSpace(unescape(m[2]))
		if key == "" || value == "" || candidateFields[strings.ToLower(key)] {
			continue
		}
		out[key] = appendCandidate(out[key], value, KeyValueConfidence)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

var linePattern = regexp.MustCompile(`^([A-Za-z][\w \-/().]{0,80}?)\s*:\s*(.+)$`)

func parseLines(raw string) (any, bool) {
	out := make(map[string]any)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		if line == "" {
			continue
		}
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.Trim(strings.TrimSpace(m[1]), `"'`)
		value := strings.TrimSpace(m[2])
		value = strings.TrimRight(value, ",;")
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if key == "" || value == "" || candidateFields[strings.ToLower(key)] {
			continue
		}
		out[key] = appendCandidate(out[key], value, LineConfidence)
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func appendCandidate(existing any, value string, confidence float64) []any {
	list, _ := existing.([]any)
	return append(list, map[string]any{
		"value":      value,
		"section":    UnknownSection,
		"sentence":   value,
		"confidence": confidence,
	})
}

var unescaper = strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\n`, " ", `\t`, " ", `\/`, "/")

func unescape(s string) string {
	return unescaper.Replace(s)
}
