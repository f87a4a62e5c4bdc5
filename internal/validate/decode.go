package validate

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/sift/internal/types"
)

//go:embed candidate.schema.json
var candidateSchemaJSON []byte

var candidateSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("candidate.schema.json", bytes.NewReader(candidateSchemaJSON)); err != nil {
		panic(fmt.Sprintf("failed to load candidate schema: %v", err))
	}
	schema, err := compiler.Compile("candidate.schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile candidate schema: %v", err))
	}
	return schema
}

// Decode converts a parsed model reply slice into candidates. It accepts an
// array of candidate objects, a single candidate object, or bare scalars.
// Objects that do not match the candidate schema are dropped and counted.
func (v *Validator) Decode(raw any, property string) []types.Candidate {
	var items []any
	switch t := raw.(type) {
	case nil:
		return nil
	case []any:
		items = t
	default:
		items = []any{t}
	}

	out := make([]types.Candidate, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case map[string]any:
			if err := candidateSchema.Validate(it); err != nil {
				v.reject(&ValidationError{Property: property, Value: fmt.Sprint(it["value"]), Reason: ReasonSchema}, ReasonSchema)
				continue
			}
			c := types.Candidate{
				Value:      scalarString(it["value"]),
				Section:    it["section"].(string),
				Sentence:   it["sentence"].(string),
				Confidence: toFloat(it["confidence"]),
				Source:     types.SourceModel,
			}
			if src, _ := it["source"].(string); src == string(types.SourceDeterministic) {
				c.Source = types.SourceDeterministic
			}
			out = append(out, c)
		case string, float64, bool:
			// No evidence; the structural check drops it unless a caller fills it in.
			out = append(out, types.Candidate{Value: scalarString(it), Source: types.SourceModel})
		default:
			v.reject(&ValidationError{Property: property, Value: fmt.Sprint(it), Reason: ReasonSchema}, ReasonSchema)
		}
	}
	return out
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return 0
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
