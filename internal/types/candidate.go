package types

// CandidateSource indicates which path produced a candidate.
type CandidateSource string

const (
	// SourceModel indicates a candidate parsed from a model response.
	SourceModel CandidateSource = "model"
	// SourceDeterministic indicates a candidate from pattern extraction.
	SourceDeterministic CandidateSource = "deterministic"
)

// Candidate is an extracted value before validation.
type Candidate struct {
	Value      string          `json:"value" yaml:"value"`
	Section    string          `json:"section" yaml:"section"`
	Sentence   string          `json:"sentence" yaml:"sentence"`
	Confidence float64         `json:"confidence" yaml:"confidence"`
	Source     CandidateSource `json:"source,omitempty" yaml:"source,omitempty"`
}

// Result is a candidate that passed validation.
// Converted holds the value in its native representation (float64, bool or string).
type Result struct {
	Candidate    `yaml:",inline"`
	ExpectedType ExtractionType `json:"expectedType" yaml:"expectedType"`
	Validated    bool           `json:"validated" yaml:"validated"`
	Converted    any            `json:"converted" yaml:"converted"`
}

// Candidates strips validation metadata from results.
func Candidates(results []Result) []Candidate {
	out := make([]Candidate, len(results))
	for i, r := range results {
		out[i] = r.Candidate
	}
	return out
}
