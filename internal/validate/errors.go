package validate

import "fmt"

// Rejection reasons.
const (
	ReasonStructure  = "structure"
	ReasonSchema     = "schema"
	ReasonThreshold  = "below_threshold"
	ReasonConflict   = "conflict"
	ReasonType       = "type"
	ReasonConversion = "conversion"
	ReasonDuplicate  = "duplicate"
)

// ValidationError describes a candidate that was dropped. It is logged and
// counted, never returned to callers of ValidateResults.
type ValidationError struct {
	Property string
	Value    string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("candidate %q for %s rejected: %s", e.Value, e.Property, e.Reason)
}

// ConflictError describes a candidate whose evidence sentence was already
// claimed. Confidence is the halved score the candidate was dropped with.
type ConflictError struct {
	Property   string
	Owner      string
	Sentence   string
	Confidence float64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("sentence already claimed by %s, dropped for %s (confidence %.2f): %q",
		e.Owner, e.Property, e.Confidence, e.Sentence)
}
