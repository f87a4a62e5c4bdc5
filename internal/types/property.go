// Package types provides shared types used across multiple packages.
// This package has no dependencies on other sift packages to avoid import cycles.
package types

import "strings"

// ExtractionType is the normalized kind of value a property holds.
type ExtractionType string

const (
	TypeText    ExtractionType = "text"
	TypeNumber  ExtractionType = "number"
	TypeDate    ExtractionType = "date"
	TypeURL     ExtractionType = "url"
	TypeBoolean ExtractionType = "boolean"
	// TypeEmail is only produced by explicit requests; inference never yields it.
	TypeEmail ExtractionType = "email"
)

// Property is a caller-defined field to extract values for.
type Property struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	DataType    string `json:"dataType,omitempty" yaml:"dataType,omitempty"`
}

// Key returns the output key for this property: the label if set, else the ID.
func (p Property) Key() string {
	if strings.TrimSpace(p.Label) != "" {
		return p.Label
	}
	return p.ID
}
