// Package typeinfer maps declared property data types onto the extraction
// type vocabulary and checks raw values against it.
package typeinfer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jackzampolin/sift/internal/types"
)

// dataTypes maps declared data types (lowercased) to extraction types.
var dataTypes = map[string]types.ExtractionType{
	"resource": types.TypeText,
	"string":   types.TypeText,
	"text":     types.TypeText,
	"number":   types.TypeNumber,
	"integer":  types.TypeNumber,
	"float":    types.TypeNumber,
	"date":     types.TypeDate,
	"boolean":  types.TypeBoolean,
	"url":      types.TypeURL,
}

var (
	numberPattern    = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
	thousandsPattern = regexp.MustCompile(`(\d),(\d{3})`)
	isoDatePattern   = regexp.MustCompile(`^\d{4}(-\d{2}(-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?)?)?)?$`)
	slashDatePattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}|\d{4}/\d{1,2}/\d{1,2})$`)
	urlPattern       = regexp.MustCompile(`(?i)^(https?|ftp)://\S+$`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Infer returns the extraction type for a property's declared data type.
// Unknown or empty declarations fall back to text.
func Infer(p types.Property) types.ExtractionType {
	return FromDataType(p.DataType)
}

// FromDataType maps a declared data type name to an extraction type.
func FromDataType(dataType string) types.ExtractionType {
	if t, ok := dataTypes[strings.ToLower(strings.TrimSpace(dataType))]; ok {
		return t
	}
	return types.TypeText
}

// ValidateValue reports whether value has the shape expected for t.
// Types without a dedicated pattern accept any non-empty string.
func ValidateValue(value string, t types.ExtractionType) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	switch t {
	case types.TypeNumber:
		return numberPattern.MatchString(normalizeNumber(v))
	case types.TypeDate:
		return isoDatePattern.MatchString(v) || slashDatePattern.MatchString(v)
	case types.TypeURL:
		return urlPattern.MatchString(v)
	case types.TypeEmail:
		return emailPattern.MatchString(v)
	case types.TypeBoolean:
		_, ok := parseBool(v)
		return ok
	default:
		return true
	}
}

// ConvertValue converts value into the native representation for t:
// float64 for numbers, bool for booleans, the trimmed string otherwise.
// ok is false when the value cannot be converted.
func ConvertValue(value string, t types.ExtractionType) (converted any, ok bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, false
	}
	switch t {
	case types.TypeNumber:
		f, err := strconv.ParseFloat(normalizeNumber(v), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case types.TypeBoolean:
		b, ok := parseBool(v)
		if !ok {
			return nil, false
		}
		return b, true
	default:
		return v, true
	}
}

// normalizeNumber drops a trailing percent sign and thousands separators.
func normalizeNumber(v string) string {
	v = strings.TrimSpace(strings.TrimSuffix(v, "%"))
	for thousandsPattern.MatchString(v) {
		v = thousandsPattern.ReplaceAllString(v, "$1$2")
	}
	return v
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true", "yes", "1":
		return true, true
	case "false", "no", "0":
		return false, true
	default:
		return false, false
	}
}
