package typeinfer

import (
	"testing"

	"github.com/jackzampolin/sift/internal/types"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		dataType string
		want     types.ExtractionType
	}{
		{"integer", types.TypeNumber},
		{"float", types.TypeNumber},
		{"number", types.TypeNumber},
		{"Integer", types.TypeNumber},
		{"resource", types.TypeText},
		{"string", types.TypeText},
		{"text", types.TypeText},
		{"date", types.TypeDate},
		{"boolean", types.TypeBoolean},
		{"url", types.TypeURL},
		{"unknown_type", types.TypeText},
		{"", types.TypeText},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			got := Infer(types.Property{ID: "p", DataType: tt.dataType})
			if got != tt.want {
				t.Errorf("Infer(%q) = %q, want %q", tt.dataType, got, tt.want)
			}
		})
	}
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		value string
		typ   types.ExtractionType
		want  bool
	}{
		{"95.3", types.TypeNumber, true},
		{"-12", types.TypeNumber, true},
		{"+0.5", types.TypeNumber, true},
		{"95.3%", types.TypeNumber, true},
		{"1,234,567", types.TypeNumber, true},
		{"12abc", types.TypeNumber, false},
		{".5", types.TypeNumber, false},
		{"2021", types.TypeDate, true},
		{"2021-03", types.TypeDate, true},
		{"2021-03-04", types.TypeDate, true},
		{"2021-03-04T10:00:00Z", types.TypeDate, true},
		{"03/04/2021", types.TypeDate, true},
		{"2021/3/4", types.TypeDate, true},
		{"March 4", types.TypeDate, false},
		{"https://example.com/x", types.TypeURL, true},
		{"HTTP://EXAMPLE.COM", types.TypeURL, true},
		{"example.com", types.TypeURL, false},
		{"a@b.co", types.TypeEmail, true},
		{"not an email", types.TypeEmail, false},
		{"yes", types.TypeBoolean, true},
		{"FALSE", types.TypeBoolean, true},
		{"0", types.TypeBoolean, true},
		{"maybe", types.TypeBoolean, false},
		{"anything goes", types.TypeText, true},
		{"   ", types.TypeText, false},
	}

	for _, tt := range tests {
		if got := ValidateValue(tt.value, tt.typ); got != tt.want {
			t.Errorf("ValidateValue(%q, %s) = %v, want %v", tt.value, tt.typ, got, tt.want)
		}
	}
}

func TestConvertValue(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		got, ok := ConvertValue("95.3%", types.TypeNumber)
		if !ok || got != 95.3 {
			t.Errorf("ConvertValue(95.3%%) = %v, %v, want 95.3, true", got, ok)
		}
		got, ok = ConvertValue("1,200", types.TypeNumber)
		if !ok || got != 1200.0 {
			t.Errorf("ConvertValue(1,200) = %v, %v, want 1200, true", got, ok)
		}
		if _, ok := ConvertValue("n/a", types.TypeNumber); ok {
			t.Error("ConvertValue(n/a) should fail for numbers")
		}
	})

	t.Run("boolean", func(t *testing.T) {
		got, ok := ConvertValue("Yes", types.TypeBoolean)
		if !ok || got != true {
			t.Errorf("ConvertValue(Yes) = %v, %v, want true, true", got, ok)
		}
		got, ok = ConvertValue("0", types.TypeBoolean)
		if !ok || got != false {
			t.Errorf("ConvertValue(0) = %v, %v, want false, true", got, ok)
		}
		if _, ok := ConvertValue("perhaps", types.TypeBoolean); ok {
			t.Error("ConvertValue(perhaps) should fail for booleans")
		}
	})

	t.Run("passthrough", func(t *testing.T) {
		got, ok := ConvertValue("  ImageNet  ", types.TypeText)
		if !ok || got != "ImageNet" {
			t.Errorf("ConvertValue() = %v, %v, want ImageNet, true", got, ok)
		}
		if _, ok := ConvertValue("", types.TypeText); ok {
			t.Error("empty value should not convert")
		}
	})
}
