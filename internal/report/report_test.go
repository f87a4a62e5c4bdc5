package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/sift/internal/extractor"
	"github.com/jackzampolin/sift/internal/types"
)

func sampleOutput() map[string][]types.Result {
	return map[string][]types.Result{
		"Accuracy": {{
			Candidate: types.Candidate{
				Value:      "95.3",
				Section:    "results",
				Sentence:   "Accuracy: 95.3% on the test split.",
				Confidence: 0.9,
				Source:     types.SourceModel,
			},
			ExpectedType: types.TypeNumber,
			Validated:    true,
			Converted:    95.3,
		}},
		"Dataset": {},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{" text ", FormatText, false},
		{"", DefaultFormat, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, FormatJSON, sampleOutput()); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		var got map[string][]map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if got["Accuracy"][0]["value"] != "95.3" || got["Accuracy"][0]["expectedType"] != "number" {
			t.Errorf("Accuracy = %v", got["Accuracy"][0])
		}
		if got["Dataset"] == nil {
			t.Error("empty properties should render as []")
		}
	})

	t.Run("yaml inlines candidate fields", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, FormatYAML, sampleOutput()); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		var got map[string][]map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not YAML: %v", err)
		}
		if got["Accuracy"][0]["sentence"] != "Accuracy: 95.3% on the test split." {
			t.Errorf("Accuracy = %v", got["Accuracy"][0])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, FormatText, sampleOutput()); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{"Accuracy (1)", "95.3", "0.90", "model", "Dataset (0)"} {
			if !strings.Contains(out, want) {
				t.Errorf("text output missing %q:\n%s", want, out)
			}
		}
		if strings.Index(out, "Accuracy") > strings.Index(out, "Dataset") {
			t.Error("properties should be sorted")
		}
	})

	t.Run("text from a results wrapper", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, FormatText, extractor.Output(sampleOutput())); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if !strings.Contains(buf.String(), "Accuracy (1)") {
			t.Errorf("text output missing results:\n%s", buf.String())
		}
	})

	t.Run("text falls back to yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Render(&buf, FormatText, map[string]int{"a": 1}); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if strings.TrimSpace(buf.String()) != "a: 1" {
			t.Errorf("Render() = %q, want yaml", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := Render(&bytes.Buffer{}, Format("xml"), nil); err == nil {
			t.Error("Render() expected error for unknown format")
		}
	})
}
