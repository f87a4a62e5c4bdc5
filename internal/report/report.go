// Package report renders extraction output for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/sift/internal/types"
)

// Format defines the output format for CLI commands.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// DefaultFormat is the default output format.
const DefaultFormat = FormatYAML

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatJSON, FormatText:
		return f, nil
	case "":
		return DefaultFormat, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// Render writes data to w in the given format. The text format only applies
// to extraction output (map of property key to results); other values are
// written as YAML.
func Render(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case FormatText:
		results, ok := asResults(data)
		if !ok {
			return Render(w, FormatYAML, data)
		}
		return renderText(w, results)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func asResults(data any) (map[string][]types.Result, bool) {
	switch v := data.(type) {
	case map[string][]types.Result:
		return v, true
	case interface{ Results() map[string][]types.Result }:
		return v.Results(), true
	}
	return nil, false
}

func renderText(w io.Writer, results map[string][]types.Result) error {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, k := range keys {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s (%d)\n", k, len(results[k]))
		for _, r := range results[k] {
			fmt.Fprintf(tw, "  %s\t%.2f\t%s\t%s\n", r.Value, r.Confidence, r.Source, r.Section)
			fmt.Fprintf(tw, "    %q\n", r.Sentence)
		}
	}
	return tw.Flush()
}
