package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/sift/internal/extractor"
	"github.com/jackzampolin/sift/internal/home"
	"github.com/jackzampolin/sift/internal/llmcall"
	"github.com/jackzampolin/sift/internal/providers"
	"github.com/jackzampolin/sift/internal/report"
	"github.com/jackzampolin/sift/internal/types"
)

var (
	sectionsFile   string
	propertiesFile string
	providerName   string
	extractMode    string
	noModel        bool
	showStats      bool
	showCalls      bool
	saveRun        bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract property values from document sections",
	Long: `Extract property values from document sections.

Sections are a JSON or YAML object of section name to text (or a .txt/.md
file treated as one section). Properties are a JSON or YAML list of
{id, label, description, dataType}.

Examples:
  sift extract --sections paper.yaml --properties props.yaml
  sift extract --sections paper.json --properties props.json --mode per-property
  sift extract --sections abstract.txt --properties props.yaml --no-model -o text`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&sectionsFile, "sections", "s", "", "sections file (JSON/YAML, .txt/.md, or - for stdin)")
	extractCmd.Flags().StringVarP(&propertiesFile, "properties", "p", "", "properties file (JSON/YAML)")
	extractCmd.Flags().StringVar(&providerName, "provider", "", "model provider (default from config)")
	extractCmd.Flags().StringVar(&extractMode, "mode", "auto", "extraction mode: auto, batched or per-property")
	extractCmd.Flags().BoolVar(&noModel, "no-model", false, "use pattern extraction only")
	extractCmd.Flags().BoolVar(&showStats, "stats", false, "include extractor stats in the output")
	extractCmd.Flags().BoolVar(&showCalls, "calls", false, "include recorded model calls in the output")
	extractCmd.Flags().BoolVar(&saveRun, "save", false, "also save results, stats and calls as JSON under the home directory")
	_ = extractCmd.MarkFlagRequired("sections")
	_ = extractCmd.MarkFlagRequired("properties")
}

// extractReport is the output of extract when stats or calls are requested.
type extractReport struct {
	Output      extractor.Output `json:"results" yaml:"results"`
	Stats       *extractor.Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
	CallSummary *llmcall.Summary `json:"call_summary,omitempty" yaml:"call_summary,omitempty"`
	Calls       []llmcall.Call   `json:"calls,omitempty" yaml:"calls,omitempty"`
}

// Results lets the text renderer print only the extracted values.
func (r extractReport) Results() map[string][]types.Result {
	return r.Output
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sectionsData, err := readInput(sectionsFile, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read sections: %w", err)
	}
	sections, err := parseSections(sectionsFile, sectionsData)
	if err != nil {
		return err
	}
	propsData, err := readInput(propertiesFile, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read properties: %w", err)
	}
	props, err := parseProperties(propsData)
	if err != nil {
		return err
	}

	ex := cfg.Extraction
	switch extractMode {
	case "auto":
	case "batched":
		ex.EnableMultiPropertyAnalysis = true
	case "per-property":
		ex.EnableMultiPropertyAnalysis = false
	default:
		return fmt.Errorf("unknown mode: %s (want auto, batched or per-property)", extractMode)
	}

	logger := slog.Default()
	calls := llmcall.NewStore(0)
	opts := []extractor.Option{extractor.WithLogger(logger), extractor.WithRecorder(calls)}

	var e *extractor.Extractor
	if noModel {
		e, err = extractor.NewDeterministic(ex, opts...)
	} else {
		name := providerName
		if name == "" {
			name = cfg.Defaults.Provider
		}
		registry := providers.NewRegistryFromConfig(cfg.ToProviderRegistryConfig())
		registry.SetLogger(logger)
		completer, gerr := registry.Get(name)
		if gerr != nil {
			return fmt.Errorf("%w (available: %v; use --no-model for pattern extraction only)", gerr, registry.List())
		}
		e, err = extractor.New(ex, completer, opts...)
	}
	if err != nil {
		return err
	}

	started := time.Now()
	out, err := e.Extract(cmd.Context(), sections, props)
	if err != nil {
		return err
	}

	if saveRun {
		stats := e.Stats()
		summary := calls.Summary(llmcall.QueryFilter{})
		path, err := saveReport(started, sectionsFile, extractReport{
			Output:      out,
			Stats:       &stats,
			CallSummary: &summary,
			Calls:       calls.List(llmcall.QueryFilter{}),
		})
		if err != nil {
			return err
		}
		logger.Info("saved run", "path", path)
	}

	if !showStats && !showCalls {
		return render(cmd, cfg, out)
	}
	rep := extractReport{Output: out}
	if showStats {
		stats := e.Stats()
		summary := calls.Summary(llmcall.QueryFilter{})
		rep.Stats = &stats
		rep.CallSummary = &summary
	}
	if showCalls {
		rep.Calls = calls.List(llmcall.QueryFilter{})
	}
	return render(cmd, cfg, rep)
}

// saveReport writes a run to the home directory as JSON.
func saveReport(started time.Time, source string, rep extractReport) (string, error) {
	dir, err := home.New(homeDir)
	if err != nil {
		return "", err
	}
	if err := dir.EnsureExists(); err != nil {
		return "", err
	}

	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if name == "" || name == "-" || name == "." {
		name = "stdin"
	}
	path := dir.RunPath(started, name, "json")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := report.Render(f, report.FormatJSON, rep); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
