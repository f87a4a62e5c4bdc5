package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/sift/internal/config"
	"github.com/jackzampolin/sift/internal/home"
	"github.com/jackzampolin/sift/internal/report"
	"github.com/jackzampolin/sift/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "Property extraction from document sections with LLM and pattern fallbacks",
	Long: `Sift extracts structured property values (datasets, metrics, methods, dates,
links) from segmented document text.

The pipeline includes:
  - Markup stripping, normalization and sentence segmentation
  - Batched or per-property model prompts with retry
  - Multi-strategy parsing of model responses
  - Pattern-based fallback extraction
  - Validation with exclusive sentence evidence per property`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.sift/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "sift home directory (default: ~/.sift)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "", "output format: yaml, json or text (default from config)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	// Configure logging before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(promptsCmd)
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads configuration from --config, the home directory, or the
// default locations.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" && homeDir != "" {
		dir, err := home.New(homeDir)
		if err != nil {
			return nil, err
		}
		if dir.ConfigExists() {
			path = dir.ConfigPath()
		}
	}
	cm, err := config.NewManager(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if f := cm.ConfigFile(); f != "" {
		slog.Debug("loaded config", "file", f)
	}
	return cm.Get(), nil
}

// resolveFormat picks the --output flag, then the configured default.
func resolveFormat(cfg *config.Config) (report.Format, error) {
	f := outputFormat
	if f == "" && cfg != nil {
		f = cfg.Defaults.OutputFormat
	}
	return report.ParseFormat(f)
}

func render(cmd *cobra.Command, cfg *config.Config, data any) error {
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), format, data)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
