package config

import (
	"fmt"
	"time"
)

// Config holds sift configuration.
// Stored at: ./config.yaml or $HOME/.sift/config.yaml
type Config struct {
	Extraction Extraction             `mapstructure:"extraction" yaml:"extraction"`
	Providers  map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults   DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
}

// Extraction holds the pipeline settings. A pipeline instance copies these at
// construction and never observes later changes.
type Extraction struct {
	MaxSectionSize              int     `mapstructure:"max_section_size" yaml:"max_section_size" json:"maxSectionSize"`
	MaxSentencesPerSection      int     `mapstructure:"max_sentences_per_section" yaml:"max_sentences_per_section" json:"maxSentencesPerSection"`
	MaxValuesPerProperty        int     `mapstructure:"max_values_per_property" yaml:"max_values_per_property" json:"maxValuesPerProperty"`
	MinSentenceLength           int     `mapstructure:"min_sentence_length" yaml:"min_sentence_length" json:"minSentenceLength"`
	MaxSentenceLength           int     `mapstructure:"max_sentence_length" yaml:"max_sentence_length" json:"maxSentenceLength"`
	EnableMultiPropertyAnalysis bool    `mapstructure:"enable_multi_property_analysis" yaml:"enable_multi_property_analysis" json:"enableMultiPropertyAnalysis"`
	EnableDeterministicFallback bool    `mapstructure:"enable_deterministic_fallback" yaml:"enable_deterministic_fallback" json:"enableDeterministicFallback"`
	EnableSentenceDeduplication bool    `mapstructure:"enable_sentence_deduplication" yaml:"enable_sentence_deduplication" json:"enableSentenceDeduplication"`
	ConfidenceThreshold         float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold" json:"confidenceThreshold"`

	// FallbackDiscount scales deterministic confidences when they join a result set.
	FallbackDiscount float64 `mapstructure:"fallback_discount" yaml:"fallback_discount" json:"fallbackDiscount"`
	// PromptSentenceLimit bounds how many sentences per section a prompt shows.
	PromptSentenceLimit int `mapstructure:"prompt_sentence_limit" yaml:"prompt_sentence_limit" json:"promptSentenceLimit"`
	// MaxRetries is the number of retries after the first model attempt.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries" json:"maxRetries"`
	// RetryDelay is multiplied by the attempt number between attempts.
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay" json:"retryDelay"`
}

// ProviderCfg configures a model provider.
type ProviderCfg struct {
	Type      string  `mapstructure:"type" yaml:"type"`             // "openai", "anthropic", "openrouter"
	Model     string  `mapstructure:"model" yaml:"model"`           // Model name
	APIKey    string  `mapstructure:"api_key" yaml:"api_key"`       // API key (supports ${ENV_VAR} syntax)
	BaseURL   string  `mapstructure:"base_url" yaml:"base_url"`     // Optional endpoint override
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // Requests per minute (0 = unlimited)
	MaxTokens int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections.
type DefaultsCfg struct {
	Provider     string `mapstructure:"provider" yaml:"provider"`           // Default model provider
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"` // json, yaml or text
}

// DefaultExtraction returns the pipeline settings used when nothing is configured.
func DefaultExtraction() Extraction {
	return Extraction{
		MaxSectionSize:              8000,
		MaxSentencesPerSection:      50,
		MaxValuesPerProperty:        5,
		MinSentenceLength:           10,
		MaxSentenceLength:           1000,
		EnableMultiPropertyAnalysis: true,
		EnableDeterministicFallback: true,
		EnableSentenceDeduplication: true,
		ConfidenceThreshold:         0.3,
		FallbackDiscount:            0.7,
		PromptSentenceLimit:         20,
		MaxRetries:                  2,
		RetryDelay:                  time.Second,
	}
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extraction: DefaultExtraction(),
		Providers: map[string]ProviderCfg{
			"openai": {
				Type:    "openai",
				Model:   "gpt-4.1-mini",
				APIKey:  "${OPENAI_API_KEY}",
				Enabled: true,
			},
			"anthropic": {
				Type:      "anthropic",
				Model:     "claude-sonnet-4-5",
				APIKey:    "${ANTHROPIC_API_KEY}",
				MaxTokens: 4096,
				Enabled:   true,
			},
			"openrouter": {
				Type:      "openrouter",
				Model:     "anthropic/claude-sonnet-4",
				APIKey:    "${OPENROUTER_API_KEY}",
				RateLimit: 150,
				Enabled:   true,
			},
		},
		Defaults: DefaultsCfg{
			Provider:     "openai",
			OutputFormat: "yaml",
		},
	}
}

// Validate reports settings that would make the pipeline misbehave.
func (e Extraction) Validate() error {
	switch {
	case e.MaxSectionSize <= 0:
		return fmt.Errorf("max_section_size must be positive, got %d", e.MaxSectionSize)
	case e.MaxSentencesPerSection <= 0:
		return fmt.Errorf("max_sentences_per_section must be positive, got %d", e.MaxSentencesPerSection)
	case e.MaxValuesPerProperty <= 0:
		return fmt.Errorf("max_values_per_property must be positive, got %d", e.MaxValuesPerProperty)
	case e.MinSentenceLength < 0:
		return fmt.Errorf("min_sentence_length must not be negative, got %d", e.MinSentenceLength)
	case e.MaxSentenceLength < e.MinSentenceLength:
		return fmt.Errorf("max_sentence_length (%d) is below min_sentence_length (%d)", e.MaxSentenceLength, e.MinSentenceLength)
	case e.ConfidenceThreshold < 0 || e.ConfidenceThreshold > 1:
		return fmt.Errorf("confidence_threshold must be within [0,1], got %v", e.ConfidenceThreshold)
	case e.FallbackDiscount <= 0 || e.FallbackDiscount > 1:
		return fmt.Errorf("fallback_discount must be within (0,1], got %v", e.FallbackDiscount)
	case e.MaxRetries < 0:
		return fmt.Errorf("max_retries must not be negative, got %d", e.MaxRetries)
	case e.RetryDelay < 0:
		return fmt.Errorf("retry_delay must not be negative, got %s", e.RetryDelay)
	}
	return nil
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// EnabledProviders returns all enabled providers.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
