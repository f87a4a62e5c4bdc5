package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/jackzampolin/sift/internal/providers"
)

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a new config manager and loads initial config.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	defaults := DefaultConfig()

	ex := defaults.Extraction
	v.SetDefault("extraction.max_section_size", ex.MaxSectionSize)
	v.SetDefault("extraction.max_sentences_per_section", ex.MaxSentencesPerSection)
	v.SetDefault("extraction.max_values_per_property", ex.MaxValuesPerProperty)
	v.SetDefault("extraction.min_sentence_length", ex.MinSentenceLength)
	v.SetDefault("extraction.max_sentence_length", ex.MaxSentenceLength)
	v.SetDefault("extraction.enable_multi_property_analysis", ex.EnableMultiPropertyAnalysis)
	v.SetDefault("extraction.enable_deterministic_fallback", ex.EnableDeterministicFallback)
	v.SetDefault("extraction.enable_sentence_deduplication", ex.EnableSentenceDeduplication)
	v.SetDefault("extraction.confidence_threshold", ex.ConfidenceThreshold)
	v.SetDefault("extraction.fallback_discount", ex.FallbackDiscount)
	v.SetDefault("extraction.prompt_sentence_limit", ex.PromptSentenceLimit)
	v.SetDefault("extraction.max_retries", ex.MaxRetries)
	v.SetDefault("extraction.retry_delay", ex.RetryDelay)

	v.SetDefault("providers", providerDefaults(defaults.Providers))
	v.SetDefault("defaults.provider", defaults.Defaults.Provider)
	v.SetDefault("defaults.output_format", defaults.Defaults.OutputFormat)

	// Environment variables with SIFT_ prefix, e.g. SIFT_EXTRACTION_MAX_RETRIES
	v.SetEnvPrefix("SIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.sift")
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

func providerDefaults(in map[string]ProviderCfg) map[string]any {
	out := make(map[string]any, len(in))
	for name, p := range in {
		out[name] = map[string]any{
			"type":       p.Type,
			"model":      p.Model,
			"api_key":    p.APIKey,
			"base_url":   p.BaseURL,
			"rate_limit": p.RateLimit,
			"max_tokens": p.MaxTokens,
			"enabled":    p.Enabled,
		}
	}
	return out
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Extraction.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extraction config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the path of the config file in use, if any.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
// Extractors already built keep their settings; callbacks decide whether to rebuild.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ToProviderRegistryConfig converts the config to a format suitable for providers.Registry.
// It resolves all ${ENV_VAR} references in API keys.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		Providers: make(map[string]providers.ProviderConfig),
	}

	for name, p := range c.Providers {
		cfg.Providers[name] = providers.ProviderConfig{
			Type:      p.Type,
			Model:     p.Model,
			APIKey:    ResolveEnvVars(p.APIKey),
			BaseURL:   p.BaseURL,
			RateLimit: p.RateLimit,
			MaxTokens: p.MaxTokens,
			Enabled:   p.Enabled,
		}
	}

	return cfg
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Sift configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENAI_API_KEY=xxx ANTHROPIC_API_KEY=xxx OPENROUTER_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
