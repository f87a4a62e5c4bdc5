package providers

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds named Completers built from configuration.
// It supports hot-reload and provides thread-safe access.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Completer
	configs map[string]ProviderConfig
	logger  *slog.Logger
}

// RegistryConfig defines the providers to instantiate from config.
// This mirrors the config.Config structure for provider setup.
type RegistryConfig struct {
	Providers map[string]ProviderConfig
}

// ProviderConfig matches config.ProviderCfg with resolved API key.
type ProviderConfig struct {
	Type      string  // "openai", "anthropic", "openrouter", "mock"
	Model     string  // Model name
	APIKey    string  // Resolved API key
	BaseURL   string  // Optional endpoint override
	RateLimit float64 // Requests per minute (0 = unlimited)
	MaxTokens int
	Enabled   bool
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Completer),
		configs: make(map[string]ProviderConfig),
		logger:  slog.Default(),
	}
}

// NewRegistryFromConfig creates a registry with providers based on configuration.
// Only enabled providers that can be constructed are registered.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(cfg)
	return r
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds a Completer by name, replacing any existing entry.
func (r *Registry) Register(name string, c Completer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = c
	delete(r.configs, name)
	if r.logger != nil {
		r.logger.Info("registered provider", "name", name)
	}
}

// Unregister removes a Completer by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, name)
	delete(r.configs, name)
	if r.logger != nil {
		r.logger.Info("unregistered provider", "name", name)
	}
}

// Get returns a Completer by name. A missing provider wraps ErrUnavailable.
func (r *Registry) Get(name string) (Completer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not registered: %w", name, ErrUnavailable)
	}
	return c, nil
}

// Has checks if a provider is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.clients[name]
	return ok
}

// List returns all registered provider names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload updates the registry based on new configuration.
// Providers that are no longer configured are unregistered; providers whose
// settings changed are rebuilt.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)

	for name, provCfg := range cfg.Providers {
		if !provCfg.Enabled {
			continue
		}

		existing, hasExisting := r.configs[name]
		if hasExisting && existing == provCfg {
			want[name] = true
			continue
		}

		client, err := NewCompleter(provCfg)
		if err != nil {
			if r.logger != nil && !errors.Is(err, ErrUnavailable) {
				r.logger.Warn("failed to build provider", "name", name, "type", provCfg.Type, "error", err)
			}
			continue
		}
		want[name] = true
		r.clients[name] = client
		r.configs[name] = provCfg
		if r.logger != nil {
			if hasExisting {
				r.logger.Info("updated provider", "name", name, "type", provCfg.Type)
			} else {
				r.logger.Info("registered provider", "name", name, "type", provCfg.Type)
			}
		}
	}

	// Remove config-built providers that are no longer configured. Providers
	// added with Register have no config entry and are left alone.
	for name := range r.configs {
		if !want[name] {
			delete(r.clients, name)
			delete(r.configs, name)
			if r.logger != nil {
				r.logger.Info("unregistered provider", "name", name)
			}
		}
	}
}

// NewCompleter creates a Completer for the given provider type, rate limited if configured.
func NewCompleter(cfg ProviderConfig) (Completer, error) {
	var (
		c   Completer
		err error
	)
	switch cfg.Type {
	case OpenAIName:
		c, err = NewOpenAIClient(OpenAIConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			BaseURL:   cfg.BaseURL,
		})
	case AnthropicName:
		c, err = NewAnthropicClient(AnthropicConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			BaseURL:   cfg.BaseURL,
		})
	case OpenRouterName:
		c, err = NewOpenRouterClient(OpenRouterConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			MaxTokens:    cfg.MaxTokens,
		})
	case MockClientName:
		c = NewMockClient()
	default:
		return nil, fmt.Errorf("unknown provider type %q: %w", cfg.Type, ErrUnavailable)
	}
	if err != nil {
		return nil, err
	}
	return Limit(c, cfg.RateLimit), nil
}
