package providers

import (
	"os"
)

// TestConfig holds provider configurations loaded from environment variables.
// This allows tests to use the same configuration pattern as production.
type TestConfig struct {
	OpenAIAPIKey     string
	AnthropicAPIKey  string
	OpenRouterAPIKey string
}

// LoadTestConfig loads provider API keys from environment variables.
// Returns a TestConfig with whatever keys are available.
func LoadTestConfig() TestConfig {
	return TestConfig{
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
	}
}

// HasAny returns true if any provider key is configured.
func (c TestConfig) HasAny() bool {
	return c.OpenAIAPIKey != "" || c.AnthropicAPIKey != "" || c.OpenRouterAPIKey != ""
}

// ToRegistryConfig converts test config to a RegistryConfig for the provider registry.
// Only includes providers that have API keys configured.
func (c TestConfig) ToRegistryConfig() RegistryConfig {
	cfg := RegistryConfig{Providers: make(map[string]ProviderConfig)}

	if c.OpenAIAPIKey != "" {
		cfg.Providers[OpenAIName] = ProviderConfig{
			Type:      OpenAIName,
			APIKey:    c.OpenAIAPIKey,
			RateLimit: 60,
			Enabled:   true,
		}
	}
	if c.AnthropicAPIKey != "" {
		cfg.Providers[AnthropicName] = ProviderConfig{
			Type:      AnthropicName,
			APIKey:    c.AnthropicAPIKey,
			RateLimit: 50,
			Enabled:   true,
		}
	}
	if c.OpenRouterAPIKey != "" {
		cfg.Providers[OpenRouterName] = ProviderConfig{
			Type:      OpenRouterName,
			APIKey:    c.OpenRouterAPIKey,
			RateLimit: 60,
			Enabled:   true,
		}
	}

	return cfg
}
