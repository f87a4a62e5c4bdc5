package providers

import (
	"errors"
	"sync"
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		mock := NewMockClient()

		r.Register("test", mock)

		client, err := r.Get("test")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if client != mock {
			t.Error("got different client than registered")
		}
	})

	t.Run("get nonexistent", func(t *testing.T) {
		r := NewRegistry()

		_, err := r.Get("nonexistent")
		if err == nil {
			t.Fatal("expected error for nonexistent provider")
		}
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("error = %v, want ErrUnavailable", err)
		}
	})

	t.Run("list is sorted", func(t *testing.T) {
		r := NewRegistry()
		r.Register("zeta", NewMockClient())
		r.Register("alpha", NewMockClient())

		list := r.List()
		if len(list) != 2 {
			t.Fatalf("List() returned %d items, want 2", len(list))
		}
		if list[0] != "alpha" || list[1] != "zeta" {
			t.Errorf("List() = %v, want [alpha zeta]", list)
		}
	})

	t.Run("has and unregister", func(t *testing.T) {
		r := NewRegistry()
		r.Register("mine", NewMockClient())

		if !r.Has("mine") {
			t.Error("Has() = false for registered provider")
		}
		if r.Has("other") {
			t.Error("Has() = true for unregistered provider")
		}

		r.Unregister("mine")
		if r.Has("mine") {
			t.Error("Has() = true after Unregister")
		}
	})

	t.Run("concurrent access", func(t *testing.T) {
		r := NewRegistry()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				r.Register("concurrent", NewMockClient())
			}()
			go func() {
				defer wg.Done()
				r.Get("concurrent") // May fail, that's ok
			}()
		}
		wg.Wait()
	})
}

func TestNewRegistryFromConfig(t *testing.T) {
	t.Run("registers providers from config", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai":     {Type: OpenAIName, APIKey: "test-openai-key", Enabled: true},
				"anthropic":  {Type: AnthropicName, APIKey: "test-anthropic-key", Enabled: true},
				"openrouter": {Type: OpenRouterName, Model: "anthropic/claude-sonnet-4", APIKey: "test-or-key", Enabled: true},
			},
		})

		for _, name := range []string{"openai", "anthropic", "openrouter"} {
			if !r.Has(name) {
				t.Errorf("expected %s to be registered", name)
			}
		}
	})

	t.Run("skips disabled providers", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openrouter": {Type: OpenRouterName, APIKey: "test-key", Enabled: false},
			},
		})

		if r.Has("openrouter") {
			t.Error("disabled provider should not be registered")
		}
	})

	t.Run("skips providers without API keys", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai":    {Type: OpenAIName, APIKey: "", Enabled: true},
				"anthropic": {Type: AnthropicName, APIKey: "  ", Enabled: true},
			},
		})

		if len(r.List()) != 0 {
			t.Errorf("List() = %v, want empty", r.List())
		}
	})

	t.Run("skips unknown types", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"weird": {Type: "carrier-pigeon", APIKey: "x", Enabled: true},
			},
		})

		if r.Has("weird") {
			t.Error("unknown provider type should not be registered")
		}
	})

	t.Run("uses custom model", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openrouter": {Type: OpenRouterName, Model: "custom-model", APIKey: "test-key", Enabled: true},
			},
		})

		client, err := r.Get("openrouter")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		orClient, ok := client.(*OpenRouterClient)
		if !ok {
			t.Fatalf("expected *OpenRouterClient, got %T", client)
		}
		if orClient.defaultModel != "custom-model" {
			t.Errorf("expected custom-model, got %s", orClient.defaultModel)
		}
	})

	t.Run("wraps rate limited providers", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: OpenAIName, APIKey: "k", RateLimit: 30, Enabled: true},
			},
		})

		client, err := r.Get("openai")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if _, ok := client.(*limitedCompleter); !ok {
			t.Errorf("expected rate limited completer, got %T", client)
		}
		if client.Name() != OpenAIName {
			t.Errorf("Name() = %q, want %q", client.Name(), OpenAIName)
		}
	})
}

func TestRegistry_Reload(t *testing.T) {
	t.Run("adds new providers on reload", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{})

		r.Reload(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: OpenAIName, APIKey: "k", Enabled: true},
			},
		})

		if !r.Has("openai") {
			t.Error("expected openai after reload")
		}
	})

	t.Run("removes providers dropped from config", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai":    {Type: OpenAIName, APIKey: "k", Enabled: true},
				"anthropic": {Type: AnthropicName, APIKey: "k", Enabled: true},
			},
		})

		r.Reload(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: OpenAIName, APIKey: "k", Enabled: true},
			},
		})

		if !r.Has("openai") {
			t.Error("openai should survive reload")
		}
		if r.Has("anthropic") {
			t.Error("anthropic should be removed on reload")
		}
	})

	t.Run("keeps unchanged client instance", func(t *testing.T) {
		cfg := RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openai": {Type: OpenAIName, APIKey: "k", Enabled: true},
			},
		}
		r := NewRegistryFromConfig(cfg)
		before, _ := r.Get("openai")

		r.Reload(cfg)
		after, _ := r.Get("openai")

		if before != after {
			t.Error("unchanged provider should not be rebuilt")
		}
	})

	t.Run("rebuilds changed provider", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openrouter": {Type: OpenRouterName, Model: "a", APIKey: "k", Enabled: true},
			},
		})

		r.Reload(RegistryConfig{
			Providers: map[string]ProviderConfig{
				"openrouter": {Type: OpenRouterName, Model: "b", APIKey: "k", Enabled: true},
			},
		})

		client, _ := r.Get("openrouter")
		if got := client.(*OpenRouterClient).defaultModel; got != "b" {
			t.Errorf("model = %q, want b", got)
		}
	})

	t.Run("leaves manually registered providers alone", func(t *testing.T) {
		r := NewRegistry()
		r.Register("manual", NewMockClient())

		r.Reload(RegistryConfig{})

		if !r.Has("manual") {
			t.Error("manually registered provider should survive reload")
		}
	})
}

func TestTestConfig_ToRegistryConfig(t *testing.T) {
	cfg := TestConfig{OpenAIAPIKey: "a", OpenRouterAPIKey: "b"}.ToRegistryConfig()

	if len(cfg.Providers) != 2 {
		t.Fatalf("len(Providers) = %d, want 2", len(cfg.Providers))
	}
	if _, ok := cfg.Providers[AnthropicName]; ok {
		t.Error("anthropic should be omitted without a key")
	}
}
