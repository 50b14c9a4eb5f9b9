package llm

import (
	"fmt"
	"maps"
	"os"
	"strconv"
)

// Supported model providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderAzure     = "azure"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
)

// Config holds model provider connection parameters.
// Options are passed through to the ollama and azure providers
// (deployment, api_version, auth_type).
type Config struct {
	Provider    string         `toml:"provider"`
	APIKey      string         `toml:"api_key"`
	BaseURL     string         `toml:"base_url"`
	Name        string         `toml:"name"`
	Temperature *float64       `toml:"temperature"`
	Options     map[string]any `toml:"options"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Name        string
	Temperature string
	Options     map[string]string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	if c.Name == "" {
		c.Name = defaultModel(c.Provider)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.Temperature != nil {
		t := *overlay.Temperature
		c.Temperature = &t
	}
	if len(overlay.Options) > 0 {
		if c.Options == nil {
			c.Options = make(map[string]any, len(overlay.Options))
		}
		maps.Copy(c.Options, overlay.Options)
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderAnthropic
	}
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAzure:
		return "gpt-5-mini"
	case ProviderOllama:
		return "llama3.1:8b"
	default:
		return "claude-sonnet-4-5-20250929"
	}
}

// keyRequired reports whether the provider cannot run without an api key.
// Ollama is local and azure may authenticate through its options.
func keyRequired(provider string) bool {
	return provider == ProviderAnthropic || provider == ProviderOpenAI
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Name != "" {
		if v := os.Getenv(env.Name); v != "" {
			c.Name = v
		}
	}
	if env.Temperature != "" {
		if v := os.Getenv(env.Temperature); v != "" {
			if t, err := strconv.ParseFloat(v, 64); err == nil {
				c.Temperature = &t
			}
		}
	}
	for key, name := range env.Options {
		if v := os.Getenv(name); v != "" {
			if c.Options == nil {
				c.Options = make(map[string]any)
			}
			c.Options[key] = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderAnthropic, ProviderAzure, ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("invalid temperature: %v", *c.Temperature)
	}
	return nil
}
