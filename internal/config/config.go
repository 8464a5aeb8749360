// Package config loads healthflow configuration from defaults, an optional
// YAML file, and HEALTHFLOW_-prefixed environment variables, in increasing
// precedence. Provider API keys are picked up from their conventional
// environment variables (OPENAI_API_KEY, ANTHROPIC_API_KEY).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider identifies where agent completions come from.
type Provider string

const (
	ProviderSimulation Provider = "simulation"
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
)

// Models accepted per provider. Unknown models are rejected at load time
// so a typo fails fast instead of at the first agent call.
var supportedModels = map[string][]string{
	"chat":  {"gpt-4-1106-preview", "gpt-4", "gpt-4o", "gpt-4o-mini", "gpt-3.5-turbo"},
	"image": {"dall-e-3", "dall-e-2"},
}

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	AI      AIConfig      `koanf:"ai"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP transport settings. The MCP stdio transport
// needs no configuration.
type ServerConfig struct {
	HTTPAddr        string        `koanf:"http_addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig locates the SQLite run store.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// ModelConfig configures one chat agent.
type ModelConfig struct {
	Model       string  `koanf:"model"`
	MaxTokens   int     `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`
	Simulation  bool    `koanf:"simulation"`
}

// ImageModelConfig configures the image agent.
type ImageModelConfig struct {
	Model      string `koanf:"model"`
	Size       string `koanf:"size"`
	Quality    string `koanf:"quality"`
	Simulation bool   `koanf:"simulation"`
}

// AIConfig holds provider selection, credentials, and per-agent models.
type AIConfig struct {
	Provider      Provider         `koanf:"provider"`
	OpenAIAPIKey  string           `koanf:"openai_api_key"`
	OpenAIBaseURL string           `koanf:"openai_base_url"`
	Research      ModelConfig      `koanf:"research"`
	Writing       ModelConfig      `koanf:"writing"`
	Image         ImageModelConfig `koanf:"image"`
}

// Default returns the built-in configuration: simulation provider, store
// under the user config dir, console logging at info.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
		AI: AIConfig{
			Provider: ProviderSimulation,
			Research: ModelConfig{
				Model:       "gpt-4-1106-preview",
				MaxTokens:   1500,
				Temperature: 0.3,
			},
			Writing: ModelConfig{
				Model:       "gpt-4-1106-preview",
				MaxTokens:   2000,
				Temperature: 0.7,
			},
			Image: ImageModelConfig{
				Model:   "dall-e-3",
				Size:    "1024x1024",
				Quality: "standard",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "healthflow.db"
	}
	return home + "/.local/share/healthflow/healthflow.db"
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderSimulation, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown ai provider %q", c.AI.Provider)
	}
	if c.AI.Provider == ProviderAnthropic {
		return fmt.Errorf("ai provider %q is recognized but not yet wired to an agent client", c.AI.Provider)
	}

	for name, mc := range map[string]ModelConfig{"research": c.AI.Research, "writing": c.AI.Writing} {
		if mc.Model == "" {
			return fmt.Errorf("no model configured for %s agent", name)
		}
		if !contains(supportedModels["chat"], mc.Model) {
			return fmt.Errorf("unsupported %s model %q (supported: %s)",
				name, mc.Model, strings.Join(supportedModels["chat"], ", "))
		}
		if mc.MaxTokens <= 0 {
			return fmt.Errorf("%s agent max_tokens must be positive", name)
		}
		if mc.Temperature < 0 || mc.Temperature > 2 {
			return fmt.Errorf("%s agent temperature %v out of range [0, 2]", name, mc.Temperature)
		}
	}

	if !contains(supportedModels["image"], c.AI.Image.Model) {
		return fmt.Errorf("unsupported image model %q (supported: %s)",
			c.AI.Image.Model, strings.Join(supportedModels["image"], ", "))
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging format must be json or console, got %q", c.Logging.Format)
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path must not be empty")
	}
	return nil
}

// ValidAPIKey reports whether a key looks plausible for the provider.
// This mirrors the basic shape checks the providers document: a minimum
// length plus the provider's well-known prefix.
func ValidAPIKey(provider Provider, key string) bool {
	if len(key) < 20 {
		return false
	}
	switch provider {
	case ProviderOpenAI:
		return strings.HasPrefix(key, "sk-") || strings.HasPrefix(key, "org-")
	case ProviderAnthropic:
		return strings.HasPrefix(key, "sk-ant-")
	default:
		return false
	}
}

// RealAI reports whether real model calls are possible at all: a non-
// simulation provider plus a plausible credential. Individual agents may
// still opt into simulation via their own flag.
func (a AIConfig) RealAI() bool {
	if a.Provider != ProviderOpenAI {
		return false
	}
	return ValidAPIKey(ProviderOpenAI, a.OpenAIAPIKey)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
