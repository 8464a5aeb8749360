package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "HEALTHFLOW_"

// Load builds the configuration from three layers, lowest precedence
// first: built-in defaults, the YAML file at configPath (skipped when
// empty or missing), then HEALTHFLOW_-prefixed environment variables.
//
// Environment variables map section-first onto config keys:
//
//	HEALTHFLOW_SERVER_HTTP_ADDR      -> server.http_addr
//	HEALTHFLOW_AI_PROVIDER           -> ai.provider
//	HEALTHFLOW_LOGGING_LEVEL         -> logging.level
//
// Nested agent settings use double underscores for the extra level:
//
//	HEALTHFLOW_AI_RESEARCH__MODEL    -> ai.research.model
//
// Finally, OPENAI_API_KEY fills ai.openai_api_key when the config did
// not set one explicitly.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
			}
		} else if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.AI.OpenAIAPIKey == "" {
		cfg.AI.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// envToKey turns HEALTHFLOW_SECTION_FIELD_NAME into section.field_name,
// with "__" marking one extra nesting level.
func envToKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))

	// Double underscore separates nested sections from field names.
	if idx := strings.Index(lower, "__"); idx > 0 {
		head := lower[:idx]
		tail := lower[idx+2:]
		parts := strings.SplitN(head, "_", 2)
		if len(parts) == 2 {
			return parts[0] + "." + parts[1] + "." + tail
		}
		return head + "." + tail
	}

	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}
