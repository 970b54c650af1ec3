package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering, in order of precedence (low -> high):
//  1. defaults (New)
//  2. YAML file named by MERLIN_CONFIG, if set
//  3. env vars with the MERLIN_ prefix (MERLIN_GENERATOR_MODEL -> generator_model)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("MERLIN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Keys keep their underscores to match the koanf tags.
	envProvider := env.Provider("MERLIN_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "merlin_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.GeneratorBaseURL == "":
		return fmt.Errorf("%w: generator_base_url must not be empty", ErrInvalidConfig)
	case cfg.GeneratorModel == "":
		return fmt.Errorf("%w: generator_model must not be empty", ErrInvalidConfig)
	case cfg.MaxConcurrentDays < 1:
		return fmt.Errorf("%w: max_concurrent_days must be at least 1", ErrInvalidConfig)
	case cfg.DayTimeoutSeconds < 1:
		return fmt.Errorf("%w: day_timeout_seconds must be at least 1", ErrInvalidConfig)
	}
	return nil
}
