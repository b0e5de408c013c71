package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering sources from lowest to highest precedence:
// defaults, a YAML file named by RESTKIT_CONFIG, then RESTKIT_* environment
// variables.
func Load() (Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path := os.Getenv("RESTKIT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// Map RESTKIT_PAGE_SIZE -> page_size so env keys line up with the
	// koanf tags on Config.
	provider := env.Provider("RESTKIT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "RESTKIT_"))
	})
	if err := k.Load(provider, nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.MaxPageSize < c.PageSize {
		return fmt.Errorf("max_page_size %d is below page_size %d", c.MaxPageSize, c.PageSize)
	}
	if c.Ordering != "created" && c.Ordering != "-created" {
		return fmt.Errorf("ordering must be created or -created, got %q", c.Ordering)
	}
	return nil
}
