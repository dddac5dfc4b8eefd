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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SINGSING_CONFIG is set
//  3. env (prefix SINGSING_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SINGSING_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Env keys like SINGSING_STORE_DRIVER map to store_driver; underscores
	// are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("SINGSING_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "singsing_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.TourID == "" {
		return fmt.Errorf("%w: tour_id must not be empty", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.StoreDriver == "sqlite" && c.SQLitePath == "" {
		return fmt.Errorf("%w: sqlite_path required for sqlite store", ErrInvalidConfig)
	}
	if c.StoreDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("%w: postgres_dsn required for postgres store", ErrInvalidConfig)
	}
	switch strings.ToLower(c.RosterEncoding) {
	case "utf-8", "utf8", "euc-kr":
	default:
		return fmt.Errorf("%w: unknown roster_encoding %q", ErrInvalidConfig, c.RosterEncoding)
	}
	return nil
}
