package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration for a poolsearch run.
type Config struct {
	// Search configuration
	Search SearchConfig `yaml:"search" validate:"required"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,omitempty" validate:"omitempty"`
}

// SearchConfig controls the search engine and the pools it owns.
type SearchConfig struct {
	// PoolCapacity bounds the elite pool and each worker pool.
	PoolCapacity int `yaml:"pool_capacity" validate:"gt=0"`

	// Workers is the number of concurrent evaluation goroutines, each
	// owning its own pool.
	Workers int `yaml:"workers" validate:"gte=1,lte=256"`

	// Generations is the number of mutate-evaluate-merge rounds.
	Generations int `yaml:"generations" validate:"gte=1"`

	// MutantsPerParent is how many neighbors each retained candidate
	// spawns per generation.
	MutantsPerParent int `yaml:"mutants_per_parent" validate:"gte=1"`

	// MergeBudget caps how many candidates each worker pool hands to the
	// elite pool after a generation.
	MergeBudget int `yaml:"merge_budget" validate:"gt=0"`

	// Seed makes runs reproducible. Non-positive selects a time-based
	// seed.
	Seed int64 `yaml:"seed,omitempty"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum severity to emit.
	Level string `yaml:"level,omitempty" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`

	// FilePath, when set, mirrors log output to a file.
	FilePath string `yaml:"file_path,omitempty"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML configuration, applies defaults for omitted
// fields, and validates the result.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
