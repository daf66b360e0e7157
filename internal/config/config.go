// Package config loads the two configuration surfaces this module exposes:
// a YAML solver/logging config (internal use, loaded by cmd/fmctl at
// startup), built from nested structs with yaml tags plus Load/Default
// helpers, and a TOML project file read via BurntSushi/toml (LoadProject),
// which cmd/fmctl does not load.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// SolverBackend names a Solver implementation. cmd/fmctl always constructs
// the naive solver and does not consult this value.
type SolverBackend string

const (
	BackendNaive SolverBackend = "naive"
)

// LoggingConfig holds a log level and category list. internal/logging takes
// no configuration, so neither field changes what is logged.
type LoggingConfig struct {
	Level      string   `yaml:"level"`
	Categories []string `yaml:"categories"`
}

// Config is the YAML-loaded runtime configuration.
type Config struct {
	// Solver names a Solver backend; cmd/fmctl does not read it.
	Solver SolverBackend `yaml:"solver"`

	// DefaultStep records a step for numeric range domains. internal/solver
	// does not read it: a range with no StepFunction always steps by +1.
	DefaultStep int `yaml:"default_step"`

	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the zero-configuration defaults.
func Default() *Config {
	return &Config{
		Solver:      BackendNaive,
		DefaultStep: 1,
		Logging: LoggingConfig{
			Level:      "info",
			Categories: []string{"constraint", "feature", "transaction", "solver", "enumerator"},
		},
	}
}

// Load reads a YAML config file, falling back to Default() if path is empty
// or does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Project is the per-directory project file format (.varafeature.toml):
// which seed scenario or constraint file to operate on by default. Only
// LoadProject reads it; no command in cmd/fmctl calls LoadProject.
type Project struct {
	Name           string `toml:"name"`
	ConstraintFile string `toml:"constraint_file"`
	Seed           string `toml:"seed"`
}

// LoadProject reads a TOML project file. Returns a zero-value Project (not
// an error) if path does not exist, matching Load's permissive behaviour.
func LoadProject(path string) (*Project, error) {
	p := &Project{}
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, fmt.Errorf("parse project file %s: %w", path, err)
	}
	return p, nil
}
