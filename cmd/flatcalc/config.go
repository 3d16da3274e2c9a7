package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"nickandperla.net/flatcalc/pkg/flatcalc"
)

// Config holds CLI defaults loaded from a YAML file. Flags given on the
// command line take precedence.
type Config struct {
	DB        string `yaml:"db"`
	GroupMode string `yaml:"group_mode"`
	MaxDepth  int    `yaml:"max_depth"`
	Color     *bool  `yaml:"color"`
}

// loadConfig reads a YAML config file. An empty path yields the zero Config.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := cfg.groupMode(); err != nil {
		return cfg, err
	}
	if cfg.MaxDepth < 0 {
		return cfg, fmt.Errorf("parse config %s: max_depth must not be negative", path)
	}
	return cfg, nil
}

func (c Config) groupMode() (flatcalc.GroupMode, error) {
	mode, ok := flatcalc.ParseGroupMode(c.GroupMode)
	if !ok {
		return mode, fmt.Errorf("unknown group_mode: %s (use balanced or legacy)", c.GroupMode)
	}
	return mode, nil
}
