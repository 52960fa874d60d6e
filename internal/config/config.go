package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (WEBREADY_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: WEBREADY_MAX_WORKERS -> max_workers, etc.
	if err := k.Load(env.Provider("WEBREADY_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "WEBREADY_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max_workers must be at least 1, got %d", c.MaxWorkers)
	}
	if c.MaxFiles < 1 {
		return fmt.Errorf("max_files must be at least 1, got %d", c.MaxFiles)
	}
	t := c.Thresholds
	if t.UIFilePercent < 0 || t.UIFilePercent > 100 {
		return fmt.Errorf("thresholds.ui_file_percent must be in [0,100], got %g", t.UIFilePercent)
	}
	if t.LogicFilePercent < 0 || t.LogicFilePercent > 100 {
		return fmt.Errorf("thresholds.logic_file_percent must be in [0,100], got %g", t.LogicFilePercent)
	}
	if t.LogicFilePercent > t.UIFilePercent {
		return fmt.Errorf("thresholds.logic_file_percent (%g) must not exceed ui_file_percent (%g)", t.LogicFilePercent, t.UIFilePercent)
	}
	if t.ExtractionMinLines < 1 {
		return fmt.Errorf("thresholds.extraction_min_lines must be at least 1, got %d", t.ExtractionMinLines)
	}
	if t.RefactorMinLines < 1 {
		return fmt.Errorf("thresholds.refactor_min_lines must be at least 1, got %d", t.RefactorMinLines)
	}
	if t.RefactorMaxUICalls < 0 {
		return fmt.Errorf("thresholds.refactor_max_ui_calls must not be negative, got %d", t.RefactorMaxUICalls)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port, got %d", c.Server.Port)
	}
	return nil
}
