package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"
)

// Load reads a YAML or (by extension) TOML config file.  Unknown keys are an error in both
// formats.  The result is not yet normalized or validated.
func Load(file string) (*Config, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, configErr("", "error reading config file: %v", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(file), ".toml") {
		md, err := toml.Decode(string(raw), &cfg)
		if err != nil {
			return nil, configErr("", "issue parsing config file: %v", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, k := range undecoded {
				keys = append(keys, k.String())
			}
			return nil, configErr("", "unknown keys in config file: %s", strings.Join(keys, ", "))
		}
		return &cfg, nil
	}

	// I'd like to bark if a user sets a key we don't recognise:
	if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
		return nil, configErr("", "issue parsing config file: %v", err)
	}
	return &cfg, nil
}

// LoadAndValidate is Load, Normalize and Validate in one go.
func LoadAndValidate(file string) (*Config, error) {
	cfg, err := Load(file)
	if err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", file, err)
	}
	return cfg, nil
}
