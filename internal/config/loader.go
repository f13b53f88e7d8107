package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Defaults applied to unset scanner fields.
const (
	DefaultFramework       = "hipaa"
	DefaultThreshold       = 80.0
	DefaultPreviewBytes    = 500
	DefaultMaxFileSize     = 100 << 20
	DefaultMaxOutputBytes  = 256 << 20
	DefaultMaxNestingDepth = 128
)

// Environment overrides read by ApplyEnv.
const (
	EnvFramework = "COMPLYD_FRAMEWORK"
	EnvDatabase  = "COMPLYD_DATABASE"
	EnvThreshold = "COMPLYD_THRESHOLD"
)

// Default returns a config with every default applied and no custom frameworks.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a scanner configuration. Files ending in .toml are
// parsed as TOML, everything else as YAML. Defaults are applied afterwards.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config TOML: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// SearchPaths lists the config locations LoadDefault tries, in order.
func SearchPaths() []string {
	candidates := []string{"complyd.yaml", "complyd.yml", "complyd.toml"}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates, filepath.Join(home, ".complyd", "config.yaml"))
	}
	return candidates
}

// LoadDefault loads the first config found in SearchPaths. When none exists
// it returns Default and an empty path.
func LoadDefault() (*Config, string, error) {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, path, err
		}
	}
	return Default(), "", nil
}

// ApplyEnv overrides scanner settings from COMPLYD_* environment variables.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv(EnvFramework); v != "" {
		cfg.Scanner.Framework = v
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		cfg.Scanner.Database = v
	}
	if v := os.Getenv(EnvThreshold); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvThreshold, err)
		}
		cfg.Scanner.Threshold = t
	}
	return nil
}

// applyDefaults fills unset scanner fields. A zero threshold is treated as
// unset; use a small positive value to accept nearly anything.
func applyDefaults(cfg *Config) {
	s := &cfg.Scanner

	if s.Framework == "" {
		s.Framework = DefaultFramework
	}
	if s.Threshold == 0 {
		s.Threshold = DefaultThreshold
	}
	if s.PreviewBytes == 0 {
		s.PreviewBytes = DefaultPreviewBytes
	}
	if s.MaxFileSize == 0 {
		s.MaxFileSize = DefaultMaxFileSize
	}
	if s.MaxOutputBytes == 0 {
		s.MaxOutputBytes = DefaultMaxOutputBytes
	}
	if s.MaxNestingDepth == 0 {
		s.MaxNestingDepth = DefaultMaxNestingDepth
	}

	for i := range cfg.Frameworks {
		fw := &cfg.Frameworks[i]
		for j := range fw.Controls {
			c := &fw.Controls[j]
			if c.Severity == "" {
				c.Severity = "MEDIUM"
			} else {
				c.Severity = strings.ToUpper(c.Severity)
			}
		}
	}
}
