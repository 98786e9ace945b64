// Package config loads kandy.yaml, the project file that names a
// script's library search path and which optional host seeds to enable
// (SPEC_FULL.md §A, grounded on the teacher's reliance on go-snaps's own
// goccy/go-yaml dependency, here promoted to a direct one).
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the decoded form of kandy.yaml.
type Config struct {
	// LibraryPath lists directories searched, after the importing
	// file's own directory, when resolving `import` names
	// (spec §6 "library search order").
	LibraryPath []string `yaml:"library_path"`

	// Seeds lists optional host-extension seed packages to install
	// alongside the core BuiltIn roster (SPEC_FULL.md §B): "json",
	// "text", or both.
	Seeds []string `yaml:"seeds"`
}

// Load reads and parses a kandy.yaml file at path. A missing file is not
// an error: it yields a zero-value Config, since kandy.yaml is optional
// and every field has a sensible empty default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// HasSeed reports whether name ("json" or "text") is enabled.
func (c *Config) HasSeed(name string) bool {
	for _, s := range c.Seeds {
		if s == name {
			return true
		}
	}
	return false
}
