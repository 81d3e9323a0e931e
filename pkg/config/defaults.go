package config

import (
	_ "embed"
	"fmt"
)

//go:embed default.yml
var defaultConfigYAML string

// loadDefaultConfig parses the embedded default configuration.
//
// Returns:
//   - *Config: the default configuration
//   - error: when the embedded YAML is invalid
func loadDefaultConfig() (*Config, error) {
	cfg, err := decodeConfig([]byte(defaultConfigYAML), &Config{})
	if err != nil {
		return nil, fmt.Errorf("invalid built-in configuration: %w", err)
	}
	return cfg, nil
}

// GetDefaultConfig returns the embedded default configuration YAML.
//
// Useful for displaying or saving a starter .pytyped.yml.
func GetDefaultConfig() string {
	return defaultConfigYAML
}
