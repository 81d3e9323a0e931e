// Package config handles configuration loading and validation for pytyped.
//
// Configuration starts from the embedded default.yml. A .pytyped.yml in the
// working directory, or a file passed with --config, is decoded on top of the
// defaults so that only the keys it names are overridden.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/verbose"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from the specified path or defaults.
//
// If configPath is provided, that file must exist. Otherwise .pytyped.yml in
// workDir is used when present, falling back to the built-in defaults.
// The result is validated before it is returned.
//
// Parameters:
//   - configPath: path to the config file, or empty to use discovery
//   - workDir: working directory for the configuration
//
// Returns:
//   - *Config: the loaded and merged configuration
//   - error: any error encountered during loading or validation
func LoadConfig(configPath, workDir string) (*Config, error) {
	cfg, err := loadDefaultConfig()
	if err != nil {
		return nil, err
	}

	path := configPath
	if path == "" {
		local := filepath.Join(workDir, DefaultConfigFileName)
		if _, statErr := os.Stat(local); statErr == nil {
			verbose.Infof("Found local config: %s", local)
			path = local
		}
	}

	if path != "" {
		data, err := readConfigFile(path, DefaultMaxConfigFileSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if cfg, err = decodeConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		cfg.Source = path
		verbose.ConfigLoaded(path)
	} else {
		verbose.Info("Using built-in default configuration")
	}

	cfg.WorkingDir = workDir
	if cfg.WorkingDir == "" {
		cfg.WorkingDir = "."
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readConfigFile reads a config file after checking its size.
//
// Parameters:
//   - path: path to the config file
//   - maxSize: maximum allowed file size in bytes
//
// Returns:
//   - []byte: file contents
//   - error: error if file is too large, missing or unreadable
func readConfigFile(path string, maxSize int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d bytes)", info.Size(), maxSize)
	}
	return os.ReadFile(path)
}

// decodeConfig decodes YAML data on top of base.
//
// Unknown keys are rejected so typos surface immediately. Keys absent from
// data keep the value already present in base.
//
// Parameters:
//   - data: YAML configuration data
//   - base: configuration to overlay; it is cloned, not modified
//
// Returns:
//   - *Config: the merged configuration
//   - error: error if the YAML is invalid or has unknown fields
func decodeConfig(data []byte, base *Config) (*Config, error) {
	cfg := base.Clone()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return cfg, nil
}
