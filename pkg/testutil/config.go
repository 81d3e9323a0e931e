package testutil

import (
	"github.com/panliu5000/mypy-dependency-recommender/pkg/config"
)

// DefaultDownloadCommand mirrors the download template shipped in default.yml.
const DefaultDownloadCommand = "pip3 download {{package}} -d {{dir}} --python-version {{python_version}} --no-deps --extra-index-url={{index_url}}"

// ConfigBuilder provides a fluent API for building test configurations.
//
// Use this builder to construct Config objects for testing purposes
// without needing to set all required fields manually.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfig creates a new ConfigBuilder with the stock pip settings.
//
// The list command is left empty so artifacts are located by reading the
// download directory directly.
//
// Returns:
//   - *ConfigBuilder: New builder instance ready for method chaining
func NewConfig() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			Marker:        "py.typed",
			PythonVersion: "3",
			IndexURL:      "https://pypi.org/simple",
			Download:      config.CommandCfg{Commands: DefaultDownloadCommand},
			WorkingDir:    ".",
		},
	}
}

// WithWorkingDir sets the working directory for the configuration.
func (b *ConfigBuilder) WithWorkingDir(dir string) *ConfigBuilder {
	b.cfg.WorkingDir = dir
	return b
}

// WithDownload sets the download command template.
//
// Parameters:
//   - commands: Command template, normally referencing {{package}} and {{dir}}
//
// Returns:
//   - *ConfigBuilder: Self for method chaining
func (b *ConfigBuilder) WithDownload(commands string) *ConfigBuilder {
	b.cfg.Download.Commands = commands
	return b
}

// WithList sets the artifact listing command template.
func (b *ConfigBuilder) WithList(commands string) *ConfigBuilder {
	b.cfg.List.Commands = commands
	return b
}

// WithMarker sets the marker file name searched for in archives.
func (b *ConfigBuilder) WithMarker(marker string) *ConfigBuilder {
	b.cfg.Marker = marker
	return b
}

// WithConcurrency sets the worker limit.
func (b *ConfigBuilder) WithConcurrency(n int) *ConfigBuilder {
	b.cfg.Concurrency = n
	return b
}

// WithTimeout sets the per-command timeout in seconds.
func (b *ConfigBuilder) WithTimeout(seconds int) *ConfigBuilder {
	b.cfg.TimeoutSeconds = seconds
	return b
}

// Build returns the built configuration.
//
// Returns a pointer to a copy, so the builder can be reused after
// calling Build.
//
// Returns:
//   - *config.Config: Pointer to the built configuration
func (b *ConfigBuilder) Build() *config.Config {
	return b.cfg.Clone()
}
