package config

// DefaultMaxConfigFileSize is the default maximum config file size (10MB).
const DefaultMaxConfigFileSize = 10 * 1024 * 1024

// DefaultConfigFileName is the config file looked up in the working directory.
const DefaultConfigFileName = ".pytyped.yml"

// Config is the root configuration structure.
type Config struct {
	// Marker is the file name searched for inside each archive.
	Marker string `yaml:"marker"`

	// PythonVersion is substituted for {{python_version}} in command templates.
	PythonVersion string `yaml:"python_version"`

	// IndexURL is substituted for {{index_url}} in command templates.
	IndexURL string `yaml:"index_url"`

	// Concurrency caps the number of packages inspected at once.
	// Zero or negative values mean unlimited (one worker per package).
	Concurrency int `yaml:"concurrency"`

	// TimeoutSeconds bounds each external command. Zero disables the timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Download describes how a single package artifact is fetched.
	Download CommandCfg `yaml:"download"`

	// List describes how the downloaded artifact is located.
	List CommandCfg `yaml:"list"`

	// WorkingDir is the directory commands are resolved against.
	// It is a runtime value and not read from YAML.
	WorkingDir string `yaml:"-"`

	// Source is the path the configuration was loaded from, or empty for defaults.
	Source string `yaml:"-"`
}

// CommandCfg holds a command template and its environment.
//
// Fields:
//   - Commands: Multiline shell template with {{key}} placeholders
//   - Env: Extra environment variables for the commands
type CommandCfg struct {
	Commands string            `yaml:"commands"`
	Env      map[string]string `yaml:"env,omitempty"`
}

// Replacements returns the template values shared by every command for a
// single inspection.
//
// Parameters:
//   - pkg: Package identifier substituted for {{package}}
//   - dir: Download directory substituted for {{dir}}
//
// Returns:
//   - map[string]string: Map of template keys to replacement values
func (c *Config) Replacements(pkg, dir string) map[string]string {
	return map[string]string{
		"package":        pkg,
		"dir":            dir,
		"python_version": c.PythonVersion,
		"index_url":      c.IndexURL,
		"marker":         c.Marker,
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Download.Env = cloneEnv(c.Download.Env)
	clone.List.Env = cloneEnv(c.List.Env)
	return &clone
}

func cloneEnv(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
