package config

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the inspector cannot use.
//
// Returns:
//   - error: joined validation errors, or nil when the configuration is usable
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Download.Commands) == "" {
		errs = append(errs, fmt.Errorf("download.commands: must not be empty"))
	} else if !strings.Contains(c.Download.Commands, "{{package}}") {
		errs = append(errs, fmt.Errorf("download.commands: must reference {{package}}"))
	}
	if strings.TrimSpace(c.Marker) == "" {
		errs = append(errs, fmt.Errorf("marker: must not be empty"))
	}
	if strings.ContainsAny(c.Marker, `/\`) {
		errs = append(errs, fmt.Errorf("marker: must be a file name, got %q", c.Marker))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency: must be >= 0, got %d", c.Concurrency))
	}
	if c.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("timeout_seconds: must be >= 0, got %d", c.TimeoutSeconds))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %w", stderrors.Join(errs...))
}
