package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/errors"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/verbose"
)

// PyprojectFileName is the manifest name routed to ParsePyproject.
const PyprojectFileName = "pyproject.toml"

type pyprojectFile struct {
	Project struct {
		Name         string   `toml:"name"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

// ParsePyproject reads the [project].dependencies array of a pyproject.toml.
//
// Entries are trimmed and blank entries dropped; order is preserved.
// Optional dependency groups and build requirements are not direct
// runtime dependencies and are ignored.
//
// Parameters:
//   - path: Path to pyproject.toml
//
// Returns:
//   - []string: Package identifiers in declaration order
//   - error: *errors.ManifestReadError when the file cannot be read or decoded
func ParsePyproject(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ManifestReadError{Path: path, Err: err}
	}

	var doc pyprojectFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &errors.ManifestReadError{Path: path, Err: err}
	}

	var pkgs []string
	for _, dep := range doc.Project.Dependencies {
		if dep = strings.TrimSpace(dep); dep != "" {
			pkgs = append(pkgs, dep)
		}
	}
	verbose.Debug("parsed pyproject", "path", path, "project", doc.Project.Name, "count", len(pkgs))
	return pkgs, nil
}

// Parse reads a manifest, choosing the reader from the file name.
//
// pyproject.toml is read with ParsePyproject; every other name is treated
// as a requirements file.
func Parse(path string) ([]string, error) {
	if filepath.Base(path) == PyprojectFileName {
		return ParsePyproject(path)
	}
	return ParseRequirements(path)
}
