// Package manifest reads the direct dependencies declared by a Python project.
//
// Two manifest shapes are understood:
//
//   - requirements files: one specifier per line, with "# via" annotated
//     transitive lines skipped and "-e" editable installs unwrapped
//   - pyproject.toml: the PEP 621 [project].dependencies array
//
// Identifiers are returned verbatim in declaration order. No requirement
// grammar validation is performed; the package index client is the judge of
// whether an identifier is downloadable.
package manifest
