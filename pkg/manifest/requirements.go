package manifest

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/errors"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/verbose"
)

// editableFlags are the first tokens that mark an editable install line.
var editableFlags = map[string]bool{
	"-e":         true,
	"--editable": true,
}

// ParseRequirements reads a requirements file and returns its direct
// dependency identifiers in file order.
//
// Parameters:
//   - path: Path to the requirements file
//
// Returns:
//   - []string: Package identifiers, possibly empty
//   - error: *errors.ManifestReadError when the file cannot be opened or read
func ParseRequirements(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &errors.ManifestReadError{Path: path, Err: err}
	}
	defer f.Close()

	pkgs, err := ParseReader(f)
	if err != nil {
		return nil, &errors.ManifestReadError{Path: path, Err: err}
	}
	verbose.Debug("parsed requirements", "path", path, "count", len(pkgs))
	return pkgs, nil
}

// ParseReader applies the requirements line rules to r.
//
// Rules, applied to each whitespace-trimmed line:
//   - blank lines and lines starting with '#' are skipped
//   - when the text after the first '#' starts with "via" the line is a
//     transitive dependency annotation and is skipped
//   - when the first token is "-e" the identifier is the second token
//   - otherwise the identifier is the text before the first '#', trimmed
//
// Parameters:
//   - r: Reader over requirements content
//
// Returns:
//   - []string: Package identifiers in input order
//   - error: Read error from r, if any
func ParseReader(r io.Reader) ([]string, error) {
	var pkgs []string

	// Lines are read without a length cap; long VCS URLs and hash lists are common.
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if pkg, ok := parseLine(line); ok {
				pkgs = append(pkgs, pkg)
			}
		}
		if err == io.EOF {
			return pkgs, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// parseLine extracts the identifier from a single requirements line.
func parseLine(raw string) (string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}

	head, comment, hasComment := strings.Cut(line, "#")
	if hasComment && strings.HasPrefix(strings.TrimSpace(comment), "via") {
		return "", false
	}

	// Editable targets keep any URL fragment such as #egg=name.
	fields := strings.Fields(line)
	if editableFlags[fields[0]] {
		if len(fields) < 2 || strings.HasPrefix(fields[1], "#") {
			verbose.Debug("skipping editable line without target", "line", line)
			return "", false
		}
		return fields[1], true
	}

	return strings.TrimSpace(head), true
}
