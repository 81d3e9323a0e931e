// Package inspect decides whether a single Python package ships inline type
// information.
//
// An Inspector downloads the package's distribution artifact into a scratch
// directory with the configured download command, locates the artifact and
// searches it for the marker file (py.typed by default).
package inspect

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/cmdexec"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/config"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/errors"
	"github.com/panliu5000/mypy-dependency-recommender/pkg/verbose"
)

// tempDirPattern names the scratch directory created per inspection.
const tempDirPattern = "pytyped-*"

// Inspector checks packages against one configuration.
//
// An Inspector holds no per-call state and is safe for concurrent use.
type Inspector struct {
	cfg *config.Config
}

// New creates an Inspector for cfg.
//
// Parameters:
//   - cfg: Loaded configuration supplying command templates and the marker
//
// Returns:
//   - *Inspector: Inspector ready for concurrent Inspect calls
func New(cfg *config.Config) *Inspector {
	return &Inspector{cfg: cfg}
}

// Inspect downloads pkg and reports whether its artifact contains the marker.
//
// The scratch directory is removed on every return path.
//
// Parameters:
//   - ctx: Context for cancellation of the external commands
//   - pkg: Package identifier passed verbatim to the download command
//
// Returns:
//   - bool: true if the artifact contains a member ending in the marker
//   - error: *errors.DownloadError, *errors.ArchiveFormatError or *errors.ArchiveReadError
func (i *Inspector) Inspect(ctx context.Context, pkg string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, &errors.DownloadError{Package: pkg, Err: err}
	}

	dir, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return false, &errors.DownloadError{Package: pkg, Err: fmt.Errorf("create download directory: %w", err)}
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			verbose.Printf("failed to remove %s: %v\n", dir, rmErr)
		}
	}()
	verbose.Debug("created download directory", "package", pkg, "dir", dir)

	replacements := i.cfg.Replacements(pkg, dir)
	if err := i.download(ctx, pkg, replacements); err != nil {
		return false, err
	}
	verbose.Debug("downloaded package", "package", pkg)

	paths, err := i.listArtifacts(ctx, dir, replacements)
	if err != nil {
		return false, &errors.DownloadError{Package: pkg, Err: fmt.Errorf("list artifacts: %w", err)}
	}
	artifact := selectArtifact(paths)
	if artifact == "" {
		return false, &errors.DownloadError{Package: pkg, Err: errors.ErrNoArtifact}
	}
	verbose.Debug("located artifact", "package", pkg, "artifact", filepath.Base(artifact))

	return ContainsMarker(artifact, i.cfg.Marker)
}

// download runs the download command template for pkg.
func (i *Inspector) download(ctx context.Context, pkg string, replacements map[string]string) error {
	_, err := cmdexec.ExecuteWithContext(ctx, i.cfg.Download.Commands, i.cfg.Download.Env, i.cfg.WorkingDir, i.cfg.TimeoutSeconds, replacements)
	if err == nil {
		return nil
	}

	verbose.Debug("download failed", "package", pkg, "exit_code", cmdexec.ExitCode(err))
	dlErr := &errors.DownloadError{Package: pkg, Err: err}
	var cmdErr *cmdexec.CommandError
	// Timeouts and cancellation are reported through Err, not partial output.
	if stderrors.As(err, &cmdErr) && ctx.Err() == nil && !stderrors.Is(err, context.DeadlineExceeded) {
		dlErr.Output = cmdErr.Output
	}
	return dlErr
}

// listArtifacts returns candidate artifact paths in dir.
//
// With a list command configured, its non-empty output lines are used;
// relative lines are resolved against dir. Otherwise dir is walked and every
// regular file is returned in lexical order.
func (i *Inspector) listArtifacts(ctx context.Context, dir string, replacements map[string]string) ([]string, error) {
	if strings.TrimSpace(i.cfg.List.Commands) == "" {
		return walkFiles(dir)
	}

	out, err := cmdexec.ExecuteWithContext(ctx, i.cfg.List.Commands, i.cfg.List.Env, i.cfg.WorkingDir, i.cfg.TimeoutSeconds, replacements)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(dir, line)
		}
		paths = append(paths, line)
	}
	return paths, nil
}

// walkFiles lists the regular files below dir.
func walkFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// selectArtifact picks the artifact to inspect from the listed paths.
//
// The first path with a recognised archive suffix wins. Without one the last
// path is returned so that the format error names what was downloaded.
// An empty list yields "".
func selectArtifact(paths []string) string {
	for _, p := range paths {
		if archiveKindOf(p) != kindUnknown {
			return p
		}
	}
	if len(paths) == 0 {
		return ""
	}
	return paths[len(paths)-1]
}
