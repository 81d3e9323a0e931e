package errors

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoArtifact is returned when the download command succeeds but leaves
// no file behind in the download directory.
var ErrNoArtifact = errors.New("no artifact downloaded")

// ManifestReadError indicates the requirements manifest could not be read.
//
// This error is fatal: it is returned before any inspection starts.
//
// Fields:
//   - Path: Manifest path that was requested
//   - Err: Underlying filesystem or parse error
type ManifestReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ManifestReadError) Error() string {
	return fmt.Sprintf("failed to read manifest %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ManifestReadError) Unwrap() error {
	return e.Err
}

// DownloadError indicates the package download command failed.
//
// Fields:
//   - Package: Package identifier passed to the download command
//   - Output: Captured command output used as a diagnostic
//   - Err: Underlying execution error
type DownloadError struct {
	Package string
	Output  string
	Err     error
}

// Error implements the error interface.
//
// The captured output is preferred over the execution error because it is
// what the package index client printed.
func (e *DownloadError) Error() string {
	detail := strings.TrimSpace(e.Output)
	if detail == "" && e.Err != nil {
		detail = e.Err.Error()
	}
	if detail == "" {
		return fmt.Sprintf("failed to download %s", e.Package)
	}
	return fmt.Sprintf("failed to download %s: %s", e.Package, detail)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DownloadError) Unwrap() error {
	return e.Err
}

// ArchiveFormatError indicates the downloaded artifact is neither a zip,
// wheel nor gzipped tarball.
type ArchiveFormatError struct {
	Path string
}

// Error implements the error interface.
func (e *ArchiveFormatError) Error() string {
	return fmt.Sprintf("unexpected file type %s", filepath.Base(e.Path))
}

// ArchiveReadError indicates the artifact could not be opened or iterated.
type ArchiveReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ArchiveReadError) Error() string {
	return fmt.Sprintf("failed to read archive %s: %v", filepath.Base(e.Path), e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ArchiveReadError) Unwrap() error {
	return e.Err
}

// IsInspectionError reports whether err belongs to the per-package error
// taxonomy (download, archive format or archive read failures).
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: true if err wraps a DownloadError, ArchiveFormatError or ArchiveReadError
func IsInspectionError(err error) bool {
	var (
		downloadErr *DownloadError
		formatErr   *ArchiveFormatError
		readErr     *ArchiveReadError
	)
	return errors.As(err, &downloadErr) || errors.As(err, &formatErr) || errors.As(err, &readErr)
}
