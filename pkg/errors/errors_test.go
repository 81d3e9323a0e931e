package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExitCodes tests the exit code constants.
func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitPartialFailure)
	assert.Equal(t, 2, ExitFailure)
	assert.Equal(t, 3, ExitConfigError)
}

// TestExitError tests the ExitError struct and its methods.
//
// It verifies that:
//   - Error() returns the Message field when set
//   - Error() returns wrapped error message when Err is set
//   - Error() returns "exit code N" when neither is set
//   - Unwrap() returns the wrapped error
func TestExitError(t *testing.T) {
	t.Run("with message", func(t *testing.T) {
		err := NewExitErrorf(ExitFailure, "failed %d packages", 3)
		assert.Equal(t, "failed 3 packages", err.Error())
	})

	t.Run("with wrapped error", func(t *testing.T) {
		inner := stderrors.New("inner error")
		err := NewExitError(ExitConfigError, inner)
		assert.Equal(t, "inner error", err.Error())
		assert.ErrorIs(t, err, inner)
	})

	t.Run("empty", func(t *testing.T) {
		err := &ExitError{Code: 7}
		assert.Equal(t, "exit code 7", err.Error())
	})
}

// TestGetExitCode tests the behavior of GetExitCode.
//
// It verifies:
//   - nil maps to ExitSuccess
//   - ExitError codes are propagated through wrapping
//   - ManifestReadError maps to ExitConfigError
//   - Other errors map to ExitFailure
func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"exit error", NewExitError(ExitPartialFailure, nil), ExitPartialFailure},
		{"wrapped exit error", fmt.Errorf("ctx: %w", NewExitError(ExitConfigError, nil)), ExitConfigError},
		{"manifest", &ManifestReadError{Path: "r.txt", Err: os.ErrNotExist}, ExitConfigError},
		{"plain", stderrors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

// TestPartialSuccessError tests the PartialSuccessError type and helpers.
func TestPartialSuccessError(t *testing.T) {
	err := NewPartialSuccessError(4, 1, []error{stderrors.New("x")})
	assert.Equal(t, "4 succeeded, 1 failed", err.Error())

	pse, ok := IsPartialSuccess(fmt.Errorf("wrap: %w", err))
	require.True(t, ok)
	assert.Equal(t, 4, pse.Succeeded)

	_, ok = IsPartialSuccess(stderrors.New("other"))
	assert.False(t, ok)
}

// TestInspectionErrors tests the per-package error taxonomy.
//
// It verifies:
//   - DownloadError prefers captured output over the exec error
//   - ArchiveFormatError names only the artifact file
//   - ArchiveReadError and ManifestReadError unwrap
//   - IsInspectionError recognises every per-package error
func TestInspectionErrors(t *testing.T) {
	t.Run("download with output", func(t *testing.T) {
		err := &DownloadError{Package: "requests", Output: "  ERROR: No matching distribution  \n", Err: stderrors.New("exit status 1")}
		assert.Equal(t, "failed to download requests: ERROR: No matching distribution", err.Error())
		assert.True(t, IsInspectionError(err))
	})

	t.Run("download without output", func(t *testing.T) {
		err := &DownloadError{Package: "requests", Err: ErrNoArtifact}
		assert.Equal(t, "failed to download requests: no artifact downloaded", err.Error())
		assert.ErrorIs(t, err, ErrNoArtifact)
	})

	t.Run("download bare", func(t *testing.T) {
		err := &DownloadError{Package: "requests"}
		assert.Equal(t, "failed to download requests", err.Error())
	})

	t.Run("format", func(t *testing.T) {
		err := &ArchiveFormatError{Path: "/tmp/x/pkg-1.0.tar.bz2"}
		assert.Equal(t, "unexpected file type pkg-1.0.tar.bz2", err.Error())
		assert.True(t, IsInspectionError(fmt.Errorf("wrap: %w", err)))
	})

	t.Run("read", func(t *testing.T) {
		inner := stderrors.New("zip: not a valid zip file")
		err := &ArchiveReadError{Path: "/tmp/x/pkg.whl", Err: inner}
		assert.Contains(t, err.Error(), "pkg.whl")
		assert.ErrorIs(t, err, inner)
		assert.True(t, IsInspectionError(err))
	})

	t.Run("manifest", func(t *testing.T) {
		err := &ManifestReadError{Path: "missing.txt", Err: os.ErrNotExist}
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.False(t, IsInspectionError(err))
	})
}

// TestHints tests hint lookup and enhancement.
func TestHints(t *testing.T) {
	err := stderrors.New("ERROR: No matching distribution found for nopkg")
	assert.NotEmpty(t, GetHint(err))
	assert.Contains(t, EnhanceErrorWithHint(err), "index_url")

	assert.Empty(t, GetHint(nil))
	assert.Empty(t, EnhanceErrorWithHint(nil))
	assert.Equal(t, "plain", EnhanceErrorWithHint(stderrors.New("plain")))

	assert.Contains(t, GetHintForCommand("pip3"), "python.org")
	assert.Empty(t, GetHintForCommand("unknown-tool"))
}

// TestPrintErrorWithHints tests error display formatting.
func TestPrintErrorWithHints(t *testing.T) {
	t.Run("standard error", func(t *testing.T) {
		var buf bytes.Buffer
		PrintErrorWithHints(&buf, []error{stderrors.New("boom"), nil}, false)
		assert.Equal(t, "Error: boom\n", buf.String())
	})

	t.Run("partial success verbose", func(t *testing.T) {
		var buf bytes.Buffer
		pse := NewPartialSuccessError(2, 1, []error{&DownloadError{Package: "a", Output: "denied"}})
		PrintErrorWithHints(&buf, []error{pse}, true)
		assert.Contains(t, buf.String(), "Partial Success: 2 succeeded, 1 failed")
		assert.Contains(t, buf.String(), "failed to download a: denied")
	})

	t.Run("partial success quiet", func(t *testing.T) {
		var buf bytes.Buffer
		pse := NewPartialSuccessError(2, 1, []error{stderrors.New("hidden")})
		PrintErrorWithHints(&buf, []error{pse}, false)
		assert.NotContains(t, buf.String(), "hidden")
	})
}
