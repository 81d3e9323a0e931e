// Package testutil provides shared test utilities for pytyped packages:
// stream capture for CLI output, config builders and synthetic archives.
package testutil

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// redirect swaps *stream for a pipe and returns a function that restores
// the original file and yields everything written in between.
//
// The pipe is drained concurrently so large reports cannot fill its buffer
// and block the writer.
func redirect(t *testing.T, stream **os.File) func() string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}
	original := *stream
	*stream = w

	drained := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		drained <- buf.String()
	}()

	return func() string {
		_ = w.Close()
		*stream = original
		return <-drained
	}
}

// CaptureStdout runs fn and returns what it wrote to os.Stdout.
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()
	finish := redirect(t, &os.Stdout)
	fn()
	return finish()
}

// CaptureStderr runs fn and returns what it wrote to os.Stderr, e.g. the
// progress line, warnings and error hints.
func CaptureStderr(t *testing.T, fn func()) string {
	t.Helper()
	finish := redirect(t, &os.Stderr)
	fn()
	return finish()
}

// CaptureOutput runs fn and returns what it wrote to os.Stdout and
// os.Stderr separately.
//
// Returns:
//   - stdout: Report output
//   - stderr: Progress, warnings and diagnostics
func CaptureOutput(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()
	finishOut := redirect(t, &os.Stdout)
	finishErr := redirect(t, &os.Stderr)
	fn()
	stderr = finishErr()
	stdout = finishOut()
	return stdout, stderr
}
