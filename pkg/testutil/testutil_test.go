package testutil

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests ensure the test utility functions are covered.
// Since these are helper functions for other tests, we just verify they work correctly.

func TestConfigBuilder(t *testing.T) {
	b := NewConfig().
		WithWorkingDir("/tmp/project").
		WithDownload("echo {{package}}").
		WithList("ls {{dir}}").
		WithMarker("stub.typed").
		WithConcurrency(3).
		WithTimeout(9)

	cfg := b.Build()
	assert.Equal(t, "/tmp/project", cfg.WorkingDir)
	assert.Equal(t, "echo {{package}}", cfg.Download.Commands)
	assert.Equal(t, "ls {{dir}}", cfg.List.Commands)
	assert.Equal(t, "stub.typed", cfg.Marker)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 9, cfg.TimeoutSeconds)
	assert.NoError(t, cfg.Validate())

	cfg.Marker = "changed"
	assert.Equal(t, "stub.typed", b.Build().Marker)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig().Build()
	assert.Equal(t, DefaultDownloadCommand, cfg.Download.Commands)
	assert.Empty(t, cfg.List.Commands)
	assert.Equal(t, "py.typed", cfg.Marker)
}

func TestWriteZip(t *testing.T) {
	path := WriteZip(t, t.TempDir(), "demo.whl", "demo/", "demo/__init__.py", "demo/py.typed")

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"demo/", "demo/__init__.py", "demo/py.typed"}, names)
}

func TestWriteTarGz(t *testing.T) {
	path := WriteTarGz(t, t.TempDir(), "demo-1.0.tar.gz", Dir("demo-1.0/py.typed"), File("demo-1.0/setup.py"), Contiguous("demo-1.0/big.bin"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	hdr, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "demo-1.0/py.typed/", hdr.Name)
	assert.Equal(t, byte(tar.TypeDir), hdr.Typeflag)

	hdr, err = tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "demo-1.0/setup.py", hdr.Name)
	assert.Equal(t, byte(tar.TypeReg), hdr.Typeflag)

	hdr, err = tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "demo-1.0/big.bin", hdr.Name)
	assert.Equal(t, byte(tar.TypeCont), hdr.Typeflag)

	_, err = tr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCaptureStdout(t *testing.T) {
	output := CaptureStdout(t, func() {
		fmt.Print("hello")
	})

	assert.Equal(t, "hello", output)
}

func TestCaptureStderr(t *testing.T) {
	output := CaptureStderr(t, func() {
		fmt.Fprint(os.Stderr, "oops")
	})

	assert.Equal(t, "oops", output)
}

func TestCaptureOutput(t *testing.T) {
	original := os.Stdout
	stdout, stderr := CaptureOutput(t, func() {
		fmt.Print("stdout content")
		fmt.Fprint(os.Stderr, "stderr content")
	})

	assert.Equal(t, "stdout content", stdout)
	assert.Equal(t, "stderr content", stderr)
	assert.Same(t, original, os.Stdout)
}

// TestCaptureLargeOutput tests output larger than a pipe buffer.
func TestCaptureLargeOutput(t *testing.T) {
	big := strings.Repeat("x", 1<<20)
	output := CaptureStdout(t, func() {
		fmt.Print(big)
	})

	assert.Len(t, output, len(big))
}
