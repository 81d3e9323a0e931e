package testutil

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteZip creates a zip (or wheel) archive at dir/name holding the given
// member names, each with a small body.
//
// Names ending in "/" are written as directory entries.
//
// Parameters:
//   - t: Testing instance for helper marking
//   - dir: Directory to create the archive in
//   - name: Archive file name, e.g. "pkg-1.0-py3-none-any.whl"
//   - members: Member paths inside the archive
//
// Returns:
//   - string: Absolute path of the created archive
func WriteZip(t *testing.T, dir, name string, members ...string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.Create(m)
		if err != nil {
			t.Fatalf("add zip member %s: %v", m, err)
		}
		if !strings.HasSuffix(m, "/") {
			if _, err := w.Write([]byte("# " + m + "\n")); err != nil {
				t.Fatalf("write zip member %s: %v", m, err)
			}
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

// TarMember describes one entry of a synthetic tarball.
//
// Fields:
//   - Name: Path inside the archive
//   - Dir: Whether the entry is a directory rather than a file
//   - Typeflag: File entry type; zero means tar.TypeReg
type TarMember struct {
	Name     string
	Dir      bool
	Typeflag byte
}

// File returns a regular-file TarMember.
func File(name string) TarMember { return TarMember{Name: name} }

// Contiguous returns a contiguous-file TarMember (tar.TypeCont).
func Contiguous(name string) TarMember { return TarMember{Name: name, Typeflag: tar.TypeCont} }

// Dir returns a directory TarMember.
func Dir(name string) TarMember { return TarMember{Name: name, Dir: true} }

// WriteTarGz creates a gzipped tarball at dir/name holding members.
//
// Parameters:
//   - t: Testing instance for helper marking
//   - dir: Directory to create the archive in
//   - name: Archive file name, e.g. "pkg-1.0.tar.gz"
//   - members: Entries to write, in order
//
// Returns:
//   - string: Absolute path of the created archive
func WriteTarGz(t *testing.T, dir, name string, members ...TarMember) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create tarball: %v", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	for _, m := range members {
		if m.Dir {
			hdr := &tar.Header{Name: strings.TrimSuffix(m.Name, "/") + "/", Typeflag: tar.TypeDir, Mode: 0755}
			if err := tw.WriteHeader(hdr); err != nil {
				t.Fatalf("add tar dir %s: %v", m.Name, err)
			}
			continue
		}
		typeflag := m.Typeflag
		if typeflag == 0 {
			typeflag = tar.TypeReg
		}
		body := []byte("# " + m.Name + "\n")
		hdr := &tar.Header{Name: m.Name, Typeflag: typeflag, Mode: 0644, Size: int64(len(body))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("add tar member %s: %v", m.Name, err)
		}
		if _, err := tw.Write(body); err != nil {
			t.Fatalf("write tar member %s: %v", m.Name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return path
}
