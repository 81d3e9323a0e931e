package inspect

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/panliu5000/mypy-dependency-recommender/pkg/errors"
)

type archiveKind int

const (
	kindUnknown archiveKind = iota
	kindZip
	kindTarGz
)

// archiveKindOf classifies an artifact by file name suffix.
func archiveKindOf(path string) archiveKind {
	switch {
	case strings.HasSuffix(path, ".zip"), strings.HasSuffix(path, ".whl"):
		return kindZip
	case strings.HasSuffix(path, ".tar.gz"):
		return kindTarGz
	default:
		return kindUnknown
	}
}

// ContainsMarker reports whether the archive at path has a member whose name
// ends in marker.
//
// Zip files and wheels match on any member name. Gzipped tarballs match on
// regular-file members only, so a directory named like the marker does not
// count.
//
// Parameters:
//   - path: Path to a .zip, .whl or .tar.gz file
//   - marker: Member name suffix to look for, e.g. "py.typed"
//
// Returns:
//   - bool: true if a matching member exists
//   - error: *errors.ArchiveFormatError for other suffixes, *errors.ArchiveReadError
//     when the archive cannot be opened or iterated
func ContainsMarker(path, marker string) (bool, error) {
	switch archiveKindOf(path) {
	case kindZip:
		return zipContains(path, marker)
	case kindTarGz:
		return tarGzContains(path, marker)
	default:
		return false, &errors.ArchiveFormatError{Path: path}
	}
}

func zipContains(path, marker string) (bool, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return false, &errors.ArchiveReadError{Path: path, Err: err}
	}
	defer zr.Close()

	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, marker) {
			return true, nil
		}
	}
	return false, nil
}

func tarGzContains(path, marker string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, &errors.ArchiveReadError{Path: path, Err: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return false, &errors.ArchiveReadError{Path: path, Err: err}
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, &errors.ArchiveReadError{Path: path, Err: err}
		}
		if isFileEntry(hdr) && strings.HasSuffix(hdr.Name, marker) {
			return true, nil
		}
	}
}

// isFileEntry reports whether hdr describes file content. Contiguous files
// are regular files on systems that do not support them.
func isFileEntry(hdr *tar.Header) bool {
	return hdr.Typeflag == tar.TypeReg || hdr.Typeflag == tar.TypeCont
}
