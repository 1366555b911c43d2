package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// openReader opens zipPath, translating open failures into ErrArchiveFormat
// so the pipeline can report them uniformly.
func openReader(zipPath string) (*zip.ReadCloser, error) {
	fi, err := os.Stat(zipPath)
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%w: empty file %s", ErrArchiveFormat, zipPath)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArchiveFormat, zipPath, err)
	}
	return r, nil
}

// extractFile writes one archive member to path.
func extractFile(f *zip.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: member %q: %v", ErrArchiveFormat, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("%w: member %q: %v", ErrArchiveFormat, f.Name, err)
	}
	return out.Close()
}
