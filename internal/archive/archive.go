// Package archive unpacks a bundled memory (one ZIP per unit) into a scoped
// temporary directory and resolves its two entries into a media/overlay pair.
//
// Every extraction gets its own uniquely named directory so same-named
// members in different archives never collide. On failure the directory is
// removed before returning; on success the returned [Extraction] owns it and
// the caller releases it with Close (defer-style) once compositing is done.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/snapmerge/internal/classify"
)

// Sentinel errors for the resolution steps.
var (
	ErrArchiveFormat = errors.New("unrecognized or corrupt archive")
	ErrEntryCount    = errors.New("archive must contain exactly 2 entries")
)

// Extraction holds a resolved media/overlay pair inside a temporary
// extraction directory. Close removes the directory; it is idempotent.
type Extraction struct {
	MediaPath   string
	OverlayPath string
	dir         string
}

// Dir returns the temporary extraction directory (for logging).
func (e *Extraction) Dir() string { return e.dir }

// Close removes the extraction directory and everything in it.
func (e *Extraction) Close() error {
	if e.dir == "" {
		return nil
	}
	err := os.RemoveAll(e.dir)
	e.dir = ""
	return err
}

// Resolve extracts zipPath into a fresh temporary directory and resolves its
// contents into a media/overlay pair. It fails with [ErrArchiveFormat] when
// the file is not a readable ZIP, [ErrEntryCount] when the archive does not
// hold exactly two entries, and [classify.ErrRoleMatch] when the entries do
// not split into one main media file and one overlay PNG. No temporary
// directory survives a failed call.
func Resolve(zipPath string) (*Extraction, error) {
	tmp, err := os.MkdirTemp("", "snapmerge-")
	if err != nil {
		return nil, err
	}

	entries, err := extract(zipPath, tmp)
	if err != nil {
		os.RemoveAll(tmp)
		return nil, err
	}

	if len(entries) != 2 {
		os.RemoveAll(tmp)
		return nil, fmt.Errorf("%w (got %d): %s", ErrEntryCount, len(entries), zipPath)
	}

	media, overlay, err := classify.ResolvePair(entries)
	if err != nil {
		os.RemoveAll(tmp)
		return nil, fmt.Errorf("%s: %w", zipPath, err)
	}

	return &Extraction{MediaPath: media, OverlayPath: overlay, dir: tmp}, nil
}

// extract unpacks every member of the archive into dst and returns the
// top-level entry paths, sorted. Directory members (or members nested in
// directories) count as entries of their top-level name, so a bundled folder
// still trips the entry-count rule.
func extract(zipPath string, dst string) ([]string, error) {
	r, err := openReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	seen := make(map[string]bool)
	for _, f := range r.File {
		name := filepath.Clean(f.Name)
		if name == "." || strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			return nil, fmt.Errorf("%w: unsafe member path %q", ErrArchiveFormat, f.Name)
		}

		top := name
		if i := strings.IndexRune(name, filepath.Separator); i >= 0 {
			top = name[:i]
		}
		seen[top] = true

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(filepath.Join(dst, name), 0o755); err != nil {
				return nil, err
			}
			continue
		}

		if err := extractFile(f, filepath.Join(dst, name)); err != nil {
			return nil, err
		}
	}

	entries := make([]string, 0, len(seen))
	for top := range seen {
		entries = append(entries, filepath.Join(dst, top))
	}
	sort.Strings(entries)
	return entries, nil
}
