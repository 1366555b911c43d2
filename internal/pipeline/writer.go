package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Action is the outcome of the overwrite-policy check.
type Action int

const (
	ActionWrite Action = iota
	ActionSkip
)

// Stem returns the lowercased portion of name before its first ".". Two
// outputs whose stems match are the same logical memory regardless of
// extension, which is what the overwrite policy compares.
func Stem(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// OriginalStem returns the portion of name before its first ".", case
// preserved, used to build output filenames.
func OriginalStem(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// Decide applies the overwrite policy for a candidate stem against the
// output directory's current contents. A collision is any existing file
// whose own stem matches case-insensitively. Without overwrite a collision
// skips the unit before its content is read; with overwrite (or with no
// collision) the unit is written. The check reads the directory at decision
// time, so units producing the same stem resolve in enumeration order.
func Decide(stem, outputDir string, overwrite bool) (Action, error) {
	if overwrite {
		return ActionWrite, nil
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return ActionWrite, nil
		}
		return ActionSkip, err
	}

	want := strings.ToLower(stem)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if Stem(e.Name()) == want {
			return ActionSkip, nil
		}
	}
	return ActionWrite, nil
}

// copyFile copies src to dst via a temporary name in the destination
// directory, renaming into place on success so interrupted copies never
// leave a partial output behind.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, ".snapmerge-*")
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(tmp, in)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}
