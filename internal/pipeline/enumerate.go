package pipeline

import (
	"os"
	"path/filepath"
	"sort"
)

// Enumerate lists the top-level entries of inputDir (files, archives, and
// pair directories alike) sorted lexicographically for deterministic
// processing order. It does not recurse: subdirectories are units of their
// own, resolved later by pair discovery.
func Enumerate(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, filepath.Join(inputDir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
