// Package file implements local filesystem data sources for the pipeline:
// recursive discovery of JSON input files under a root directory, and a
// context-aware opener for individual files.
package file

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ListJSON walks root recursively and returns the absolute paths of every
// regular file with a .json extension (case-insensitive), sorted
// lexicographically so repeated runs see files in a stable order.
//
// A missing root is an error; an existing root with no matching files returns
// an empty slice and no error.
func ListJSON(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		out = append(out, abs)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list json under %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}
