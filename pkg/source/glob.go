// Package source resolves and opens the log files handed to errtally.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ExpandGlobs expands file paths and glob patterns into a sorted, deduplicated
// list of files. Directories matched by a pattern are skipped. A pattern that
// matches nothing is kept as a literal path so that opening it later produces a
// diagnostic naming it.
func ExpandGlobs(patterns []string) ([]string, error) {
	var result []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			result = append(result, pattern)
			continue
		}

		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && info.IsDir() {
				continue
			}
			result = append(result, match)
		}
	}

	slices.Sort(result)
	return slices.Compact(result), nil
}
