package cli

import (
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/roach88/g4spectra/internal/table"
)

// expandSpectra resolves spectrum arguments to file paths. Existing files
// and "-" (stdin) are kept as given. Anything else is a glob pattern, with
// ** support, whose matches are appended in sorted order.
func expandSpectra(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		if pattern == table.Stdio {
			paths = append(paths, pattern)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			paths = append(paths, pattern)
			continue
		}
		if !containsGlob(pattern) {
			return nil, fmt.Errorf("spectrum %s: %w", pattern, fs.ErrNotExist)
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob error: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no spectra match pattern %s: %w", pattern, fs.ErrNotExist)
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
