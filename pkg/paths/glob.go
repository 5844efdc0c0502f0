package paths

import (
	"path/filepath"
	"sort"

	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/spf13/afero"
)

// Unlimited walks a glob to any depth
const Unlimited = -1

// GlobRecursive returns the regular files matching path, then path/*,
// path/*/* and so on. The walk stops at the first level with no matches
// or after depth extra levels (Unlimited for no bound). Results are
// sorted and contain no duplicates.
func GlobRecursive(fsys afero.Fs, path string, depth int) ([]string, error) {
	logger := logging.GetLogger("paths")

	walk := NormPath(path)
	matches, err := afero.Glob(fsys, walk)
	if err != nil {
		return nil, err
	}

	for level := 0; depth == Unlimited || level <= depth; level++ {
		walk = filepath.Join(walk, "*")
		found, err := afero.Glob(fsys, walk)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			break
		}
		matches = append(matches, found...)
	}

	seen := make(map[string]bool, len(matches))
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		info, err := fsys.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)

	if len(files) == 0 {
		logger.Warn().
			Str("path", path).
			Int("depth", depth).
			Msg("No files were found when walking path")
	}
	return files, nil
}
