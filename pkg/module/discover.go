package module

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/spf13/afero"
)

// Discover lists the directories below root, relative to root, holding a
// file named manifest. Directories named in skip are not entered. A
// manifest at root itself is not listed.
func Discover(fsys afero.Fs, root, manifest string, skip []string) ([]string, error) {
	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}

	var modules []string
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && skipped[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != manifest {
			return nil
		}
		dir := filepath.Dir(path)
		if dir == root {
			return nil
		}
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return err
		}
		modules = append(modules, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot search modules under `%s`", root)
	}
	sort.Strings(modules)
	return modules, nil
}
