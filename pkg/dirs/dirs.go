// Package dirs prepares module directories: removing, clearing and
// archiving them.
package dirs

import (
	"context"

	"github.com/arthur-debert/gsmake/pkg/batch"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/style"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Manager changes directories relative to a working directory
type Manager struct {
	fs      afero.Fs
	workDir string
	printer *style.Printer
	logger  zerolog.Logger
}

// Option customizes a Manager
type Option func(*Manager)

// WithPrinter sets where status lines are printed
func WithPrinter(p *style.Printer) Option {
	return func(m *Manager) { m.printer = p }
}

// New creates a Manager
func New(fsys afero.Fs, workDir string, opts ...Option) *Manager {
	m := &Manager{
		fs:      fsys,
		workDir: workDir,
		printer: style.Discard(),
		logger:  logging.GetLogger("dirs"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RemovePath removes a file or a directory tree. Missing paths are not
// an error.
func (m *Manager) RemovePath(path string) error {
	path = paths.NormPathIn(m.workDir, path)
	if err := m.fs.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove `%s`", path)
	}
	m.logger.Debug().Str("path", path).Msg("Removed")
	return nil
}

// RemoveDir removes every directory matching the glob patterns. A match
// that is a file is an error; patterns matching nothing are skipped.
func (m *Manager) RemoveDir(patterns []string) error {
	matches, err := m.glob(patterns, false)
	if err != nil {
		return err
	}
	for _, path := range matches {
		if !filesystem.IsDir(m.fs, path) {
			return errors.Newf(errors.ErrNotDir, "Path `%s` is not a directory", path).
				WithDetail("path", path)
		}
	}
	b := batch.New("remove_dir")
	for _, path := range matches {
		path := path
		b.Add("remove", func() error {
			if err := m.RemovePath(path); err != nil {
				return err
			}
			m.printer.Success("Removed: `%s`", path)
			return nil
		})
	}
	return b.Run(context.Background())
}

// ClearDir empties the directories matching the patterns. A pattern
// matching nothing names a directory to create, so afterwards every
// directory exists and is empty.
func (m *Manager) ClearDir(patterns []string) error {
	dirs, err := m.glob(patterns, true)
	if err != nil {
		return err
	}
	for _, path := range dirs {
		if filesystem.Exists(m.fs, path) && !filesystem.IsDir(m.fs, path) {
			return errors.Newf(errors.ErrNotDir, "Path `%s` is not a directory", path).
				WithDetail("path", path)
		}
	}
	b := batch.New("clear_dir")
	for _, path := range dirs {
		path := path
		b.Add("remove", func() error {
			return m.RemovePath(path)
		})
		b.Add("create", func() error {
			if err := m.fs.MkdirAll(path, 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory `%s`", path)
			}
			m.printer.Success("Cleared: `%s`", path)
			return nil
		})
	}
	return b.Run(context.Background())
}

func (m *Manager) glob(patterns []string, keepUnmatched bool) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, pattern := range patterns {
		pattern = paths.NormPathIn(m.workDir, pattern)
		if pattern == "" {
			continue
		}
		matches, err := afero.Glob(m.fs, pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSyntax, "invalid pattern `%s`", pattern)
		}
		if len(matches) == 0 && keepUnmatched {
			matches = []string{pattern}
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				out = append(out, match)
			}
		}
	}
	return out, nil
}
