// Package vcs asks git which files of the repository carry local
// modifications, so a build can warn when it links sources that are not
// committed.
package vcs

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/directive"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/style"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// MaxListed bounds how many modified files a warning lists
const MaxListed = 100

// Checker runs git in a working directory
type Checker struct {
	fs      afero.Fs
	runner  execution.Runner
	workDir string
	printer *style.Printer
	logger  zerolog.Logger
}

// Option customizes a Checker
type Option func(*Checker)

// WithPrinter sets where warnings are printed
func WithPrinter(p *style.Printer) Option {
	return func(c *Checker) { c.printer = p }
}

// New creates a Checker. fsys is used to expand linked directories.
func New(fsys afero.Fs, runner execution.Runner, workDir string, opts ...Option) *Checker {
	c := &Checker{
		fs:      fsys,
		runner:  runner,
		workDir: workDir,
		printer: style.Discard(),
		logger:  logging.GetLogger("vcs"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the top level of the repository holding the working
// directory
func (c *Checker) Root(ctx context.Context) (string, error) {
	out, err := c.git(ctx, c.workDir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return resolve(filepath.Clean(strings.TrimSpace(out))), nil
}

// ModifiedFiles lists the absolute paths git status reports as changed,
// untracked or conflicted
func (c *Checker) ModifiedFiles(ctx context.Context) ([]string, error) {
	root, err := c.Root(ctx)
	if err != nil {
		return nil, err
	}
	out, err := c.git(ctx, root, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	files := ParsePorcelain(out)
	for i, f := range files {
		files[i] = filepath.Join(root, filepath.FromSlash(f))
	}
	return files, nil
}

// CheckModified warns, in the makelog and on the console, about linked
// source files that have local modifications. Sources that are
// directories are walked to depth. The modified files are returned.
func (c *Checker) CheckModified(ctx context.Context, log *makelog.Session, pairs directive.Map, depth int) ([]string, error) {
	done := logging.LogOperationStart(c.logger, "check_modified")
	defer done()

	overlap, err := c.checkModified(ctx, log, pairs, depth)
	if err != nil {
		c.printer.Failure("Error with `check_modified`")
		return nil, log.LogError(err)
	}
	return overlap, nil
}

func (c *Checker) checkModified(ctx context.Context, log *makelog.Session, pairs directive.Map, depth int) ([]string, error) {
	// git reports paths below the resolved top level, so sources are
	// compared by their resolved form and listed as linked.
	sources := map[string]string{}
	for _, src := range pairs.Sources() {
		files, err := paths.GlobRecursive(c.fs, src, depth)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			sources[resolve(f)] = f
		}
	}

	modified, err := c.ModifiedFiles(ctx)
	if err != nil {
		return nil, err
	}

	var overlap []string
	for _, f := range modified {
		if src, ok := sources[resolve(f)]; ok {
			overlap = append(overlap, src)
		}
	}
	sort.Strings(overlap)
	if len(overlap) == 0 {
		return nil, nil
	}

	msg := ModifiedWarning(overlap)
	if err := log.Write(makelog.StarLine + "\n" + msg + "\n" + makelog.StarLine); err != nil {
		return nil, err
	}
	c.printer.Warning(msg)
	return overlap, nil
}

// ModifiedWarning formats the warning listing modified files, truncated
// after MaxListed entries
func ModifiedWarning(files []string) string {
	listed := files
	if len(listed) > MaxListed {
		listed = append(append([]string{}, files[:MaxListed]...), "and more (file list truncated due to length)")
	}
	return fmt.Sprintf("WARNING! The following target files have been modified according to git status:\n%s",
		strings.Join(listed, "\n"))
}

// ParsePorcelain extracts the paths of `git status --porcelain` output.
// Renames report their new path; quoted paths are unquoted.
func ParsePorcelain(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < 4 {
			continue
		}
		path := line[3:]
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+4:]
		}
		if strings.HasPrefix(path, `"`) {
			if unq, err := strconv.Unquote(path); err == nil {
				path = unq
			}
		}
		files = append(files, path)
	}
	return files
}

// resolve follows symlinks on the OS filesystem. Paths that cannot be
// resolved, including those that only exist in memory, are returned as is.
func resolve(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}

func (c *Checker) git(ctx context.Context, dir string, args ...string) (string, error) {
	res, err := c.runner.Run(ctx, execution.Command{Name: "git", Args: args, Dir: dir})
	if err != nil {
		return "", err
	}
	if res.Failed() {
		if len(args) > 0 && args[0] == "rev-parse" {
			return "", errors.New(errors.ErrNotFound, "Current working directory is not part of a git repository").
				WithTrace(res.Stderr)
		}
		return "", errors.Newf(errors.ErrBadCommand, "git %s failed", strings.Join(args, " ")).
			WithTrace(res.Stderr)
	}
	return res.Stdout, nil
}
