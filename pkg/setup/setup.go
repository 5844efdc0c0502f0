// Package setup verifies that a machine can build a repository: required
// applications and tools are on PATH, external paths exist and a user
// configuration is present.
package setup

import (
	"sort"

	"github.com/arthur-debert/gsmake/pkg/config"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/arthur-debert/gsmake/pkg/style"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// GitLFS is the tool checked when a project sets git_lfs_required
const GitLFS = "git-lfs"

// Checker runs setup checks
type Checker struct {
	fs      afero.Fs
	exec    execution.Runner
	table   *programs.Table
	osName  paths.OS
	printer *style.Printer
	logger  zerolog.Logger
}

// Option customizes a Checker
type Option func(*Checker)

// WithFS sets the filesystem used for path checks and the template
func WithFS(fsys afero.Fs) Option {
	return func(c *Checker) { c.fs = fsys }
}

// WithOS selects the executable defaults of another OS
func WithOS(osName paths.OS) Option {
	return func(c *Checker) { c.osName = osName }
}

// WithPrinter sets where status lines are printed
func WithPrinter(p *style.Printer) Option {
	return func(c *Checker) { c.printer = p }
}

// New creates a Checker resolving executables from table
func New(exec execution.Runner, table *programs.Table, opts ...Option) *Checker {
	c := &Checker{
		fs:      filesystem.NewOS(),
		exec:    exec,
		table:   table,
		osName:  paths.CurrentOS(),
		printer: style.Discard(),
		logger:  logging.GetLogger("setup"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckExecutable fails unless the first word of executable resolves
// on PATH
func (c *Checker) CheckExecutable(executable string) error {
	argv, err := execution.Split(executable)
	if err != nil {
		return err
	}
	if len(argv) == 0 {
		return errors.New(errors.ErrBadCommand, "executable is empty")
	}
	found, err := c.exec.LookPath(argv[0])
	if err != nil {
		return errors.Wrapf(err, errors.ErrExecutableMissing,
			"Please set up `%s` for command-line use on your system", executable).
			WithDetail("executable", executable)
	}
	c.logger.Debug().Str("executable", executable).Str("path", found).Msg("executable found")
	return nil
}

// CheckSoftware checks git-lfs when the project requires it, then every
// application listed in software_required. User executables take
// precedence over the defaults.
func (c *Checker) CheckSoftware(project *config.ProjectConfig, user *config.UserConfig) error {
	table := c.table
	if user != nil {
		table = table.WithExecutables(user.Local.Executables)
	}

	if project.GitLFSRequired {
		if err := c.CheckExecutable(table.Tool(GitLFS)); err != nil {
			return err
		}
	}
	for _, name := range project.RequiredSoftware() {
		executable := table.Tool(name)
		if app, err := programs.ParseApplication(name); err == nil {
			executable = table.Executable(app, c.osName)
		}
		if err := c.CheckExecutable(executable); err != nil {
			return err
		}
	}
	return nil
}

// CheckExternalPaths fails on the first external path that does not exist
func (c *Checker) CheckExternalPaths(user *config.UserConfig) error {
	names := make([]string, 0, len(user.External))
	for name := range user.External {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := paths.ExpandHome(user.External[name])
		if !filesystem.Exists(c.fs, path) {
			return errors.Newf(errors.ErrNotFound,
				"Path `%s` listed in `config_user.yaml` but cannot be found", user.External[name]).
				WithDetail("name", name)
		}
	}
	return nil
}

// EnsureUserConfig writes the user configuration template at path unless
// a file already exists there. It reports whether the file was created.
func (c *Checker) EnsureUserConfig(path string) (bool, error) {
	if filesystem.Exists(c.fs, path) {
		return false, nil
	}
	if err := config.WriteUserTemplate(c.fs, path, c.table, c.osName); err != nil {
		return false, err
	}
	c.printer.Warning("Created `%s` from the template. Review it before building.", path)
	return true, nil
}

// Configuration runs every check for a repository: it creates the user
// configuration when missing, loads both configuration files, then
// checks software and external paths.
func (c *Checker) Configuration(projectPath, userPath string) error {
	done := logging.LogOperationStart(c.logger, "check_setup")
	defer done()

	if _, err := c.EnsureUserConfig(userPath); err != nil {
		return err
	}
	project, err := config.LoadProjectConfig(projectPath)
	if err != nil {
		return err
	}
	user, err := config.LoadUserConfig(userPath)
	if err != nil {
		return err
	}
	if err := c.CheckSoftware(project, user); err != nil {
		return err
	}
	if err := c.CheckExternalPaths(user); err != nil {
		return err
	}
	c.printer.Success("SUCCESS! Setup complete.")
	return nil
}
