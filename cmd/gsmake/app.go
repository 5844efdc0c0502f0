package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/gsmake/pkg/cobrax/topics"
	"github.com/arthur-debert/gsmake/pkg/config"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/arthur-debert/gsmake/pkg/style"
	"github.com/arthur-debert/gsmake/pkg/ui"
	"github.com/arthur-debert/gsmake/pkg/vcs"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// app carries what every command shares. It is filled in by the root
// command before a subcommand runs.
type app struct {
	exec execution.Runner
	fs   afero.Fs
	out  io.Writer

	verbosity int
	format    string
	root      string

	settings *config.Settings
	table    *programs.Table
	printer  *style.Printer
	help     *topics.Markdown
	logger   zerolog.Logger
}

func newApp() *app {
	return &app{
		exec: execution.NewOSRunner(),
		fs:   filesystem.NewOS(),
		out:  os.Stdout,
	}
}

// setup loads settings and the application table. overrides hold flags
// set on the command line.
func (a *app) setup(overrides map[string]interface{}) error {
	logging.SetupLogger(a.verbosity)
	a.logger = logging.GetLogger("cmd")

	settings, err := config.LoadSettings(overrides)
	if err != nil {
		return err
	}
	format, err := ui.ParseFormat(settings.Format)
	if err != nil {
		return err
	}
	table, err := programs.Default()
	if err != nil {
		return err
	}

	a.settings = settings
	a.table = table
	a.printer = style.NewPrinter(a.out, format)
	if a.help != nil {
		a.help.Configure(format.Resolve(a.out))
	}
	return nil
}

// repoRoot returns --root, else the git top level of dir, else dir
func (a *app) repoRoot(ctx context.Context, dir string) string {
	if a.root != "" {
		return paths.NormPath(a.root)
	}
	root, err := vcs.New(a.fs, a.exec, dir).Root(ctx)
	if err != nil {
		a.logger.Debug().Err(err).Str("dir", dir).Msg("Not in a git repository, using directory as root")
		return dir
	}
	return root
}

// userTable applies the executables of the root's user configuration, when
// there is one, and returns the configuration
func (a *app) userTable(root string) (*programs.Table, *config.UserConfig, error) {
	path := filepath.Join(root, a.settings.UserConfig)
	if !filesystem.Exists(a.fs, path) {
		return a.table, nil, nil
	}
	user, err := config.LoadUserConfig(path)
	if err != nil {
		return nil, nil, err
	}
	return a.table.WithExecutables(user.Local.Executables), user, nil
}

// session starts a makelog at path, or returns a disabled one
func (a *app) session(path, workDir string) (*makelog.Session, error) {
	if path == "" {
		log := makelog.Disabled()
		return log, log.Start()
	}
	log := makelog.New(a.fs, paths.NormPathIn(workDir, path), workDir)
	return log, log.Start()
}

// finish ends log unless err is set, and returns err
func finish(log *makelog.Session, err error) error {
	if err != nil {
		return err
	}
	return log.End()
}

func absDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs := paths.NormPath(dir)
	if abs == "" {
		return "", errors.Newf(errors.ErrInvalidInput, "invalid directory `%s`", dir)
	}
	return abs, nil
}
