package linker

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/gsmake/pkg/directive"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/style"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Linker turns instruction files into links or copies
type Linker struct {
	fs      afero.Fs
	runner  execution.Runner
	osName  paths.OS
	workDir string
	printer *style.Printer
	logger  zerolog.Logger
}

// Option customizes a Linker
type Option func(*Linker)

// WithFS sets the filesystem used to inspect sources and destinations
func WithFS(fsys afero.Fs) Option {
	return func(l *Linker) { l.fs = fsys }
}

// WithOS forces the command family
func WithOS(osName paths.OS) Option {
	return func(l *Linker) { l.osName = osName }
}

// WithPrinter sets where status lines are printed
func WithPrinter(p *style.Printer) Option {
	return func(l *Linker) { l.printer = p }
}

// New creates a Linker. Relative paths resolve against workDir.
func New(runner execution.Runner, workDir string, opts ...Option) *Linker {
	l := &Linker{
		fs:      filesystem.NewOS(),
		runner:  runner,
		osName:  paths.CurrentOS(),
		workDir: workDir,
		printer: style.Discard(),
		logger:  logging.GetLogger("linker"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve parses the instruction files and expands them into pairs with
// destinations under moveDir.
func (l *Linker) Resolve(files []string, moveDir string, mapping map[string]string) ([]directive.Directive, directive.Map, error) {
	directives, err := directive.NewParser(l.fs, l.workDir).ParseFiles(files, moveDir, mapping)
	if err != nil {
		return nil, nil, err
	}
	pairs, err := directive.ExpandAll(l.fs, directives)
	if err != nil {
		return nil, nil, err
	}
	return directives, pairs, nil
}

// Apply realizes every pair in order. moveDir is created first.
func (l *Linker) Apply(ctx context.Context, pairs directive.Map, moveDir string, mode Mode) error {
	moveDir = paths.NormPathIn(l.workDir, moveDir)
	if err := l.fs.MkdirAll(moveDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory `%s`", moveDir)
	}

	for _, pair := range pairs {
		if err := l.applyPair(ctx, pair, mode); err != nil {
			return err
		}
	}

	l.logger.Debug().
		Str("mode", mode.String()).
		Int("pairs", len(pairs)).
		Str("moveDir", moveDir).
		Msg("Applied directives")
	return nil
}

func (l *Linker) applyPair(ctx context.Context, pair directive.Pair, mode Mode) error {
	srcIsDir := filesystem.IsDir(l.fs, pair.Source)

	if err := l.clearDestination(pair, mode, srcIsDir); err != nil {
		return err
	}
	if err := l.fs.MkdirAll(filepath.Dir(pair.Destination), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for `%s`", pair.Destination)
	}

	cmd := BuildCommand(l.osName, mode, pair.Source, pair.Destination, srcIsDir)
	res, err := l.runner.Run(ctx, cmd)
	if err != nil {
		return err
	}
	if res.Failed() {
		return errors.Newf(errors.ErrMoveCommand,
			"the following command cannot be executed by operating system: `%s`; check permissions and if on Windows, run as administrator",
			cmd.String()).
			WithDetail("exitCode", res.ExitCode).
			WithTrace(res.Stderr)
	}
	return nil
}

// clearDestination removes a destination that holds what would be
// created again and rejects anything else.
func (l *Linker) clearDestination(pair directive.Pair, mode Mode, srcIsDir bool) error {
	info, err := filesystem.Lstat(l.fs, pair.Destination)
	if err != nil {
		return nil
	}

	isLink := filesystem.IsSymlink(l.fs, pair.Destination)
	replaceable := false
	switch mode {
	case ModeLink:
		replaceable = isLink
	case ModeCopy:
		replaceable = !isLink && info.IsDir() == srcIsDir
	}

	if !replaceable {
		return errors.Newf(errors.ErrDestConflict,
			"destination `%s` already exists and is not a %s of the same kind as `%s`",
			pair.Destination, mode, pair.Source).
			WithDetail("destination", pair.Destination).
			WithDetail("source", pair.Source)
	}

	l.logger.Debug().Str("destination", pair.Destination).Msg("Replacing existing destination")
	if err := l.fs.RemoveAll(pair.Destination); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot replace `%s`", pair.Destination)
	}
	return nil
}
