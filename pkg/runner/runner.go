package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/arthur-debert/gsmake/pkg/style"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Runner runs programs through their applications
type Runner struct {
	fs       afero.Fs
	exec     execution.Runner
	resolver *programs.Resolver
	printer  *style.Printer
	logger   zerolog.Logger
}

// Option customizes a Runner
type Option func(*Runner)

// WithFS sets the filesystem holding side-effect logs and LyX outputs
func WithFS(fsys afero.Fs) Option {
	return func(r *Runner) { r.fs = fsys }
}

// WithPrinter sets where status lines are printed
func WithPrinter(p *style.Printer) Option {
	return func(r *Runner) { r.printer = p }
}

// New creates a Runner
func New(exec execution.Runner, resolver *programs.Resolver, opts ...Option) *Runner {
	r := &Runner{
		fs:       filesystem.NewOS(),
		exec:     exec,
		resolver: resolver,
		printer:  style.Discard(),
		logger:   logging.GetLogger("runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run resolves req and runs the program. LyX needs output_dir in p.
func (r *Runner) Run(ctx context.Context, log *makelog.Session, p paths.Paths, req programs.Request) error {
	name := "run_" + string(req.App)
	done := logging.LogOperationStart(r.logger, name)
	defer done()

	err := r.run(ctx, log, p, req)
	if err != nil && !errors.IsErrorCode(err, errors.ErrProgramFailed) {
		r.printer.Failure("Error with `%s`", name)
	}
	return log.LogError(err)
}

func (r *Runner) run(ctx context.Context, log *makelog.Session, p paths.Paths, req programs.Request) error {
	d, err := r.resolver.Resolve(req)
	if err != nil {
		return err
	}
	for _, w := range d.Warnings {
		r.printer.Warning(w)
		if err := log.Write(w); err != nil {
			return err
		}
	}

	switch d.App {
	case programs.Stata:
		return r.runStata(ctx, log, d)
	case programs.Matlab:
		return r.runWithSideLog(ctx, log, d, d.OutputFile(".log"), d.Log)
	case programs.SAS:
		return r.runSAS(ctx, log, d)
	case programs.LyX:
		return r.runLyX(ctx, log, p, d)
	case programs.Jupyter:
		msg := fmt.Sprintf("Processing notebook: `%s`", d.Program)
		r.printer.InProcess(msg)
		if err := log.Write(msg); err != nil {
			return err
		}
		return r.runLogged(ctx, log, d, d.Command())
	default:
		return r.runLogged(ctx, log, d, d.Command())
	}
}

// runLogged runs cmd and writes its console output to the makelog and
// to the directive's log
func (r *Runner) runLogged(ctx context.Context, log *makelog.Session, d programs.Directive, cmd execution.Command) error {
	output, res, err := r.execute(ctx, cmd)
	if err != nil {
		return err
	}
	if err := writeOutput(r.fs, log, d.Log, output); err != nil {
		return err
	}
	return programFailure(d.App.Title()+" program", res)
}

func (r *Runner) runWithSideLog(ctx context.Context, log *makelog.Session, d programs.Directive, sideLog, dest string) error {
	output, res, err := r.execute(ctx, d.Command())
	if err != nil {
		return err
	}
	if err := log.Write(output); err != nil {
		return err
	}
	if err := programFailure(d.App.Title()+" program", res); err != nil {
		return err
	}
	_, err = r.moveProgramOutput(log, d, sideLog, dest)
	return err
}

// execute checks the executable, prints the command and runs it. The
// returned output starts with the command line followed by what the
// process printed.
func (r *Runner) execute(ctx context.Context, cmd execution.Command) (string, execution.Result, error) {
	if err := r.CheckExecutable(cmd.Name); err != nil {
		return "", execution.Result{}, err
	}

	output := fmt.Sprintf("Executing command: `%s`", cmd.String())
	r.printer.InProcess(output)

	res, err := r.exec.Run(ctx, cmd)
	if err != nil {
		return "", res, err
	}
	if res.Stdout != "" {
		output += "\n" + strings.TrimRight(res.Stdout, "\n")
	}
	if res.Stderr != "" {
		output += "\n" + strings.TrimRight(res.Stderr, "\n")
	}
	r.logger.Debug().
		Str("command", cmd.Name).
		Int("exitCode", res.ExitCode).
		Dur("duration", res.Duration).
		Msg("Command finished")
	return output, res, nil
}

// CheckExecutable fails unless name resolves to an installed executable
func (r *Runner) CheckExecutable(name string) error {
	if name == "" {
		return errors.New(errors.ErrBadCommand, "command has no executable")
	}
	if _, err := r.exec.LookPath(name); err != nil {
		return errors.Wrapf(err, errors.ErrExecutableMissing,
			"Please set up `%s` for command-line use on your system", name).
			WithDetail("executable", name)
	}
	return nil
}

func programFailure(what string, res execution.Result) error {
	if !res.Failed() {
		return nil
	}
	return errors.Newf(errors.ErrProgramFailed, "%s executed with errors", what).
		WithDetail("exitCode", res.ExitCode).
		WithTrace(res.Stderr)
}

func writeOutput(fsys afero.Fs, log *makelog.Session, logPath, output string) error {
	if err := log.Write(output); err != nil {
		return err
	}
	if logPath == "" {
		return nil
	}
	if err := fsys.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for log `%s`", logPath)
	}
	if err := afero.WriteFile(fsys, logPath, []byte(output+"\n"), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write log `%s`", logPath)
	}
	return nil
}
