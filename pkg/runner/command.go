package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
)

// ManifestName is the module manifest RunModule looks for
const ManifestName = "gsmake.yaml"

// ExecuteCommand runs an arbitrary command line in dir through the
// platform shell, so redirects, pipes and variables work as typed. The
// output goes to the makelog and to logPath when set.
func (r *Runner) ExecuteCommand(ctx context.Context, log *makelog.Session, dir, line, logPath string) error {
	done := logging.LogOperationStart(r.logger, "execute_command")
	defer done()

	err := r.executeCommand(ctx, log, dir, line, logPath)
	if err != nil && !errors.IsErrorCode(err, errors.ErrProgramFailed) {
		r.printer.Failure("Error with `execute_command`")
	}
	return log.LogError(err)
}

func (r *Runner) executeCommand(ctx context.Context, log *makelog.Session, dir, line, logPath string) error {
	if strings.TrimSpace(line) == "" {
		return errors.Newf(errors.ErrBadCommand, "The following shell command could not be executed: `%s`", line)
	}
	cmd := ShellCommand(r.resolver.OS(), line, dir)

	output, res, err := r.execute(ctx, cmd)
	if err != nil {
		return err
	}
	if err := writeOutput(r.fs, log, paths.NormPathIn(dir, logPath), output); err != nil {
		return err
	}
	return programFailure("Command", res)
}

// ShellCommand wraps line so the shell of osName interprets it
func ShellCommand(osName paths.OS, line, dir string) execution.Command {
	if osName == paths.OSNT {
		return execution.Command{Name: "cmd", Args: []string{"/C", line}, Dir: dir}
	}
	return execution.Command{Name: "sh", Args: []string{"-c", line}, Dir: dir}
}

// Module identifies a module directory below a repository root
type Module struct {
	Root string
	Name string
	// Script overrides the build. Python scripts run through the python
	// executable, anything else is executed directly. When empty the
	// module's manifest is built with self.
	Script string
}

// Dir is the module directory
func (m Module) Dir() string {
	return paths.NormPathIn(m.Root, m.Name)
}

// RunModule builds a module in its own directory. self is the argv that
// builds a manifest, usually this binary followed by "run".
func (r *Runner) RunModule(ctx context.Context, m Module, self []string) error {
	done := logging.LogOperationStart(r.logger, "run_module")
	defer done()

	dir := m.Dir()
	argv, err := r.moduleArgv(m, dir, self)
	if err != nil {
		r.printer.Failure("Error with `run_module`")
		return err
	}

	r.printer.Plain("\n%s", makelog.StarLine)
	r.printer.InProcess("Running module `%s`", m.Name)
	r.printer.Plain("%s", makelog.StarLine)

	cmd := execution.Command{Name: argv[0], Args: argv[1:], Dir: dir}
	if err := r.CheckExecutable(cmd.Name); err != nil {
		r.printer.Failure("Error with `run_module`")
		return err
	}
	res, err := r.exec.Run(ctx, cmd)
	if err != nil {
		r.printer.Failure("Error with `run_module`")
		return err
	}
	if out := strings.TrimRight(res.Combined, "\n"); out != "" {
		r.printer.Plain("%s", out)
	}
	if res.Failed() {
		return errors.Newf(errors.ErrProgramFailed, "Module `%s` executed with errors", m.Name).
			WithDetail("module", m.Name).
			WithDetail("exitCode", res.ExitCode).
			WithTrace(res.Stderr)
	}
	return nil
}

func (r *Runner) moduleArgv(m Module, dir string, self []string) ([]string, error) {
	if !filesystem.IsDir(r.fs, dir) {
		return nil, errors.Newf(errors.ErrNotFound, "File `%s` cannot be found", dir)
	}

	if m.Script == "" {
		manifest := filepath.Join(dir, ManifestName)
		if !filesystem.Exists(r.fs, manifest) {
			return nil, errors.Newf(errors.ErrNotFound, "File `%s` cannot be found", manifest)
		}
		if len(self) == 0 {
			exe, err := os.Executable()
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrInternal, "cannot locate the gsmake executable")
			}
			self = []string{exe, "run"}
		}
		return self, nil
	}

	script := paths.NormPathIn(dir, m.Script)
	if !filesystem.Exists(r.fs, script) {
		return nil, errors.Newf(errors.ErrNotFound, "File `%s` cannot be found", script)
	}
	if filepath.Ext(script) == ".py" {
		table := r.resolver.Table()
		python, err := execution.Split(table.Executable(programs.Python, r.resolver.OS()))
		if err != nil {
			return nil, err
		}
		return append(python, script), nil
	}
	return []string{script}, nil
}
