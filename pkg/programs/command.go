package programs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/execution"
)

// Command builds the invocation that runs the program
func (d Directive) Command() execution.Command {
	return d.CommandFor(d.Program)
}

// CommandFor builds the invocation running program instead of the
// directive's own program. LyX uses it for edited temporary copies.
func (d Directive) CommandFor(program string) execution.Command {
	exe := words(d.Executable)
	cmd := execution.Command{Dir: d.WorkDir}
	if len(exe) > 0 {
		cmd.Name = exe[0]
		cmd.Args = append(cmd.Args, exe[1:]...)
	}

	option := words(d.Option)
	args := words(d.Args)

	switch d.App {
	case Jupyter:
		timeout := -1
		if d.Timeout > 0 {
			timeout = d.Timeout
		}
		cmd.Args = append(cmd.Args, "nbconvert", "--ExecutePreprocessor.timeout="+strconv.Itoa(timeout))
		if d.Kernel != "" {
			cmd.Args = append(cmd.Args, "--ExecutePreprocessor.kernel_name="+d.Kernel)
		}
		cmd.Args = append(cmd.Args, option...)
		cmd.Args = append(cmd.Args, program)
	case LyX:
		cmd.Args = append(cmd.Args, option...)
		cmd.Args = append(cmd.Args, program)
	case Mathematica:
		cmd.Args = append(cmd.Args, option...)
		cmd.Stdin = program
	case Matlab:
		cmd.Args = append(cmd.Args, option...)
		cmd.Args = append(cmd.Args,
			"-r", matlabScript(program),
			"-logfile", d.Name+".log")
	case SAS:
		cmd.Args = append(cmd.Args, option...)
		cmd.Args = append(cmd.Args, "-log", "-print", program)
	case StatTransfer:
		cmd.Args = append(cmd.Args, program)
	case Stata:
		cmd.Args = append(cmd.Args, option...)
		cmd.Args = append(cmd.Args, "do", stataPath(program))
		cmd.Args = append(cmd.Args, args...)
	default:
		// perl, python, r
		cmd.Args = append(cmd.Args, option...)
		cmd.Args = append(cmd.Args, program)
		cmd.Args = append(cmd.Args, args...)
	}
	return cmd
}

// words splits a field Resolve has already checked
func words(line string) []string {
	fields, _ := execution.Split(line)
	return fields
}

func matlabScript(program string) string {
	escaped := strings.ReplaceAll(program, "'", "''")
	return fmt.Sprintf("try run('%s'); catch e, fprintf(getReport(e)), exit(1); end; exit(0)", escaped)
}

// Stata reads its argv as a command line, so paths with blanks need
// Stata's own quoting.
func stataPath(program string) string {
	if strings.ContainsAny(program, " \t") {
		return `"` + program + `"`
	}
	return program
}
