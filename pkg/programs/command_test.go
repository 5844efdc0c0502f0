package programs

import (
	"testing"

	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/stretchr/testify/assert"
)

func directiveFor(app Application, program string) Directive {
	table := builtin()
	return Directive{
		App:        app,
		OS:         paths.OSPosix,
		WorkDir:    "/work",
		Program:    program,
		Name:       "prog",
		Executable: table.Executable(app, paths.OSPosix),
		Option:     table.Option(app, paths.OSPosix),
	}
}

func TestCommandArgv(t *testing.T) {
	tests := []struct {
		name  string
		d     func() Directive
		argv  []string
		stdin string
	}{
		{
			name: "python with args",
			d: func() Directive {
				d := directiveFor(Python, "/work/prog.py")
				d.Args = `--seed 42 "two words"`
				return d
			},
			argv: []string{"python", "/work/prog.py", "--seed", "42", "two words"},
		},
		{
			name: "r",
			d: func() Directive {
				d := directiveFor(R, "/work/prog.R")
				d.Args = "a"
				return d
			},
			argv: []string{"Rscript", "--no-save", "/work/prog.R", "a"},
		},
		{
			name: "stata",
			d:    func() Directive { return directiveFor(Stata, "/work/prog.do") },
			argv: []string{"stata-mp", "-e", "do", "/work/prog.do"},
		},
		{
			name: "stata with blank in path",
			d:    func() Directive { return directiveFor(Stata, "/work/my prog.do") },
			argv: []string{"stata-mp", "-e", "do", `"/work/my prog.do"`},
		},
		{
			name: "matlab",
			d:    func() Directive { return directiveFor(Matlab, "/work/prog.m") },
			argv: []string{"matlab", "-nosplash", "-nodesktop", "-r",
				"try run('/work/prog.m'); catch e, fprintf(getReport(e)), exit(1); end; exit(0)",
				"-logfile", "prog.log"},
		},
		{
			name: "sas",
			d:    func() Directive { return directiveFor(SAS, "/work/prog.sas") },
			argv: []string{"sas", "-log", "-print", "/work/prog.sas"},
		},
		{
			name:  "mathematica",
			d:     func() Directive { return directiveFor(Mathematica, "/work/prog.m") },
			argv:  []string{"math", "-noprompt"},
			stdin: "/work/prog.m",
		},
		{
			name: "stat transfer",
			d:    func() Directive { return directiveFor(StatTransfer, "/work/prog.stc") },
			argv: []string{"st", "/work/prog.stc"},
		},
		{
			name: "lyx",
			d:    func() Directive { return directiveFor(LyX, "/work/prog.lyx") },
			argv: []string{"lyx", "-e", "pdf2", "/work/prog.lyx"},
		},
		{
			name: "jupyter defaults",
			d:    func() Directive { return directiveFor(Jupyter, "/work/prog.ipynb") },
			argv: []string{"python", "-m", "jupyter", "nbconvert", "--ExecutePreprocessor.timeout=-1",
				"--to", "notebook", "--inplace", "--execute", "/work/prog.ipynb"},
		},
		{
			name: "jupyter timeout and kernel",
			d: func() Directive {
				d := directiveFor(Jupyter, "/work/prog.ipynb")
				d.Timeout = 600
				d.Kernel = "python3"
				return d
			},
			argv: []string{"python", "-m", "jupyter", "nbconvert", "--ExecutePreprocessor.timeout=600",
				"--ExecutePreprocessor.kernel_name=python3",
				"--to", "notebook", "--inplace", "--execute", "/work/prog.ipynb"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.d().Command()
			assert.Equal(t, tt.argv, cmd.Argv())
			assert.Equal(t, tt.stdin, cmd.Stdin)
			assert.Equal(t, "/work", cmd.Dir)
		})
	}
}

func TestCommandForReplacesProgram(t *testing.T) {
	d := directiveFor(LyX, "/work/prog.lyx")
	cmd := d.CommandFor("/work/prog_handout.lyx")
	assert.Equal(t, []string{"lyx", "-e", "pdf2", "/work/prog_handout.lyx"}, cmd.Argv())
}

func TestMatlabScriptEscapesQuotes(t *testing.T) {
	assert.Contains(t, matlabScript("/work/it's.m"), "run('/work/it''s.m')")
}
