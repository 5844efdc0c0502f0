package programs

import (
	"testing"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// builtin is the embedded table; tests treat a broken one as fatal
func builtin() *Table {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	assert.Equal(t, Applications(), table.Applications())

	tests := []struct {
		app    Application
		osName paths.OS
		exe    string
		option string
	}{
		{Stata, paths.OSPosix, "stata-mp", "-e"},
		{Stata, paths.OSNT, "StataMP-64", "/e"},
		{Matlab, paths.OSPosix, "matlab", "-nosplash -nodesktop"},
		{Matlab, paths.OSNT, "matlab", "-nosplash -minimize -wait"},
		{SAS, paths.OSNT, "sas", "-nosplash"},
		{R, paths.OSPosix, "Rscript", "--no-save"},
		{Jupyter, paths.OSPosix, "python -m jupyter", "--to notebook --inplace --execute"},
		{LyX, paths.OSPosix, "lyx", "-e pdf2"},
		{Mathematica, paths.OSPosix, "math", "-noprompt"},
		{StatTransfer, paths.OSPosix, "st", ""},
		{Python, paths.OSNT, "python", ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.app)+"/"+string(tt.osName), func(t *testing.T) {
			assert.Equal(t, tt.exe, table.Executable(tt.app, tt.osName))
			assert.Equal(t, tt.option, table.Option(tt.app, tt.osName))
		})
	}

	spec, ok := table.Spec(R)
	require.True(t, ok)
	assert.True(t, spec.Allows(".R"))
	assert.True(t, spec.Allows(".r"))
	assert.False(t, spec.Allows(".py"))

	assert.Equal(t, "git-lfs", table.Tool("git-lfs"))
	assert.Equal(t, "unknown-tool", table.Tool("unknown-tool"))
}

func TestWithExecutablesLeavesOriginal(t *testing.T) {
	table := builtin()

	custom := table.WithExecutables(map[string]string{
		"stata":   "/opt/stata/stata-se",
		"math":    "wolframscript",
		"git-lfs": "/usr/local/bin/git-lfs",
		"python":  "  ",
	})

	assert.Equal(t, "/opt/stata/stata-se", custom.Executable(Stata, paths.OSPosix))
	assert.Equal(t, "/opt/stata/stata-se", custom.Executable(Stata, paths.OSNT))
	assert.Equal(t, "wolframscript", custom.Executable(Mathematica, paths.OSPosix))
	assert.Equal(t, "/usr/local/bin/git-lfs", custom.Tool("git-lfs"))
	assert.Equal(t, "python", custom.Executable(Python, paths.OSPosix))

	assert.Equal(t, "stata-mp", table.Executable(Stata, paths.OSPosix))
	assert.Equal(t, "git-lfs", table.Tool("git-lfs"))
}

func TestLoadRejectsUnknownApplication(t *testing.T) {
	_, err := Load([]byte("[apps.cobol]\nextensions = [\".cbl\"]\n"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadRejectsBadTOML(t *testing.T) {
	_, err := Load([]byte("[apps"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestRender(t *testing.T) {
	table := builtin().WithExecutables(map[string]string{"stata": "stata-se"})

	out, err := table.Render(paths.OSNT)
	require.NoError(t, err)

	text := string(out)
	assert.Regexp(t, `os = ['"]nt['"]`, text)
	assert.Contains(t, text, "stata-se")
	assert.Contains(t, text, "-nosplash -minimize -wait")
	assert.Contains(t, text, "git-lfs")
}

func TestParseApplication(t *testing.T) {
	tests := []struct {
		in   string
		want Application
	}{
		{"stata", Stata},
		{"Stata", Stata},
		{"math", Mathematica},
		{"st", StatTransfer},
		{"stat_transfer", StatTransfer},
		{" r ", R},
	}
	for _, tt := range tests {
		got, err := ParseApplication(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseApplication("fortran")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownApp))
	assert.Contains(t, err.Error(), "stata")
}

func TestApplicationTitle(t *testing.T) {
	assert.Equal(t, "Stata", Stata.Title())
	assert.Equal(t, "LyX", LyX.Title())
	assert.Equal(t, "SAS", SAS.Title())
}
