package vcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/arthur-debert/gsmake/pkg/directive"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func gitArgs(args ...string) interface{} {
	return mock.MatchedBy(func(c execution.Command) bool {
		return c.Name == "git" && fmt.Sprint(c.Args) == fmt.Sprint(args)
	})
}

func TestParsePorcelain(t *testing.T) {
	out := " M code/a.do\n?? raw/new.csv\nR  old.txt -> moved/new.txt\nA  \"with space.txt\"\n\n"
	assert.Equal(t, []string{"code/a.do", "raw/new.csv", "moved/new.txt", "with space.txt"}, ParsePorcelain(out))
}

func TestModifiedWarningTruncates(t *testing.T) {
	files := make([]string, MaxListed+5)
	for i := range files {
		files[i] = fmt.Sprintf("f%03d", i)
	}
	msg := ModifiedWarning(files)
	assert.Contains(t, msg, "f099")
	assert.NotContains(t, msg, "f100")
	assert.Contains(t, msg, "and more (file list truncated due to length)")
}

func TestCheckModified(t *testing.T) {
	fsys := filesystem.NewMemory()
	testutil.WriteFiles(t, fsys, "/repo", map[string]string{
		"raw/a.csv":     "",
		"raw/dir/b.csv": "",
		"raw/c.csv":     "",
	})
	log := makelog.New(fsys, "/repo/module/log/make.log", "/repo/module")
	require.NoError(t, log.Start())

	runner := &testutil.MockRunner{}
	runner.On("Run", mock.Anything, gitArgs("rev-parse", "--show-toplevel")).
		Return(execution.Result{Stdout: "/repo\n"}, nil)
	runner.On("Run", mock.Anything, gitArgs("status", "--porcelain")).
		Return(execution.Result{Stdout: " M raw/dir/b.csv\n M other/x.txt\n"}, nil)

	checker := New(fsys, runner, "/repo/module")
	pairs := directive.Map{
		{Source: "/repo/raw/a.csv", Destination: "/repo/module/input/a.csv"},
		{Source: "/repo/raw/dir", Destination: "/repo/module/input/dir"},
	}

	modified, err := checker.CheckModified(context.Background(), log, pairs, paths.Unlimited)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("/repo", "raw", "dir", "b.csv")}, modified)

	data, err := afero.ReadFile(fsys, log.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "WARNING! The following target files have been modified according to git status:\n/repo/raw/dir/b.csv")
}

func TestCheckModifiedOutsideRepository(t *testing.T) {
	fsys := filesystem.NewMemory()
	log := makelog.New(fsys, "/tmp/make.log", "/tmp")
	require.NoError(t, log.Start())

	runner := &testutil.MockRunner{}
	runner.On("Run", mock.Anything, gitArgs("rev-parse", "--show-toplevel")).
		Return(execution.Result{ExitCode: 128, Stderr: "fatal: not a git repository"}, nil)

	_, err := New(fsys, runner, "/tmp").CheckModified(context.Background(), log, directive.Map{}, paths.Unlimited)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Contains(t, err.Error(), "not part of a git repository")
}

func TestCheckModifiedThroughSymlinkedDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	realRoot := testutil.TempTree(t, map[string]string{"raw/src.txt": "changed"})
	link := filepath.Join(t.TempDir(), "link")
	require.NoError(t, os.Symlink(realRoot, link))

	fsys := filesystem.NewOS()
	log := makelog.New(fsys, filepath.Join(link, "module", "log", "make.log"), filepath.Join(link, "module"))
	require.NoError(t, log.Start())

	runner := &testutil.MockRunner{}
	runner.On("Run", mock.Anything, gitArgs("rev-parse", "--show-toplevel")).
		Return(execution.Result{Stdout: realRoot + "\n"}, nil)
	runner.On("Run", mock.Anything, gitArgs("status", "--porcelain")).
		Return(execution.Result{Stdout: " M raw/src.txt\n"}, nil)

	source := filepath.Join(link, "raw", "src.txt")
	pairs := directive.Map{{Source: source, Destination: filepath.Join(link, "module", "input", "src.txt")}}

	modified, err := New(fsys, runner, filepath.Join(link, "module")).
		CheckModified(context.Background(), log, pairs, paths.Unlimited)
	require.NoError(t, err)
	assert.Equal(t, []string{source}, modified)
}
