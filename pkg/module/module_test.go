package module

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/gsmake/pkg/config"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/arthur-debert/gsmake/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	repo   = "/repo"
	module = "/repo/analysis"
)

type fixture struct {
	fs      afero.Fs
	exec    *testutil.MockRunner
	builder *Builder
	order   []string
	cmds    []execution.Command
}

func newFixture(t *testing.T, settings *config.Settings) *fixture {
	t.Helper()
	fsys := filesystem.NewMemory()
	testutil.WriteFiles(t, fsys, repo, map[string]string{
		"raw/data.csv":              "a,b\n1,2\n",
		"analysis/inputs.txt":       "# inputs\ndata.csv | {root}/raw/data.csv\n",
		"analysis/code/describe.py": "print('ok')\n",
		"analysis/input/stale.csv":  "old\n",
		"analysis/output/old.txt":   "old\n",
	})
	if settings == nil {
		settings = &config.Settings{LogDepth: paths.Unlimited, HeadLines: 10}
	}

	f := &fixture{fs: fsys, exec: &testutil.MockRunner{}}
	f.exec.OnLookPathAll()
	table, err := programs.Default()
	require.NoError(t, err)
	f.builder = New(f.exec, table, settings,
		WithFS(fsys), WithOS(paths.OSPosix), WithRoot(repo))
	return f
}

// on answers Run calls for the named executable with fn and records the
// order in which executables ran
func (f *fixture) on(name string, fn func(execution.Command) execution.Result) {
	f.exec.On("Run", mock.Anything, testutil.CommandNamed(name)).
		Return(func(c execution.Command) execution.Result {
			f.order = append(f.order, c.Name)
			f.cmds = append(f.cmds, c)
			return fn(c)
		}, nil)
}

func (f *fixture) read(t *testing.T, name string) string {
	t.Helper()
	data, err := afero.ReadFile(f.fs, filepath.Join(module, name))
	require.NoError(t, err)
	return string(data)
}

func manifest() *config.Manifest {
	return &config.Manifest{
		Dir: module,
		Paths: map[string]string{
			"makelog":          "log/make.log",
			"output_dir":       "output",
			"output_stats_log": "log/output_stats.log",
			"link_stats_log":   "log/link_stats.log",
			"link_map_log":     "log/link_map.log",
		},
		Remove:     []string{"input"},
		Clear:      []string{"output", "log"},
		Link:       config.Sources{Inputs: []string{"inputs.txt"}},
		SourceLogs: true,
		LogOutputs: true,
		Programs: []config.Step{
			{App: "python", Program: "code/describe.py"},
			{Command: "echo done", Log: "log/echo.log"},
		},
	}
}

func TestRunBuildsInOrder(t *testing.T) {
	f := newFixture(t, nil)
	f.on("ln", func(execution.Command) execution.Result { return execution.Result{} })
	f.on("python", func(execution.Command) execution.Result {
		_ = afero.WriteFile(f.fs, filepath.Join(module, "output", "table.txt"), []byte("x\n"), 0644)
		return execution.Result{Stdout: "ok\n"}
	})
	f.on("sh", func(execution.Command) execution.Result { return execution.Result{Stdout: "done\n"} })

	require.NoError(t, f.builder.Run(context.Background(), manifest()))
	assert.Equal(t, []string{"ln", "python", "sh"}, f.order)

	assert.Equal(t, []string{"ln", "-s", "/repo/raw/data.csv", "/repo/analysis/input/data.csv"}, f.cmds[0].Argv())
	assert.Equal(t, module, f.cmds[2].Dir)

	exists, err := afero.Exists(f.fs, filepath.Join(module, "input", "stale.csv"))
	require.NoError(t, err)
	assert.False(t, exists, "input is removed before linking")

	log := f.read(t, "log/make.log")
	assert.Contains(t, log, "Makelog started: ")
	assert.Contains(t, log, "Executing command: `python /repo/analysis/code/describe.py`\nok")
	assert.Contains(t, log, "Executing command: `sh -c \"echo done\"`\ndone")
	assert.Contains(t, log, "Output logs successfully written!")
	assert.Contains(t, log, "Makelog ended: ")

	assert.Contains(t, f.read(t, "log/link_map.log"), "destination | source")
	assert.Contains(t, f.read(t, "log/link_stats.log"), "data.csv")
	assert.Contains(t, f.read(t, "log/echo.log"), "done")

	stats := f.read(t, "log/output_stats.log")
	assert.Contains(t, stats, "table.txt")
	assert.NotContains(t, stats, "old.txt")
}

func TestRunWritesInputAndExternalLogs(t *testing.T) {
	f := newFixture(t, nil)
	testutil.WriteFiles(t, f.fs, repo, map[string]string{
		"shared/codes.csv":       "code\n",
		"analysis/externals.txt": "codes.csv | {root}/shared/codes.csv\n",
	})
	f.on("ln", func(execution.Command) execution.Result { return execution.Result{} })

	m := &config.Manifest{
		Dir: module,
		Paths: map[string]string{
			"makelog":            "log/make.log",
			"input_stats_log":    "log/input_stats.log",
			"external_map_log":   "log/external_map.log",
			"external_heads_log": "log/external_heads.log",
		},
		Link:       config.Sources{Inputs: []string{"inputs.txt"}, Externals: []string{"externals.txt"}},
		SourceLogs: true,
	}
	require.NoError(t, f.builder.Run(context.Background(), m))

	inputStats := f.read(t, "log/input_stats.log")
	assert.Contains(t, inputStats, "data.csv")
	assert.NotContains(t, inputStats, "codes.csv")

	externalMap := f.read(t, "log/external_map.log")
	assert.Contains(t, externalMap, "external/codes.csv | /repo/shared/codes.csv")
	assert.NotContains(t, externalMap, "data.csv")
	assert.Contains(t, f.read(t, "log/external_heads.log"), "code")

	log := f.read(t, "log/make.log")
	assert.Contains(t, log, "Input logs successfully written!")
	assert.Contains(t, log, "External logs successfully written!")
	assert.NotContains(t, log, "Link logs successfully written!")
}

func TestRunStopsAtFailingProgram(t *testing.T) {
	f := newFixture(t, nil)
	f.on("ln", func(execution.Command) execution.Result { return execution.Result{} })
	f.on("python", func(execution.Command) execution.Result {
		return execution.Result{ExitCode: 1, Stderr: "Traceback"}
	})

	err := f.builder.Run(context.Background(), manifest())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProgramFailed))
	assert.Equal(t, []string{"ln", "python"}, f.order)

	log := f.read(t, "log/make.log")
	assert.Contains(t, log, "Traceback")
	assert.NotContains(t, log, "Makelog ended: ")

	exists, err := afero.Exists(f.fs, filepath.Join(module, "log", "output_stats.log"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunAppliesCommandTimeout(t *testing.T) {
	f := newFixture(t, &config.Settings{LogDepth: paths.Unlimited, HeadLines: 10, CommandTimeout: time.Minute})
	var hasDeadline bool
	f.exec.On("Run", mock.Anything, testutil.CommandNamed("sh")).
		Run(func(args mock.Arguments) {
			_, hasDeadline = args.Get(0).(context.Context).Deadline()
		}).
		Return(execution.Result{}, nil)

	m := &config.Manifest{Dir: module, Programs: []config.Step{{Command: "echo hi"}}}
	require.NoError(t, f.builder.Run(context.Background(), m))
	assert.True(t, hasDeadline)
}

func TestRunReportsStepTimeout(t *testing.T) {
	f := newFixture(t, &config.Settings{LogDepth: paths.Unlimited, HeadLines: 10, CommandTimeout: 50 * time.Millisecond})
	f.exec.On("Run", mock.Anything, testutil.CommandNamed("sh")).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(execution.Result{ExitCode: -1, Stderr: "signal: killed"}, nil)

	m := &config.Manifest{
		Dir:      module,
		Paths:    map[string]string{"makelog": "log/make.log"},
		Programs: []config.Step{{Command: "sleep 600"}},
	}
	err := f.builder.Run(context.Background(), m)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTimeout))
	assert.Contains(t, err.Error(), "Step command `sleep 600` timed out after 50ms")
	assert.Contains(t, f.read(t, "log/make.log"), "timed out after 50ms")
}

func TestRunWithoutMakelog(t *testing.T) {
	f := newFixture(t, nil)
	f.on("sh", func(execution.Command) execution.Result { return execution.Result{} })

	m := &config.Manifest{Dir: module, Programs: []config.Step{{Command: "echo hi"}}, LogOutputs: true}
	require.NoError(t, f.builder.Run(context.Background(), m))

	exists, err := afero.Exists(f.fs, filepath.Join(module, "log"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunMissingUserConfig(t *testing.T) {
	f := newFixture(t, nil)
	m := &config.Manifest{
		Dir:   module,
		Paths: map[string]string{"config_user": filepath.Join(t.TempDir(), "config_user.yaml")},
	}

	err := f.builder.Run(context.Background(), m)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	f.exec.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestResolvePaths(t *testing.T) {
	p := ResolvePaths(module, map[string]string{
		"output_dir":       "output/",
		"output_local_dir": "local_a, /abs/local_b",
		"external_dir":     "ext",
	})

	assert.Equal(t, "/repo/analysis/input", p[paths.KeyInputDir])
	assert.Equal(t, "/repo/analysis/ext", p[paths.KeyExternalDir])
	assert.Equal(t, "/repo/analysis/output", p[paths.KeyOutputDir])
	assert.Equal(t, "/repo/analysis/local_a,/abs/local_b", p[paths.KeyOutputLocalDir])
}

func TestDiscover(t *testing.T) {
	fsys := filesystem.NewMemory()
	testutil.WriteFiles(t, fsys, repo, map[string]string{
		"gsmake.yaml":                  "",
		"data/gsmake.yaml":             "",
		"analysis/gsmake.yaml":         "",
		"analysis/code/run.py":         "",
		"paper/slides/gsmake.yaml":     "",
		"lib/vendored/gsmake.yaml":     "",
		".git/hooks/gsmake.yaml":       "",
		"notes/gsmake.yaml.bak":        "",
		"paper/slides/deck/other.yaml": "",
	})

	modules, err := Discover(fsys, repo, "gsmake.yaml", []string{".git", "lib"})
	require.NoError(t, err)
	assert.Equal(t, []string{"analysis", "data", filepath.Join("paper", "slides")}, modules)
}
