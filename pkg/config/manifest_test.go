package config

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullManifest = `
paths:
  config_user: ../config_user.yaml
  output_dir: output
  makelog: log/make.log
  output_stats_log: log/output_stats.log
remove: [input, external]
clear: [output, log]
link:
  inputs: [inputs.txt]
  externals: [externals.txt]
check_modified: true
depth: 2
programs:
  - app: python
    program: code/descriptive.py
    args: --seed 1
  - app: st
    program: code/convert.stc
  - command: echo done
    log: log/echo.log
  - app: lyx
    program: paper/paper.lyx
    doctype: handout
`

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gsmake.yaml", fullManifest)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, dir, m.Dir)
	assert.Equal(t, "log/make.log", m.Paths["makelog"])
	assert.Equal(t, []string{"input", "external"}, m.Remove)
	assert.Equal(t, []string{"output", "log"}, m.Clear)
	assert.Equal(t, []string{"inputs.txt"}, m.Link.Inputs)
	assert.Equal(t, []string{"externals.txt"}, m.Link.Externals)
	assert.True(t, m.Copy.Empty())
	assert.True(t, m.CheckModified)
	assert.True(t, m.SourceLogs)
	assert.True(t, m.LogOutputs)
	require.NotNil(t, m.Depth)
	assert.Equal(t, 2, *m.Depth)

	require.Len(t, m.Programs, 4)
	req, err := m.Programs[0].Request()
	require.NoError(t, err)
	assert.Equal(t, programs.Python, req.App)
	assert.Equal(t, "--seed 1", req.Args)

	req, err = m.Programs[1].Request()
	require.NoError(t, err)
	assert.Equal(t, programs.StatTransfer, req.App)

	assert.True(t, m.Programs[2].IsCommand())
	assert.Equal(t, "command `echo done`", m.Programs[2].String())
	assert.Equal(t, "handout", m.Programs[3].Doctype)

	assert.Equal(t, []programs.Application{programs.LyX, programs.Python, programs.StatTransfer}, m.Applications())
}

func TestLoadManifestDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gsmake.yaml", "paths:\n  makelog: log/make.log\nlog_outputs: false\n")

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.True(t, m.SourceLogs)
	assert.False(t, m.LogOutputs)
	assert.Nil(t, m.Depth)
	assert.Empty(t, m.Programs)
}

func TestLoadManifestInvalidSteps(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"both kinds", "programs:\n  - app: python\n    program: a.py\n    command: ls\n"},
		{"missing program", "programs:\n  - app: python\n"},
		{"unknown app", "programs:\n  - app: cobol\n    program: a.cbl\n"},
		{"empty path", "paths:\n  makelog: \"\"\n"},
		{"negative timeout", "programs:\n  - app: jupyter\n    program: a.ipynb\n    timeout: -2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "gsmake.yaml", tt.body)
			_, err := LoadManifest(path)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
		})
	}
}

func TestLoadManifestMissing(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "gsmake.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}
