package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadUserConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config_user.yaml", `
local:
  executables:
    stata: /usr/local/stata/stata-se
    git-lfs: git-lfs
external:
  raw_data: /mnt/shared/raw
`)

	cfg, err := LoadUserConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/stata/stata-se", cfg.Local.Executables["stata"])
	assert.Equal(t, "git-lfs", cfg.Local.Executables["git-lfs"])
	assert.Equal(t, map[string]string{"raw_data": "/mnt/shared/raw"}, cfg.External)
}

func TestLoadUserConfigEmptySections(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config_user.yaml", "local:\n  executables:\nexternal:\n")

	cfg, err := LoadUserConfig(path)
	require.NoError(t, err)
	assert.NotNil(t, cfg.Local.Executables)
	assert.NotNil(t, cfg.External)
}

func TestLoadUserConfigMissing(t *testing.T) {
	_, err := LoadUserConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestLoadUserConfigInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config_user.yaml", "local: [unclosed\n")

	_, err := LoadUserConfig(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestLoadProjectConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
git_lfs_required: true
software_required:
  stata: true
  r: true
  matlab: false
`)

	cfg, err := LoadProjectConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.GitLFSRequired)
	assert.Equal(t, []string{"r", "stata"}, cfg.RequiredSoftware())
}

func TestUserTemplateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config_user.yaml")
	table, err := programs.Default()
	require.NoError(t, err)

	require.NoError(t, WriteUserTemplate(filesystem.NewOS(), path, table, paths.OSPosix))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# gsmake user configuration")
	assert.Contains(t, string(content), "raw_data: /mnt/shared/project/raw")

	cfg, err := LoadUserConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "stata-mp", cfg.Local.Executables["stata"])
	assert.Equal(t, "python -m jupyter", cfg.Local.Executables["jupyter"])
	assert.Equal(t, "git-lfs", cfg.Local.Executables["git-lfs"])
	assert.Empty(t, cfg.External)
}
