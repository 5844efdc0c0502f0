package filesystem

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendFile(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, afero.WriteFile(fsys, "/log.txt", []byte("one\n"), 0644))

	require.NoError(t, AppendFile(fsys, "/log.txt", []byte("two\n")))

	data, err := afero.ReadFile(fsys, "/log.txt")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestAppendFile_MissingFile(t *testing.T) {
	err := AppendFile(NewMemory(), "/missing.txt", []byte("x"))
	assert.Error(t, err)
}

func TestCopyFile(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, afero.WriteFile(fsys, "/a.log", []byte("content"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/b.log", []byte("old content that is longer"), 0644))

	require.NoError(t, CopyFile(fsys, "/a.log", "/b.log"))

	data, err := afero.ReadFile(fsys, "/b.log")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestExistsAndIsDir(t *testing.T) {
	fsys := NewMemory()
	require.NoError(t, fsys.MkdirAll("/out", 0755))
	require.NoError(t, afero.WriteFile(fsys, "/out/a.txt", nil, 0644))

	assert.True(t, Exists(fsys, "/out"))
	assert.True(t, IsDir(fsys, "/out"))
	assert.True(t, Exists(fsys, "/out/a.txt"))
	assert.False(t, IsDir(fsys, "/out/a.txt"))
	assert.False(t, Exists(fsys, "/nope"))
}

func TestIsSymlink_OS(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))
	require.NoError(t, os.Symlink(target, link))

	fsys := NewOS()
	assert.True(t, IsSymlink(fsys, link))
	assert.False(t, IsSymlink(fsys, target))

	// dangling links still exist
	require.NoError(t, os.Remove(target))
	assert.True(t, Exists(fsys, link))
}
