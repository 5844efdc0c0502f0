package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormPathIn(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("expectations use POSIX separators")
	}

	tests := []struct {
		name string
		base string
		in   string
		want string
	}{
		{"empty stays empty", "/work", "", ""},
		{"relative joined to base", "/work", "raw/a.txt", "/work/raw/a.txt"},
		{"backslashes become separators", "/work", `raw\sub\a.txt`, "/work/raw/sub/a.txt"},
		{"repeated separators collapse", "/work", "raw//sub\\\\a.txt", "/work/raw/sub/a.txt"},
		{"trailing separator stripped", "/work", "out/", "/work/out"},
		{"absolute kept", "/work", "/data/x", "/data/x"},
		{"dot segments cleaned", "/work", "./a/../b", "/work/b"},
		{"root stays root", "/work", "/", "/"},
		{"wildcards untouched", "/work", "raw/*.txt", "/work/raw/*.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormPathIn(tt.base, tt.in))
		})
	}
}

func TestNormPath_UsesWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, filepath.Join(wd, "x"), NormPath("x"))
	assert.Equal(t, "", NormPath(""))
}

func TestExpandHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("HOME is not used on windows")
	}
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester", ExpandHome("~"))
	assert.Equal(t, "/home/tester/data", ExpandHome("~/data"))
	assert.Equal(t, "~other/data", ExpandHome("~other/data"))
	assert.Equal(t, "/work/~", ExpandHome("/work/~"))
	assert.Equal(t, "/home/tester/data", NormPathIn("/work", "~/data"))
}

func TestRelTo(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("expectations use POSIX separators")
	}
	assert.Equal(t, "input/a.txt", RelTo("/work", "/work/input/a.txt"))
	assert.Equal(t, "../other", RelTo("/work", "/other"))
}
