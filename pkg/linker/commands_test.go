package linker

import (
	"testing"

	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/stretchr/testify/assert"
)

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name  string
		os    paths.OS
		mode  Mode
		isDir bool
		want  []string
	}{
		{"posix link file", paths.OSPosix, ModeLink, false, []string{"ln", "-s", "SRC", "DST"}},
		{"posix link dir", paths.OSPosix, ModeLink, true, []string{"ln", "-s", "SRC", "DST"}},
		{"posix copy", paths.OSPosix, ModeCopy, false, []string{"cp", "-a", "SRC", "DST"}},
		{"nt link file", paths.OSNT, ModeLink, false, []string{"cmd", "/c", "mklink", "DST", "SRC"}},
		{"nt link dir", paths.OSNT, ModeLink, true, []string{"cmd", "/c", "mklink", "/d", "DST", "SRC"}},
		{"nt copy dir", paths.OSNT, ModeCopy, true, []string{"xcopy", "/E", "/Y", "/Q", "/I", "/K", "SRC", "DST"}},
		{"nt copy file", paths.OSNT, ModeCopy, false, []string{"cmd", "/c", "copy", "/Y", "SRC", "DST"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := BuildCommand(tt.os, tt.mode, "SRC", "DST", tt.isDir)
			assert.Equal(t, tt.want, cmd.Argv())
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "link", ModeLink.String())
	assert.Equal(t, "copy", ModeCopy.String())
}
