package linker

import (
	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/arthur-debert/gsmake/pkg/paths"
)

// Mode selects between symlinking and copying
type Mode int

const (
	ModeLink Mode = iota
	ModeCopy
)

func (m Mode) String() string {
	if m == ModeCopy {
		return "copy"
	}
	return "link"
}

// BuildCommand returns the command that creates dst from src. isDir
// tells whether src is a directory, which changes the NT commands.
func BuildCommand(osName paths.OS, mode Mode, src, dst string, isDir bool) execution.Command {
	if osName == paths.OSNT {
		return ntCommand(mode, src, dst, isDir)
	}
	if mode == ModeCopy {
		return execution.Command{Name: "cp", Args: []string{"-a", src, dst}}
	}
	return execution.Command{Name: "ln", Args: []string{"-s", src, dst}}
}

func ntCommand(mode Mode, src, dst string, isDir bool) execution.Command {
	switch {
	case mode == ModeLink && isDir:
		return execution.Command{Name: "cmd", Args: []string{"/c", "mklink", "/d", dst, src}}
	case mode == ModeLink:
		return execution.Command{Name: "cmd", Args: []string{"/c", "mklink", dst, src}}
	case isDir:
		return execution.Command{Name: "xcopy", Args: []string{"/E", "/Y", "/Q", "/I", "/K", src, dst}}
	default:
		return execution.Command{Name: "cmd", Args: []string{"/c", "copy", "/Y", src, dst}}
	}
}
