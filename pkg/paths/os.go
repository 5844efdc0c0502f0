package paths

import (
	"runtime"

	"github.com/arthur-debert/gsmake/pkg/errors"
)

// OS names the command family used for links, copies and program
// invocation. Only two families exist.
type OS string

const (
	OSPosix OS = "posix"
	OSNT    OS = "nt"
)

// CurrentOS returns the family of the running system
func CurrentOS() OS {
	if runtime.GOOS == "windows" {
		return OSNT
	}
	return OSPosix
}

// ParseOS validates an OS name
func ParseOS(name string) (OS, error) {
	switch OS(name) {
	case OSPosix, OSNT:
		return OS(name), nil
	}
	return "", errors.Newf(errors.ErrUnknownOS,
		"your operating system `%s` is unknown; only the following operating systems are supported: `posix`, `nt`",
		name).WithDetail("os", name)
}
