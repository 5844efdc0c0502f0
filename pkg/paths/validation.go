package paths

import (
	"strings"

	"github.com/arthur-debert/gsmake/pkg/errors"
)

const maxPathLength = 4096

// ValidatePath rejects empty paths, paths with NUL bytes and paths
// longer than common filesystem limits.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}
	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes").
			WithDetail("path", path)
	}
	if len(path) > maxPathLength {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length").
			WithDetail("length", len(path))
	}
	return nil
}
