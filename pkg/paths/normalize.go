package paths

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var separators = regexp.MustCompile(`[/\\]+`)

// NormPath normalizes p against the current working directory.
// An empty path stays empty.
func NormPath(p string) string {
	if p == "" {
		return ""
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = string(filepath.Separator)
	}
	return NormPathIn(wd, p)
}

// NormPathIn normalizes p, resolving relative paths against base
func NormPathIn(base, p string) string {
	if p == "" {
		return ""
	}

	parts := separators.Split(p, -1)
	p = strings.Join(parts, string(filepath.Separator))
	if len(p) > 1 {
		p = strings.TrimRight(p, string(filepath.Separator))
	}
	if p == "" {
		// the input was nothing but separators
		p = string(filepath.Separator)
	}

	p = ExpandHome(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// RelTo returns p relative to base, or p unchanged when no relative
// path exists (e.g. different volumes).
func RelTo(base, p string) string {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return p
	}
	return rel
}
