package directive

import (
	"regexp"
	"sort"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/spf13/afero"
)

// CaptureRegexp builds the regexp that matches a wildcard source pattern.
// Literal text is quoted and every `*` becomes a capture group.
func CaptureRegexp(pattern string) *regexp.Regexp {
	segments := strings.Split(pattern, Wildcard)
	for i, s := range segments {
		segments[i] = regexp.QuoteMeta(s)
	}
	return regexp.MustCompile("^" + strings.Join(segments, "(.*)") + "$")
}

// Fill substitutes captures into the `*` placeholders of pattern in order.
// Surplus captures are ignored and missing ones leave the `*` in place.
func Fill(pattern string, captures []string) string {
	parts := strings.Split(pattern, Wildcard)
	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i == len(parts)-1 {
			break
		}
		if i < len(captures) {
			b.WriteString(captures[i])
		} else {
			b.WriteString(Wildcard)
		}
	}
	return b.String()
}

// Expand resolves d into concrete pairs. A non-wildcard directive yields
// itself. A wildcard directive yields one pair per source match, sorted by
// source, and fails when nothing matches.
func Expand(fsys afero.Fs, d Directive) (Map, error) {
	if !d.HasWildcard() {
		return Map{{Source: d.Source, Destination: d.Destination}}, nil
	}

	matches, err := afero.Glob(fsys, d.Source)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSyntax, "bad source pattern `%s`", d.Source)
	}
	if len(matches) == 0 {
		return nil, errors.Newf(errors.ErrNotFound,
			"paths matching pattern `%s` cannot be found", d.Source).
			WithDetail("file", d.File).
			WithDetail("line", d.RawLine)
	}
	sort.Strings(matches)

	re := CaptureRegexp(d.Source)
	out := make(Map, 0, len(matches))
	for _, src := range matches {
		m := re.FindStringSubmatch(src)
		if m == nil {
			// glob-only metacharacters (`?`, `[...]`) match paths the
			// literal capture regexp cannot
			return nil, errors.Newf(errors.ErrWildcardMismatch,
				"source `%s` does not match pattern `%s`", src, d.Source).
				WithDetail("file", d.File).
				WithDetail("line", d.RawLine)
		}
		out = append(out, Pair{Source: src, Destination: Fill(d.Destination, m[1:])})
	}
	return out, nil
}

// ExpandAll expands every directive, preserving declaration order
func ExpandAll(fsys afero.Fs, directives []Directive) (Map, error) {
	var out Map
	for _, d := range directives {
		pairs, err := Expand(fsys, d)
		if err != nil {
			return nil, err
		}
		out = append(out, pairs...)
	}
	return out, nil
}
