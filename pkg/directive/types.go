package directive

import "strings"

// Wildcard is the only glob metacharacter given positional meaning
const Wildcard = "*"

// Directive is one parsed instruction line
type Directive struct {
	File    string // instruction file the line came from
	RawLine string // line as written
	Line    string // line after placeholder substitution

	RawSource      string
	RawDestination string

	// Normalized absolute paths, possibly with wildcards
	Source      string
	Destination string
}

// HasWildcard reports whether the source is a pattern
func (d Directive) HasWildcard() bool {
	return strings.Contains(d.Source, Wildcard)
}

// Pair is a concrete source and the destination it is linked or copied to
type Pair struct {
	Source      string
	Destination string
}

// Map is the ordered list of pairs produced by one or more instruction files
type Map []Pair

// Sources returns the source of every pair, in order
func (m Map) Sources() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Source
	}
	return out
}
