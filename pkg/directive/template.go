package directive

import (
	"strings"

	"github.com/arthur-debert/gsmake/pkg/errors"
)

// Substitute replaces `{name}` placeholders with values from mapping.
// `{{` and `}}` produce literal braces. A placeholder without a value is
// a path-mapping error carrying the key.
func Substitute(line string, mapping map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(line))

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case '{':
			if i+1 < len(line) && line[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(line[i+1:], '}')
			if end < 0 {
				return "", errors.New(errors.ErrSyntax, "single `{` encountered in instruction")
			}
			key := line[i+1 : i+1+end]
			value, ok := mapping[key]
			if !ok {
				return "", errors.Newf(errors.ErrPathMapping,
					"argument `paths` is missing a value for key `%s`", key).
					WithDetail("key", key)
			}
			b.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(line) && line[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", errors.New(errors.ErrSyntax, "single `}` encountered in instruction")
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
