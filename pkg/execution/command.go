package execution

import (
	"strings"
	"time"

	"github.com/arthur-debert/gsmake/pkg/errors"
)

// Command is a single process invocation
type Command struct {
	Name  string
	Args  []string
	Dir   string   // working directory, current directory when empty
	Env   []string // extra KEY=VALUE pairs appended to the inherited environment
	Stdin string   // file whose content is fed to standard input
}

// Argv returns the name followed by the arguments
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command for logs and messages. Arguments holding
// whitespace or quotes are double quoted.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+3)
	for _, a := range c.Argv() {
		parts = append(parts, quote(a))
	}
	if c.Stdin != "" {
		parts = append(parts, "<", quote(c.Stdin))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\n\"'") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Result holds what a finished process produced
type Result struct {
	Stdout   string
	Stderr   string
	Combined string // stdout and stderr interleaved in arrival order
	ExitCode int
	Duration time.Duration
}

// Failed reports a non-zero exit code
func (r Result) Failed() bool {
	return r.ExitCode != 0
}

// Split turns a command line into argv fields, honouring double and
// single quotes. Outside single quotes a backslash makes a following
// quote literal; other backslashes are kept so Windows paths survive.
// An unterminated quote is a bad command.
func Split(line string) ([]string, error) {
	var (
		fields  []string
		current strings.Builder
		inField bool
		quote   rune
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && quote != '\'' && i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\''):
			i++
			current.WriteRune(runes[i])
			inField = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inField = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inField {
				fields = append(fields, current.String())
				current.Reset()
				inField = false
			}
		default:
			current.WriteRune(r)
			inField = true
		}
	}
	if quote != 0 {
		return nil, errors.Newf(errors.ErrBadCommand, "unterminated %c quote in `%s`", quote, line)
	}
	if inField {
		fields = append(fields, current.String())
	}
	return fields, nil
}
