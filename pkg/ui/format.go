// Package ui decides how console output is rendered: with colour on an
// interactive terminal, as plain text when piped or when NO_COLOR is set.
// The resolved format drives both status lines and help topics.
package ui

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// MaxWrap caps the column rendered help text wraps at
const MaxWrap = 100

// Format is how console output is rendered
type Format int

const (
	// FormatAuto picks terminal or text output from the environment
	FormatAuto Format = iota
	// FormatTerminal renders colours and styling
	FormatTerminal
	// FormatText renders plain text
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseFormat reads the --format flag or the format setting
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput,
			"unknown console format `%s`: use auto, terminal or text", s).
			WithDetail("format", s)
	}
}

// Resolve turns FormatAuto into the format out can display. Only files
// are inspected; buffers and other writers get text.
func (f Format) Resolve(out io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	file, ok := out.(*os.File)
	if !ok {
		return FormatText
	}
	return DetectFormat(file)
}

// DetectFormat checks NO_COLOR, whether output is a terminal and the
// colour profile termenv reports
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// WrapWidth is the column rendered markdown wraps at: the terminal width
// up to MaxWrap for FormatTerminal, 0 (no wrapping) otherwise.
func WrapWidth(f Format) int {
	if f != FormatTerminal {
		return 0
	}
	if w := pterm.GetTerminalWidth(); w > 0 && w < MaxWrap {
		return w
	}
	return MaxWrap
}
