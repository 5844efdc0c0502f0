// Package style renders gsmake's console output: status lines while a
// module builds and the error block shown when it fails.
package style

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/gsmake/internal/version"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/ui"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Kind classifies a console status line
type Kind int

const (
	KindPlain Kind = iota
	KindSuccess
	KindFailure
	KindInProcess
	KindWarning
)

// KindStyle returns the pterm style for a kind of status line
func KindStyle(kind Kind) *pterm.Style {
	switch kind {
	case KindSuccess:
		return pterm.NewStyle(pterm.FgGreen)
	case KindFailure:
		return pterm.NewStyle(pterm.FgRed)
	case KindInProcess:
		return pterm.NewStyle(pterm.FgCyan)
	case KindWarning:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgDefault)
	}
}

// Printer writes status lines to a console
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a printer. Colour is used only when format
// resolves to FormatTerminal against out.
func NewPrinter(out io.Writer, format ui.Format) *Printer {
	return &Printer{out: out, color: format.Resolve(out) == ui.FormatTerminal}
}

// Stdout returns a printer on standard output with detected colour support
func Stdout() *Printer {
	return NewPrinter(os.Stdout, ui.FormatAuto)
}

// Discard returns a printer that prints nothing
func Discard() *Printer {
	return NewPrinter(io.Discard, ui.FormatText)
}

// Print writes one line of the given kind
func (p *Printer) Print(kind Kind, format string, args ...interface{}) {
	if p == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if p.color && kind != KindPlain {
		msg = KindStyle(kind).Sprint(msg)
	}
	_, _ = fmt.Fprintln(p.out, msg)
}

// Success prints a line for a completed step
func (p *Printer) Success(format string, args ...interface{}) {
	p.Print(KindSuccess, format, args...)
}

// Failure prints a line for a failed step
func (p *Printer) Failure(format string, args ...interface{}) {
	p.Print(KindFailure, format, args...)
}

// InProcess prints a line for a step being started
func (p *Printer) InProcess(format string, args ...interface{}) {
	p.Print(KindInProcess, format, args...)
}

// Warning prints a warning line
func (p *Printer) Warning(format string, args ...interface{}) {
	p.Print(KindWarning, format, args...)
}

// Plain prints an unstyled line
func (p *Printer) Plain(format string, args ...interface{}) {
	p.Print(KindPlain, format, args...)
}

// RenderError renders err as a titled block with its trace below it.
// Without colour the block is plain text.
func RenderError(err error, color bool) string {
	title := "Error"
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		title = fmt.Sprintf("Error [%s]", code)
	}
	body := strings.TrimSpace(errorMessage(err))
	if trace := strings.TrimSpace(errors.GetTrace(err)); trace != "" {
		body += "\n\n" + trace
	}

	if !color {
		return fmt.Sprintf("gsmake %s: %s\n%s\n", version.Version, title, body)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		ErrorTitleStyle.Render("gsmake: "+title),
		ErrorBoxStyle.Render(body),
	) + "\n"
}

func errorMessage(err error) string {
	msg := err.Error()
	// drop the leading "[CODE] " already shown in the title
	if strings.HasPrefix(msg, "[") {
		if i := strings.Index(msg, "] "); i > 0 {
			return msg[i+2:]
		}
	}
	return msg
}
