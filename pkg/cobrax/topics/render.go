package topics

import (
	"github.com/arthur-debert/gsmake/pkg/ui"
	"github.com/charmbracelet/glamour"
)

// Renderer turns a topic into the text that is printed. ext is the
// topic file's extension, dot included.
type Renderer interface {
	Render(content, ext string) string
}

type plainRenderer struct{}

func (plainRenderer) Render(content, _ string) string { return content }

// Plain prints every topic unchanged
var Plain Renderer = plainRenderer{}

// Markdown renders .md topics through glamour when the console takes
// styling. Text topics, and every topic on a text console, print as
// written so piped help stays free of escape codes.
type Markdown struct {
	Format ui.Format // resolved console format
	Width  int       // wrap column, 0 keeps glamour's default
}

// Configure sets the console format and derives the wrap width from it
func (m *Markdown) Configure(format ui.Format) {
	m.Format = format
	m.Width = ui.WrapWidth(format)
}

func (m *Markdown) Render(content, ext string) string {
	if ext != ".md" || m.Format != ui.FormatTerminal {
		return content
	}

	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if m.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(m.Width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
