package style

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/ui"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_PlainText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ui.FormatText)

	p.Success("Input links successfully created!")
	p.Failure("Error with `run_stata`")
	p.InProcess("Executing command: `%s`", "Rscript x.R")
	p.Warning("WARNING! modified")
	p.Plain("plain")

	assert.Equal(t, "Input links successfully created!\n"+
		"Error with `run_stata`\n"+
		"Executing command: `Rscript x.R`\n"+
		"WARNING! modified\n"+
		"plain\n", buf.String())
}

func TestPrinter_AutoOnBufferIsPlain(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, ui.FormatAuto).Success("done")
	assert.Equal(t, "done\n", buf.String())
}

func TestPrinter_TerminalKeepsText(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, ui.FormatTerminal).Failure("failed")
	assert.Contains(t, buf.String(), "failed")
}

func TestPrinter_NilIsSafe(t *testing.T) {
	var p *Printer
	assert.NotPanics(t, func() { p.Success("x") })
	assert.NotPanics(t, func() { Discard().Success("x") })
}

func TestRenderError_Plain(t *testing.T) {
	err := errors.New(errors.ErrProgramFailed, "Stata program executed with errors").
		WithTrace("end of do-file\nr(601);")

	out := RenderError(err, false)
	assert.Contains(t, out, "Error [PROGRAM_FAILED]")
	assert.Contains(t, out, "Stata program executed with errors")
	assert.NotContains(t, out, "[PROGRAM_FAILED] Stata")
	assert.Contains(t, out, "r(601);")
}

func TestRenderError_StandardError(t *testing.T) {
	out := RenderError(stderrors.New("plain failure"), false)
	assert.Contains(t, out, "Error\nplain failure")
}

func TestRenderError_Color(t *testing.T) {
	out := RenderError(errors.New(errors.ErrNoMakelog, "makelog missing"), true)
	assert.Contains(t, out, "makelog missing")
	assert.Contains(t, out, "NO_MAKELOG")
}
