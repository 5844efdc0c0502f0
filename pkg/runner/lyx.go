package runner

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/spf13/afero"
)

func (r *Runner) runLyX(ctx context.Context, log *makelog.Session, p paths.Paths, d programs.Directive) error {
	outputDir, err := p.Get(paths.KeyOutputDir)
	if err != nil {
		return err
	}
	pdfDir := outputDir
	if dir, ok := p.Lookup(paths.KeyPDFDir); ok {
		pdfDir = dir
	}
	pdfDir = paths.NormPathIn(d.WorkDir, pdfDir)

	tempName := d.Name
	program := d.Program
	if d.Doctype != programs.DoctypeNone {
		tempName = d.Name + "_" + d.Doctype
		program = filepath.Join(d.Dir, tempName+".lyx")
		if err := r.writeLyXVariant(d.Program, program, d.Doctype); err != nil {
			return err
		}
		defer func() {
			if err := r.fs.Remove(program); err != nil {
				r.logger.Warn().Err(err).Str("path", program).Msg("Could not remove temporary LyX file")
			}
		}()
	}

	if err := r.runLogged(ctx, log, d, d.CommandFor(program)); err != nil {
		return err
	}

	built := filepath.Join(d.Dir, tempName+".pdf")
	target := filepath.Join(pdfDir, d.Name+".pdf")
	if built == target {
		return nil
	}
	if !filesystem.Exists(r.fs, built) {
		return errors.Newf(errors.ErrNoProgramOutput,
			"Program output `%s` is expected from `%s` but cannot be found", built, d.Program).
			WithDetail("output", built)
	}
	return r.moveFile(built, target, errors.ErrFileWrite)
}

// writeLyXVariant copies a LyX document, adjusting it for doctype.
// Handouts add the beamer handout class option; comments turn notes
// into greyed out text that is printed.
func (r *Runner) writeLyXVariant(src, dst, doctype string) error {
	data, err := afero.ReadFile(r.fs, src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read `%s`", src)
	}
	if err := afero.WriteFile(r.fs, dst, []byte(LyXVariant(string(data), doctype)), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write `%s`", dst)
	}
	return nil
}

// LyXVariant rewrites the text of a LyX document for doctype
func LyXVariant(doc, doctype string) string {
	lines := strings.Split(doc, "\n")
	beamer := false
	for i, line := range lines {
		if strings.Contains(line, `\textclass beamer`) {
			beamer = true
		}
		switch {
		case doctype == programs.DoctypeHandout && beamer && strings.Contains(line, `\options`):
			lines[i] = strings.TrimRight(line, "\r") + ", handout"
		case doctype == programs.DoctypeComments && strings.Contains(line, `\begin_inset Note Note`):
			lines[i] = strings.Replace(line, "Note Note", "Note Greyedout", 1)
		}
	}
	return strings.Join(lines, "\n")
}
