package runner

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/arthur-debert/gsmake/pkg/batch"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/spf13/afero"
)

// stataFailure matches the trailer Stata prints when a do-file stops on
// an error, e.g. "end of do-file\nr(601);"
var stataFailure = regexp.MustCompile(`end of do-file\s*r\([0-9]*\);`)

// StataFailed reports whether a Stata log shows a do-file error
func StataFailed(log string) bool {
	return stataFailure.MatchString(log)
}

func (r *Runner) runStata(ctx context.Context, log *makelog.Session, d programs.Directive) error {
	output, res, err := r.execute(ctx, d.Command())
	if err != nil {
		return err
	}
	if err := log.Write(output); err != nil {
		return err
	}
	if err := programFailure("Stata program", res); err != nil {
		return err
	}

	var (
		content string
		moveErr error
	)
	for _, candidate := range d.StataLogCandidates() {
		content, moveErr = r.moveProgramOutput(log, d, candidate, d.Log)
		if moveErr == nil || !errors.IsErrorCode(moveErr, errors.ErrNoProgramOutput) {
			break
		}
	}
	if moveErr != nil {
		return moveErr
	}

	if StataFailed(content) {
		return errors.New(errors.ErrProgramFailed, "Stata program executed with errors").
			WithTrace("See makelog for more detail.")
	}
	return nil
}

func (r *Runner) runSAS(ctx context.Context, log *makelog.Session, d programs.Directive) error {
	if err := r.runWithSideLog(ctx, log, d, d.OutputFile(".log"), d.Log); err != nil {
		return err
	}
	_, err := r.moveProgramOutput(log, d, d.OutputFile(".lst"), d.LST)
	return err
}

// moveProgramOutput appends a file an application wrote on its own to
// the makelog, then moves it to dest. Without dest the file is removed.
func (r *Runner) moveProgramOutput(log *makelog.Session, d programs.Directive, output, dest string) (string, error) {
	data, err := afero.ReadFile(r.fs, output)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrNoProgramOutput,
			"Program output `%s` is expected from `%s` but cannot be found", output, d.Program).
			WithDetail("output", output)
	}
	content := string(data)

	if err := log.Write(content); err != nil {
		return "", err
	}

	if dest != "" && filepath.Clean(dest) == filepath.Clean(output) {
		return content, nil
	}
	if err := r.moveFile(output, dest, errors.ErrFileWrite); err != nil {
		return "", err
	}
	return content, nil
}

// moveFile moves src to dest as one batch: create the destination
// directory, copy, remove the source. An empty dest only removes src.
// copyCode is the error code a failed copy is reported with.
func (r *Runner) moveFile(src, dest string, copyCode errors.ErrorCode) error {
	b := batch.New("move")
	if dest != "" {
		b.Add("mkdir", func() error {
			if err := r.fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for `%s`", dest)
			}
			return nil
		})
		b.Add("copy", func() error {
			if err := filesystem.CopyFile(r.fs, src, dest); err != nil {
				return errors.Wrapf(err, copyCode, "cannot copy `%s` to `%s`", src, dest).
					WithDetail("output", src)
			}
			return nil
		})
	}
	b.Add("remove", func() error {
		if err := r.fs.Remove(src); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot remove `%s`", src)
		}
		return nil
	})
	return b.Run(context.Background())
}
