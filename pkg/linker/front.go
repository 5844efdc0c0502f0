package linker

import (
	"context"

	"github.com/arthur-debert/gsmake/pkg/directive"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/arthur-debert/gsmake/pkg/paths"
)

// LinkInputs symlinks the inputs described by files into input_dir
func (l *Linker) LinkInputs(ctx context.Context, log *makelog.Session, p paths.Paths, files []string) (directive.Map, error) {
	return l.move(ctx, log, p, files, job{
		name:    "link_inputs",
		dirKey:  paths.KeyInputDir,
		mode:    ModeLink,
		success: "Input links successfully created!",
	})
}

// LinkExternals symlinks the externals described by files into external_dir
func (l *Linker) LinkExternals(ctx context.Context, log *makelog.Session, p paths.Paths, files []string) (directive.Map, error) {
	return l.move(ctx, log, p, files, job{
		name:    "link_externals",
		dirKey:  paths.KeyExternalDir,
		mode:    ModeLink,
		success: "External links successfully created!",
	})
}

// CopyInputs copies the inputs described by files into input_dir
func (l *Linker) CopyInputs(ctx context.Context, log *makelog.Session, p paths.Paths, files []string) (directive.Map, error) {
	return l.move(ctx, log, p, files, job{
		name:    "copy_inputs",
		dirKey:  paths.KeyInputDir,
		mode:    ModeCopy,
		success: "Input copies successfully created!",
	})
}

// CopyExternals copies the externals described by files into external_dir
func (l *Linker) CopyExternals(ctx context.Context, log *makelog.Session, p paths.Paths, files []string) (directive.Map, error) {
	return l.move(ctx, log, p, files, job{
		name:    "copy_externals",
		dirKey:  paths.KeyExternalDir,
		mode:    ModeCopy,
		success: "External copies successfully created!",
	})
}

type job struct {
	name    string
	dirKey  string
	mode    Mode
	success string
}

func (l *Linker) move(ctx context.Context, log *makelog.Session, p paths.Paths, files []string, j job) (directive.Map, error) {
	done := logging.LogOperationStart(l.logger, j.name)
	defer done()

	pairs, err := l.resolveAndApply(ctx, p, files, j)
	if err != nil {
		l.printer.Failure("Error with `%s`", j.name)
		return nil, log.LogError(err)
	}

	if err := log.Write(j.success); err != nil {
		return nil, err
	}
	l.printer.Success(j.success)
	return pairs, nil
}

func (l *Linker) resolveAndApply(ctx context.Context, p paths.Paths, files []string, j job) (directive.Map, error) {
	moveDir, err := p.Get(j.dirKey)
	if err != nil {
		return nil, err
	}

	directives, pairs, err := l.Resolve(files, moveDir, p.Mapping())
	if err != nil {
		return nil, err
	}
	if len(directives) == 0 {
		return directive.Map{}, nil
	}

	if err := l.Apply(ctx, pairs, moveDir, j.mode); err != nil {
		return nil, err
	}
	return pairs, nil
}
