package module

import (
	"context"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/config"
	"github.com/arthur-debert/gsmake/pkg/directive"
	"github.com/arthur-debert/gsmake/pkg/dirs"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/linker"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/logs"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/programs"
	"github.com/arthur-debert/gsmake/pkg/runner"
	"github.com/arthur-debert/gsmake/pkg/style"
	"github.com/arthur-debert/gsmake/pkg/vcs"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Default directories links and copies are made into
const (
	DefaultInputDir    = "input"
	DefaultExternalDir = "external"
)

// Builder builds modules
type Builder struct {
	fs       afero.Fs
	exec     execution.Runner
	table    *programs.Table
	settings *config.Settings
	osName   paths.OS
	root     string
	printer  *style.Printer
	logger   zerolog.Logger
}

// Option customizes a Builder
type Option func(*Builder)

// WithFS sets the filesystem for logs, directories and side-effect files
func WithFS(fsys afero.Fs) Option {
	return func(b *Builder) { b.fs = fsys }
}

// WithOS selects the link commands and executable defaults of another OS
func WithOS(osName paths.OS) Option {
	return func(b *Builder) { b.osName = osName }
}

// WithRoot sets the repository root, available as {root} in instruction
// files
func WithRoot(root string) Option {
	return func(b *Builder) { b.root = root }
}

// WithPrinter sets where status lines are printed
func WithPrinter(p *style.Printer) Option {
	return func(b *Builder) { b.printer = p }
}

// New creates a Builder running programs with exec and resolving their
// executables from table
func New(exec execution.Runner, table *programs.Table, settings *config.Settings, opts ...Option) *Builder {
	b := &Builder{
		fs:       filesystem.NewOS(),
		exec:     exec,
		table:    table,
		settings: settings,
		osName:   paths.CurrentOS(),
		printer:  style.Discard(),
		logger:   logging.GetLogger("module"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// build holds what a single Run shares between steps
type build struct {
	manifest *config.Manifest
	paths    paths.Paths
	table    *programs.Table
	log      *makelog.Session
	depth    int
}

// Run builds the module described by m
func (b *Builder) Run(ctx context.Context, m *config.Manifest) error {
	done := logging.LogOperationStart(b.logger, "build_module")
	defer done()
	b.logger.Info().Str("dir", m.Dir).Int("programs", len(m.Programs)).Msg("Building module")

	bd, err := b.prepare(m)
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func(context.Context, *build) error
	}{
		{"directories", b.directories},
		{"start_makelog", b.startMakelog},
		{"sources", b.sources},
		{"programs", b.runPrograms},
		{"log_outputs", b.logOutputs},
		{"end_makelog", b.endMakelog},
	}
	for _, step := range steps {
		b.logger.Debug().Str("step", step.name).Msg("Running build step")
		if err := step.fn(ctx, bd); err != nil {
			return err
		}
	}
	return nil
}

// prepare resolves the path mapping and loads the user configuration
// named by config_user
func (b *Builder) prepare(m *config.Manifest) (*build, error) {
	p := ResolvePaths(m.Dir, m.Paths)
	table := b.table

	if userPath, ok := p.Lookup(paths.KeyConfigUser); ok {
		user, err := config.LoadUserConfig(userPath)
		if err != nil {
			return nil, err
		}
		table = table.WithExecutables(user.Local.Executables)
		p = p.Merge(user.External)
	}
	if b.root != "" {
		p = p.Merge(map[string]string{paths.KeyRoot: b.root})
	}

	depth := b.settings.LogDepth
	if m.Depth != nil {
		depth = *m.Depth
	}

	return &build{
		manifest: m,
		paths:    p,
		table:    table,
		log:      makelog.Disabled(),
		depth:    depth,
	}, nil
}

// ResolvePaths makes every path of a manifest absolute against dir and
// adds the default input and external directories. output_local_dir is
// a comma separated list and each entry is resolved.
func ResolvePaths(dir string, raw map[string]string) paths.Paths {
	p := paths.Paths{
		paths.KeyInputDir:    DefaultInputDir,
		paths.KeyExternalDir: DefaultExternalDir,
	}.Merge(raw)

	out := make(paths.Paths, len(p))
	for key, value := range p {
		if key == paths.KeyOutputLocalDir {
			var parts []string
			for _, part := range strings.Split(value, ",") {
				if part = strings.TrimSpace(part); part != "" {
					parts = append(parts, paths.NormPathIn(dir, part))
				}
			}
			out[key] = strings.Join(parts, ",")
			continue
		}
		out[key] = paths.NormPathIn(dir, value)
	}
	return out
}

func (b *Builder) directories(_ context.Context, bd *build) error {
	m := dirs.New(b.fs, bd.manifest.Dir, dirs.WithPrinter(b.printer))
	if len(bd.manifest.Remove) > 0 {
		if err := m.RemoveDir(bd.manifest.Remove); err != nil {
			return err
		}
	}
	if len(bd.manifest.Clear) > 0 {
		if err := m.ClearDir(bd.manifest.Clear); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) startMakelog(_ context.Context, bd *build) error {
	if path, ok := bd.paths.Lookup(paths.KeyMakelog); ok {
		bd.log = makelog.New(b.fs, path, bd.manifest.Dir)
	} else {
		b.logger.Warn().Str("dir", bd.manifest.Dir).Msg("No makelog path set, build is not logged")
	}
	if err := bd.log.Start(); err != nil {
		return err
	}
	if bd.log.Enabled() {
		b.printer.Success("Makelog started: `%s`", bd.log.Path())
	}
	return nil
}

// sources links then copies inputs and externals, writes the source
// logs and reports modified sources
func (b *Builder) sources(ctx context.Context, bd *build) error {
	m := bd.manifest
	if m.Link.Empty() && m.Copy.Empty() {
		return nil
	}

	l := linker.New(b.exec, m.Dir,
		linker.WithFS(b.fs), linker.WithOS(b.osName), linker.WithPrinter(b.printer))
	moves := []struct {
		files    []string
		external bool
		fn       func(context.Context, *makelog.Session, paths.Paths, []string) (directive.Map, error)
	}{
		{m.Link.Inputs, false, l.LinkInputs},
		{m.Link.Externals, true, l.LinkExternals},
		{m.Copy.Inputs, false, l.CopyInputs},
		{m.Copy.Externals, true, l.CopyExternals},
	}

	var inputs, externals directive.Map
	for _, mv := range moves {
		if len(mv.files) == 0 {
			continue
		}
		moved, err := mv.fn(ctx, bd.log, bd.paths, mv.files)
		if err != nil {
			return err
		}
		if mv.external {
			externals = append(externals, moved...)
		} else {
			inputs = append(inputs, moved...)
		}
	}
	all := append(append(directive.Map{}, inputs...), externals...)

	if m.SourceLogs {
		w := logs.New(b.fs, m.Dir,
			logs.WithPrinter(b.printer), logs.WithHeadLines(b.settings.HeadLines))
		families := []struct {
			set   logs.SourceSet
			pairs directive.Map
		}{
			{logs.LinkLogs, all},
			{logs.InputLogs, inputs},
			{logs.ExternalLogs, externals},
		}
		for _, f := range families {
			if !hasAnyKey(bd.paths, f.set) {
				continue
			}
			if err := w.WriteSourceLogs(bd.log, bd.paths, f.set, f.pairs, bd.depth); err != nil {
				return err
			}
		}
	}

	if m.CheckModified {
		c := vcs.New(b.fs, b.exec, m.Dir, vcs.WithPrinter(b.printer))
		if _, err := c.CheckModified(ctx, bd.log, all, bd.depth); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) runPrograms(ctx context.Context, bd *build) error {
	m := bd.manifest
	if len(m.Programs) == 0 {
		return nil
	}

	resolver := programs.NewResolver(b.fs, bd.table, b.osName, m.Dir)
	r := runner.New(b.exec, resolver, runner.WithFS(b.fs), runner.WithPrinter(b.printer))

	for _, step := range m.Programs {
		if err := b.runStep(ctx, r, bd, step); err != nil {
			return err
		}
	}
	return nil
}

// runStep runs one program step, bounded by command_timeout when set.
// A step killed by the deadline is reported as a timeout.
func (b *Builder) runStep(ctx context.Context, r *runner.Runner, bd *build, step config.Step) error {
	timeout := b.settings.CommandTimeout
	if timeout <= 0 {
		return b.execStep(ctx, r, bd, step)
	}

	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := b.execStep(stepCtx, r, bd, step)
	if err != nil && stepCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return bd.log.LogError(errors.Wrapf(err, errors.ErrTimeout, "Step %s timed out after %s", step, timeout).
			WithDetail("step", step.String()))
	}
	return err
}

func (b *Builder) execStep(ctx context.Context, r *runner.Runner, bd *build, step config.Step) error {
	b.logger.Info().Str("step", step.String()).Msg("Running program step")

	if step.IsCommand() {
		return r.ExecuteCommand(ctx, bd.log, bd.manifest.Dir, step.Command, step.Log)
	}
	req, err := step.Request()
	if err != nil {
		return bd.log.LogError(err)
	}
	return r.Run(ctx, bd.log, bd.paths, req)
}

func (b *Builder) logOutputs(_ context.Context, bd *build) error {
	if !bd.manifest.LogOutputs {
		return nil
	}
	if _, ok := bd.paths.Lookup(paths.KeyOutputDir); !ok {
		b.logger.Debug().Msg("No output_dir, output logs skipped")
		return nil
	}
	w := logs.New(b.fs, bd.manifest.Dir,
		logs.WithPrinter(b.printer), logs.WithHeadLines(b.settings.HeadLines))
	return w.LogFilesInOutput(bd.log, bd.paths, bd.depth)
}

func (b *Builder) endMakelog(_ context.Context, bd *build) error {
	if err := bd.log.End(); err != nil {
		return err
	}
	if bd.log.Enabled() {
		b.printer.Success("Makelog ended: `%s`", bd.log.Path())
	}
	return nil
}

func hasAnyKey(p paths.Paths, set logs.SourceSet) bool {
	for _, key := range []string{set.StatsKey, set.HeadsKey, set.MapKey} {
		if _, ok := p.Lookup(key); ok {
			return true
		}
	}
	return false
}
