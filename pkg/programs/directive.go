package programs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/execution"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// LyX document types
const (
	DoctypeNone     = ""
	DoctypeHandout  = "handout"
	DoctypeComments = "comments"
)

// Request is what a caller asks to run. Empty Executable and Option fall
// back to the table.
type Request struct {
	App        Application
	Program    string
	Executable string
	Option     string
	Args       string
	Log        string

	LST     string // SAS listing destination
	Doctype string // LyX document type
	Timeout int    // Jupyter per-cell timeout in seconds, 0 for none
	Kernel  string // Jupyter kernel, empty for the notebook's own
}

// Directive is a validated Request with every default filled in
type Directive struct {
	App     Application
	OS      paths.OS
	WorkDir string

	Program string // absolute path
	Dir     string
	Base    string // name plus extension
	Name    string
	Ext     string

	Executable string
	Option     string
	Args       string
	Log        string

	LST     string
	Doctype string
	Timeout int
	Kernel  string

	// Warnings collects problems that were corrected during resolution
	Warnings []string
}

// Resolver validates requests against a Table
type Resolver struct {
	fs      afero.Fs
	table   *Table
	osName  paths.OS
	workDir string
	logger  zerolog.Logger
}

// NewResolver creates a Resolver. Relative program and log paths resolve
// against workDir.
func NewResolver(fsys afero.Fs, table *Table, osName paths.OS, workDir string) *Resolver {
	return &Resolver{
		fs:      fsys,
		table:   table,
		osName:  osName,
		workDir: workDir,
		logger:  logging.GetLogger("programs"),
	}
}

// Table returns the table requests are resolved against
func (r *Resolver) Table() *Table { return r.table }

// OS returns the operating system commands are built for
func (r *Resolver) OS() paths.OS { return r.osName }

// Resolve fills in defaults and checks that the program exists with an
// extension the application accepts.
func (r *Resolver) Resolve(req Request) (Directive, error) {
	spec, ok := r.table.Spec(req.App)
	if !ok {
		return Directive{}, errors.Newf(errors.ErrUnknownApp, "application `%s` is not supported", req.App).
			WithDetail("application", string(req.App))
	}

	program := paths.NormPathIn(r.workDir, req.Program)
	base := filepath.Base(program)
	ext := filepath.Ext(base)
	d := Directive{
		App:        req.App,
		OS:         r.osName,
		WorkDir:    r.workDir,
		Program:    program,
		Dir:        filepath.Dir(program),
		Base:       base,
		Name:       strings.TrimSuffix(base, ext),
		Ext:        ext,
		Executable: req.Executable,
		Option:     req.Option,
		Args:       req.Args,
		Log:        paths.NormPathIn(r.workDir, req.Log),
		LST:        paths.NormPathIn(r.workDir, req.LST),
		Doctype:    req.Doctype,
		Timeout:    req.Timeout,
		Kernel:     req.Kernel,
	}

	if req.Program == "" || !filesystem.Exists(r.fs, program) || filesystem.IsDir(r.fs, program) {
		return Directive{}, errors.Newf(errors.ErrNotFound, "File `%s` cannot be found", program).
			WithDetail("program", program)
	}
	if !spec.Allows(ext) {
		return Directive{}, errors.Newf(errors.ErrBadExtension,
			"Program `%s` does not have correct extension. Program should have one of the following extensions: %s",
			base, strings.Join(spec.Extensions, ", ")).
			WithDetail("program", program)
	}

	if d.Executable == "" {
		d.Executable = r.table.Executable(req.App, r.osName)
	}
	if d.Option == "" {
		d.Option = r.table.Option(req.App, r.osName)
	}

	for _, line := range []string{d.Executable, d.Option, d.Args} {
		if _, err := execution.Split(line); err != nil {
			return Directive{}, err
		}
	}

	if req.App == LyX {
		switch d.Doctype {
		case DoctypeNone, DoctypeHandout, DoctypeComments:
		default:
			d.Warnings = append(d.Warnings, fmt.Sprintf(
				"Document type `%s` is unrecognized. Reverting to default of no special document type.", d.Doctype))
			d.Doctype = DoctypeNone
		}
	}

	r.logger.Debug().
		Str("app", string(d.App)).
		Str("program", d.Program).
		Str("executable", d.Executable).
		Msg("Resolved program directive")
	return d, nil
}

// OutputFile is the path of a file the application writes next to the
// working directory, named after the program
func (d Directive) OutputFile(ext string) string {
	return filepath.Join(d.WorkDir, d.Name+ext)
}

// StataLogCandidates lists where Stata may have written its log, most
// likely first. Stata names the log after the program name truncated at
// the first space.
func (d Directive) StataLogCandidates() []string {
	full := d.OutputFile(".log")
	short := d.Name
	if i := strings.IndexAny(short, " \t"); i >= 0 {
		short = short[:i]
	}
	partial := filepath.Join(d.WorkDir, short+".log")
	if partial == full {
		return []string{full}
	}
	return []string{partial, full}
}
