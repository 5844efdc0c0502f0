package logs

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/directive"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/arthur-debert/gsmake/pkg/style"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Headers
const (
	StatsHeader = "file name | last modified | file size"
	HeadsHeader = "File headers"
	MapHeader   = "destination | source"
)

// DefaultHeadLines is how many lines of each file the headers log keeps
const DefaultHeadLines = 10

// Writer writes file logs
type Writer struct {
	fs        afero.Fs
	workDir   string
	headLines int
	printer   *style.Printer
	logger    zerolog.Logger
}

// Option customizes a Writer
type Option func(*Writer)

// WithPrinter sets where status lines are printed
func WithPrinter(p *style.Printer) Option {
	return func(w *Writer) { w.printer = p }
}

// WithHeadLines changes the number of lines kept per file in headers logs
func WithHeadLines(n int) Option {
	return func(w *Writer) { w.headLines = n }
}

// New creates a Writer. Relative log paths resolve against workDir and
// map log destinations are written relative to it.
func New(fsys afero.Fs, workDir string, opts ...Option) *Writer {
	w := &Writer{
		fs:        fsys,
		workDir:   workDir,
		headLines: DefaultHeadLines,
		printer:   style.Discard(),
		logger:    logging.GetLogger("logs"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteStatsLog writes one statistics line per file
func (w *Writer) WriteStatsLog(path string, files []string) error {
	var buf bytes.Buffer
	buf.WriteString(StatsHeader + "\n")
	for _, name := range files {
		info, err := w.fs.Stat(name)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot stat `%s`", name)
		}
		stat := Stat{Name: name, Modified: info.ModTime(), Size: info.Size()}
		buf.WriteString(stat.String() + "\n")
	}
	return w.write(path, buf.Bytes())
}

// WriteHeadsLog writes the first lines of every file. Files that cannot
// be read get a note instead.
func (w *Writer) WriteHeadsLog(path string, files []string) error {
	var buf bytes.Buffer
	buf.WriteString(HeadsHeader + "\n")
	buf.WriteString(makelog.DashLine + "\n")
	for _, name := range files {
		buf.WriteString(name + "\n")
		buf.WriteString(makelog.DashLine + "\n")
		head, err := w.head(name)
		if err != nil {
			w.logger.Debug().Err(err).Str("file", name).Msg("Head not readable")
			buf.WriteString(fmt.Sprintf("Head not readable or less than %d lines\n", w.headLines))
		} else {
			for _, line := range head {
				buf.WriteString(line + "\n")
			}
		}
		buf.WriteString(makelog.DashLine + "\n")
	}
	return w.write(path, buf.Bytes())
}

func (w *Writer) head(name string) ([]string, error) {
	f, err := w.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var lines []string
	for len(lines) < w.headLines && scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// WriteMapLog writes one `destination | source` line per pair, with
// destinations relative to the working directory
func (w *Writer) WriteMapLog(path string, pairs directive.Map) error {
	var buf bytes.Buffer
	buf.WriteString(MapHeader + "\n")
	for _, pair := range pairs {
		buf.WriteString(paths.RelTo(w.workDir, pair.Destination) + " | " + pair.Source + "\n")
	}
	return w.write(path, buf.Bytes())
}

func (w *Writer) write(path string, data []byte) error {
	path = paths.NormPathIn(w.workDir, path)
	if err := w.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for `%s`", path)
	}
	if err := afero.WriteFile(w.fs, path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write `%s`", path)
	}
	w.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Wrote log")
	return nil
}

// collect globs every root and returns the union, sorted
func (w *Writer) collect(roots []string, depth int) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, root := range roots {
		matches, err := paths.GlobRecursive(w.fs, paths.NormPathIn(w.workDir, root), depth)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
