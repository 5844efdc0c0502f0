package directive

import (
	"bufio"
	"bytes"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const lineFormatHint = "link/copy instructions should be specified in the following format: `destination | source`"

// Parser reads instruction files into directives
type Parser struct {
	fs      afero.Fs
	workDir string
	logger  zerolog.Logger
}

// NewParser creates a parser. Relative sources and instruction file
// patterns resolve against workDir.
func NewParser(fsys afero.Fs, workDir string) *Parser {
	return &Parser{
		fs:      fsys,
		workDir: workDir,
		logger:  logging.GetLogger("directive.parser"),
	}
}

// ParseFiles parses every instruction file matched by the given patterns.
// Destinations are placed under moveDir. It fails when no pattern
// matches any file.
func (p *Parser) ParseFiles(patterns []string, moveDir string, mapping map[string]string) ([]Directive, error) {
	files, err := p.resolveFiles(patterns)
	if err != nil {
		return nil, err
	}
	moveDir = paths.NormPathIn(p.workDir, moveDir)

	var directives []Directive
	for _, file := range files {
		lines, err := p.readLines(file)
		if err != nil {
			return nil, err
		}
		for _, raw := range lines {
			d, err := p.ParseLine(file, raw, moveDir, mapping)
			if err != nil {
				return nil, err
			}
			directives = append(directives, d)
		}
	}

	p.logger.Debug().
		Int("files", len(files)).
		Int("directives", len(directives)).
		Str("moveDir", moveDir).
		Msg("Parsed instruction files")
	return directives, nil
}

// ParseLine turns a single raw instruction line into a directive and
// checks that its source exists.
func (p *Parser) ParseLine(file, raw, moveDir string, mapping map[string]string) (Directive, error) {
	line, err := Substitute(raw, mapping)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrPathMapping) {
			key, _ := errors.GetErrorDetails(err)["key"].(string)
			return Directive{}, errors.Newf(errors.ErrPathMapping,
				"argument `paths` is missing a value for key `%s`; `{%s}` found in the following instruction in file `%s`: `%s`",
				key, key, file, raw).
				WithDetail("key", key).
				WithDetail("file", file).
				WithDetail("line", raw).
				WithTrace("confirm that your user config contains an external dependency for {" + key + "} and that it has been loaded")
		}
		return Directive{}, errors.Wrapf(err, errors.ErrSyntax,
			"cannot parse the following instruction in file `%s`: `%s`", file, raw)
	}

	fields := strings.Split(line, "|")
	if len(fields) != 2 {
		return Directive{}, errors.Newf(errors.ErrSyntax,
			"an error was encountered with the following instruction in file `%s`: `%s`; %s",
			file, raw, lineFormatHint).
			WithDetail("file", file).
			WithDetail("line", raw)
	}
	dest := cleanField(fields[0])
	src := cleanField(fields[1])

	d := Directive{
		File:           file,
		RawLine:        raw,
		Line:           line,
		RawSource:      src,
		RawDestination: dest,
		Source:         paths.NormPathIn(p.workDir, src),
		Destination:    paths.NormPathIn(p.workDir, filepath.Join(moveDir, dest)),
	}

	if strings.Count(d.Source, Wildcard) != strings.Count(d.Destination, Wildcard) {
		return Directive{}, errors.Newf(errors.ErrSyntax,
			"destination and source must have same number of wildcards (`*`); fix the following instruction in file `%s`: `%s`",
			file, raw).
			WithDetail("file", file).
			WithDetail("line", raw)
	}

	if err := p.checkSource(d); err != nil {
		return Directive{}, err
	}
	return d, nil
}

func (p *Parser) checkSource(d Directive) error {
	if d.HasWildcard() {
		matches, err := afero.Glob(p.fs, d.Source)
		if err != nil {
			return errors.Wrapf(err, errors.ErrSyntax, "bad source pattern `%s`", d.Source)
		}
		if len(matches) == 0 {
			return errors.Newf(errors.ErrNotFound,
				"paths matching pattern `%s` cannot be found", d.Source).
				WithDetail("file", d.File)
		}
		return nil
	}
	if _, err := p.fs.Stat(d.Source); err != nil {
		return errors.Newf(errors.ErrNotFound, "path `%s` cannot be found", d.Source).
			WithDetail("file", d.File)
	}
	return nil
}

func (p *Parser) resolveFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := afero.Glob(p.fs, paths.NormPathIn(p.workDir, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSyntax, "bad instruction file pattern `%s`", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, errors.Newf(errors.ErrNotFound,
			"files matching pattern %s cannot be found", formatList(patterns)).
			WithDetail("patterns", patterns)
	}
	return files, nil
}

// readLines returns the trimmed non-empty, non-comment lines of file
func (p *Parser) readLines(file string) ([]string, error) {
	data, err := afero.ReadFile(p.fs, file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read instruction file `%s`", file)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read instruction file `%s`", file)
	}
	return lines, nil
}

func cleanField(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

func formatList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "`" + item + "`"
	}
	return strings.Join(quoted, ", ")
}
