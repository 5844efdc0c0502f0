// Package makelog writes the makelog: the append-only text log a module
// build leaves behind. A Session owns one makelog file and tracks its
// lifecycle explicitly instead of through process-wide state.
package makelog

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/filesystem"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// DashLine delimits banners in the makelog and in the output logs
var DashLine = strings.Repeat("-", 80)

// StarLine frames error messages
var StarLine = strings.Repeat("*", 80)

// TimeLayout is the timestamp format of banners
const TimeLayout = "2006-01-02 15:04:05"

// State of a Session
type State int

const (
	NotStarted State = iota
	Started
	Ended
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Started:
		return "started"
	case Ended:
		return "ended"
	}
	return "unknown"
}

// Session is a makelog moving through NotStarted -> Started -> Ended.
// A session created with an empty path is disabled and every call is a
// no-op.
type Session struct {
	fs      afero.Fs
	path    string
	workDir string
	state   State
	now     func() time.Time
	logger  zerolog.Logger
}

// Option customizes a Session
type Option func(*Session)

// WithClock replaces time.Now for banner timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a session for the makelog at path. workDir is recorded in
// the banners.
func New(fsys afero.Fs, path, workDir string, opts ...Option) *Session {
	s := &Session{
		fs:      fsys,
		path:    path,
		workDir: workDir,
		now:     time.Now,
		logger:  logging.GetLogger("makelog"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Disabled returns a session that records nothing
func Disabled() *Session {
	return New(nil, "", "")
}

// Path returns the makelog path, empty for a disabled session
func (s *Session) Path() string { return s.path }

// Enabled reports whether the session writes a file
func (s *Session) Enabled() bool { return s.path != "" }

// State returns the lifecycle state
func (s *Session) State() State { return s.state }

// Start creates or truncates the makelog, creating parent directories,
// and writes the opening banner.
func (s *Session) Start() error {
	if !s.Enabled() {
		s.state = Started
		return nil
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for makelog `%s`", s.path)
	}
	if err := afero.WriteFile(s.fs, s.path, []byte(s.banner("Makelog started: ")), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot start makelog `%s`", s.path)
	}

	s.state = Started
	s.logger.Debug().Str("path", s.path).Msg("Makelog started")
	return nil
}

// End writes the closing banner. Writes after End fail.
func (s *Session) End() error {
	if !s.Enabled() {
		s.state = Ended
		return nil
	}
	if err := s.Write(strings.TrimSuffix(s.banner("Makelog ended: "), "\n")); err != nil {
		return err
	}
	s.state = Ended
	s.logger.Debug().Str("path", s.path).Msg("Makelog ended")
	return nil
}

// Write appends message and a newline. It fails with the no-makelog
// error unless the session is started and the file still exists.
func (s *Session) Write(message string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.check(); err != nil {
		return err
	}
	if err := filesystem.AppendFile(s.fs, s.path, []byte(message+"\n")); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write to makelog `%s`", s.path)
	}
	return nil
}

// AppendFile copies the content of name into the makelog
func (s *Session) AppendFile(name string) error {
	if !s.Enabled() {
		return nil
	}
	data, err := afero.ReadFile(s.fs, name)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read `%s`", name)
	}
	return s.Write(strings.TrimRight(string(data), "\n"))
}

// LogError appends err, framed and followed by its trace, and returns
// err unchanged so callers can `return s.LogError(err)`. A failure to
// write is logged but does not replace err.
func (s *Session) LogError(err error) error {
	if err == nil || !s.Enabled() || s.state != Started {
		return err
	}
	if werr := s.Write(FormatError(err)); werr != nil {
		s.logger.Warn().Err(werr).Msg("Could not record error in makelog")
	}
	return err
}

// FormatError renders err the way it appears in the makelog
func FormatError(err error) string {
	msg := StarLine + "\n" + strings.TrimSpace(err.Error()) + "\n" + StarLine
	if trace := errors.GetTrace(err); trace != "" {
		msg += "\n\n" + strings.TrimSpace(trace)
	}
	return msg
}

func (s *Session) check() error {
	if s.state == Started {
		if _, err := s.fs.Stat(s.path); err == nil {
			return nil
		}
	}
	return errors.Newf(errors.ErrNoMakelog,
		"makelog `%s` cannot be found; this could be because the makelog was not started, "+
			"was ended, or was deleted or moved after it started", s.path).
		WithDetail("state", s.state.String())
}

func (s *Session) banner(title string) string {
	var b strings.Builder
	b.WriteString(DashLine + "\n")
	b.WriteString(title + s.now().Format(TimeLayout) + "\n")
	b.WriteString("Working directory: " + s.workDir + "\n")
	b.WriteString(DashLine + "\n")
	return b.String()
}
