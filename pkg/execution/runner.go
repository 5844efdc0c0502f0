package execution

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/rs/zerolog"
)

// Runner starts processes and resolves executables
type Runner interface {
	// Run waits for the command to finish. A non-zero exit is reported
	// through Result.ExitCode; the error is reserved for commands that
	// could not be started at all.
	Run(ctx context.Context, cmd Command) (Result, error)
	// LookPath resolves an executable name the way Run would
	LookPath(name string) (string, error)
}

// OSRunner runs commands with os/exec
type OSRunner struct {
	logger zerolog.Logger
}

// NewOSRunner creates a runner backed by real processes
func NewOSRunner() *OSRunner {
	return &OSRunner{logger: logging.GetLogger("execution")}
}

// LookPath implements Runner
func (r *OSRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run implements Runner
func (r *OSRunner) Run(ctx context.Context, c Command) (Result, error) {
	if c.Name == "" {
		return Result{}, errors.New(errors.ErrBadCommand, "command has no executable")
	}
	logging.LogCommand(r.logger, c.Name, c.Args, c.Dir)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	if c.Stdin != "" {
		in, err := os.Open(c.Stdin)
		if err != nil {
			return Result{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot open `%s` for input", c.Stdin)
		}
		defer func() { _ = in.Close() }()
		cmd.Stdin = in
	}

	var stdout, stderr bytes.Buffer
	combined := &lockedBuffer{}
	cmd.Stdout = io.MultiWriter(&stdout, combined)
	cmd.Stderr = io.MultiWriter(&stderr, combined)

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			r.logger.Debug().
				Str("command", c.String()).
				Int("exitCode", res.ExitCode).
				Str("stderr", res.Stderr).
				Msg("Command exited with errors")
			return res, nil
		}
		return res, errors.Wrapf(err, errors.ErrBadCommand,
			"the following command cannot be executed by operating system: %s", c.String()).
			WithTrace(err.Error())
	}

	r.logger.Debug().
		Str("command", c.Name).
		Dur("duration", res.Duration).
		Msg("Command finished")
	return res, nil
}

// lockedBuffer serializes the stdout and stderr copy goroutines
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
