// Package batch runs a sequence of filesystem steps as one synthfs
// pipeline. Steps act on the caller's afero filesystem; synthfs runs
// them in order under stable IDs and the first failure ends the batch.
package batch

import (
	"context"
	"fmt"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"
)

// Batch collects steps to run together
type Batch struct {
	name   string
	sfs    *synthfs.SynthFS
	ops    []synthfs.Operation
	ids    []string
	failed error
	logger zerolog.Logger
}

// New creates an empty batch. name prefixes the step IDs.
func New(name string) *Batch {
	return &Batch{
		name:   name,
		sfs:    synthfs.New(),
		logger: logging.GetLogger("batch"),
	}
}

// Add appends a step. Steps run in the order they were added and are
// skipped once one has failed.
func (b *Batch) Add(step string, fn func() error) {
	id := fmt.Sprintf("%s_%d_%s", b.name, len(b.ops), step)
	b.ids = append(b.ids, id)
	b.ops = append(b.ops, b.sfs.CustomOperationWithID(id, func(ctx context.Context, _ filesystem.FileSystem) error {
		if b.failed != nil {
			return b.failed
		}
		if err := ctx.Err(); err != nil {
			b.failed = err
			return err
		}
		if err := fn(); err != nil {
			b.logger.Debug().Err(err).Str("step", id).Msg("Batch step failed")
			b.failed = err
			return err
		}
		return nil
	}))
}

// Len is the number of steps added
func (b *Batch) Len() int {
	return len(b.ops)
}

// IDs lists the step IDs in order
func (b *Batch) IDs() []string {
	return append([]string(nil), b.ids...)
}

// Run executes the steps. A failing step's error is returned as the step
// reported it.
func (b *Batch) Run(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = false

	b.logger.Debug().Str("batch", b.name).Int("steps", len(b.ops)).Msg("Running batch")
	_, err := synthfs.RunWithOptions(ctx, target(), options, b.ops...)
	if b.failed != nil {
		return b.failed
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "batch `%s` failed", b.name)
	}
	return nil
}

// target is the filesystem synthfs is handed. Steps capture their own
// filesystem, so it is only used for pipeline bookkeeping.
func target() filesystem.FullFileSystem {
	return synthfs.NewPathAwareFileSystem(filesystem.NewOSFileSystem("/"), "/").WithAbsolutePaths()
}
