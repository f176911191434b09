package scratchmap

import (
	"context"
	"errors"
	"os"

	"github.com/hupe1980/scratchmap/internal/fs"
	"github.com/hupe1980/scratchmap/internal/mmap"
)

// Result describes a run. It is returned by Run on success and on failure;
// fields are filled in as far as the run got.
type Result struct {
	Path string
	Size int
	// Addr is the base address of the mapping. Informational only.
	Addr    uintptr
	Written string
	Read    string
	// Steps lists the states reached, in order.
	Steps []Step
}

// Step returns the last state reached.
func (r *Result) Step() Step {
	if len(r.Steps) == 0 {
		return StepUnopened
	}
	return r.Steps[len(r.Steps)-1]
}

// release is a pending cleanup obligation.
type release struct {
	op string
	fn func() error
}

// scratchBuffer holds the state of one run. Every acquired resource pushes
// its release onto pending; the normal path takes its release back off the
// stack before performing it, so nothing is released twice.
type scratchBuffer struct {
	opts    options
	log     *Logger
	res     *Result
	pending []release

	file    fs.File
	mapping *mmap.Mapping
}

// Run executes the scratch buffer lifecycle: open (or create) the backing
// file, size it, map it shared read-write, unlink it, close the descriptor,
// write the message, read it back and unmap.
//
// The first failing step stops the run. Everything acquired up to that point
// is released in reverse acquisition order before Run returns; a failed
// release is joined to the original error as a *CleanupError.
func Run(ctx context.Context, optFns ...Option) (*Result, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	b := &scratchBuffer{
		opts: o,
		log:  o.logger.WithPath(o.path).WithSize(o.size),
		res: &Result{
			Path:  o.path,
			Size:  o.size,
			Steps: []Step{StepUnopened},
		},
	}

	if err := b.run(ctx); err != nil {
		b.advance(StepFailed)
		if cerr := b.unwind(ctx); cerr != nil {
			return b.res, errors.Join(err, cerr)
		}
		return b.res, err
	}
	return b.res, nil
}

func (b *scratchBuffer) run(ctx context.Context) error {
	if err := b.step(ctx, StepOpened, b.open); err != nil {
		return err
	}
	if err := b.step(ctx, StepSized, b.resize); err != nil {
		return err
	}
	if err := b.step(ctx, StepMapped, b.mapRegion); err != nil {
		return err
	}
	if b.opts.unlink {
		if err := b.step(ctx, StepUnlinked, b.unlinkPath); err != nil {
			return err
		}
	}
	if err := b.step(ctx, StepDescriptorClosed, b.closeDescriptor); err != nil {
		return err
	}
	if err := b.step(ctx, StepWritten, b.write); err != nil {
		return err
	}
	if err := b.step(ctx, StepRead, b.read); err != nil {
		return err
	}
	if err := b.step(ctx, StepUnmapped, b.unmapRegion); err != nil {
		return err
	}
	b.advance(StepDone)
	return nil
}

// step runs fn to move into next. The context is only consulted between
// steps; system calls are not interruptible.
func (b *scratchBuffer) step(ctx context.Context, next Step, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := fn()
	b.log.LogStep(ctx, next, err)
	if err != nil {
		return err
	}
	b.advance(next)
	return nil
}

func (b *scratchBuffer) advance(s Step) {
	b.res.Steps = append(b.res.Steps, s)
	if b.opts.observe != nil {
		b.opts.observe(s)
	}
}

func (b *scratchBuffer) open() error {
	f, err := b.opts.fs.OpenFile(b.opts.path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return b.fail(ErrOpen, "open", err)
	}
	b.file = f
	b.push("close", f.Close)
	return nil
}

func (b *scratchBuffer) resize() error {
	if err := b.file.Truncate(int64(b.opts.size)); err != nil {
		return b.fail(ErrResize, "ftruncate", err)
	}
	return nil
}

func (b *scratchBuffer) mapRegion() error {
	m, err := b.opts.mapFile(b.file.Fd(), b.opts.size)
	if err != nil {
		return b.fail(ErrMap, "mmap", err)
	}
	b.mapping = m
	b.res.Addr = m.Addr()
	b.push("munmap", func() error { return b.opts.unmap(m) })
	return nil
}

func (b *scratchBuffer) unlinkPath() error {
	if err := b.opts.fs.Remove(b.opts.path); err != nil {
		return b.fail(ErrUnlink, "unlink", err)
	}
	return nil
}

func (b *scratchBuffer) closeDescriptor() error {
	b.take("close")
	if err := b.file.Close(); err != nil {
		return b.fail(ErrClose, "close", err)
	}
	return nil
}

func (b *scratchBuffer) write() error {
	n, err := b.mapping.WriteString(b.opts.message)
	if err != nil {
		return b.fail(ErrWrite, "write", err)
	}
	// What was actually stored: cut at the first NUL or the region length.
	b.res.Written = b.opts.message[:n]
	return nil
}

func (b *scratchBuffer) read() error {
	s, err := b.mapping.ReadString()
	if err != nil {
		return b.fail(ErrRead, "read", err)
	}
	b.res.Read = s
	return nil
}

func (b *scratchBuffer) unmapRegion() error {
	b.take("munmap")
	if err := b.opts.unmap(b.mapping); err != nil {
		return b.fail(ErrUnmap, "munmap", err)
	}
	return nil
}

func (b *scratchBuffer) fail(kind error, op string, err error) error {
	return &StepError{Kind: kind, Op: op, Path: b.opts.path, Err: err}
}

func (b *scratchBuffer) push(op string, fn func() error) {
	b.pending = append(b.pending, release{op: op, fn: fn})
}

// take removes the pending release for op, if any.
func (b *scratchBuffer) take(op string) {
	for i := len(b.pending) - 1; i >= 0; i-- {
		if b.pending[i].op == op {
			b.pending = append(b.pending[:i], b.pending[i+1:]...)
			return
		}
	}
}

// unwind runs the pending releases in reverse acquisition order.
func (b *scratchBuffer) unwind(ctx context.Context) error {
	var errs []error
	for i := len(b.pending) - 1; i >= 0; i-- {
		r := b.pending[i]
		err := r.fn()
		b.log.LogCleanup(ctx, r.op, err)
		if err != nil {
			errs = append(errs, &CleanupError{Op: r.op, Err: err})
		}
	}
	b.pending = nil
	return errors.Join(errs...)
}
