package recording

import (
	"fmt"

	"github.com/gogpu/glsurface/internal/logger"
	"github.com/gogpu/glsurface/resident"
)

// DefaultInlineLimit is the number of array elements above which uploads
// are externalized as binary resources instead of inlined into script.
const DefaultInlineLimit = 4096

// Recorder is the WebGL-shaped API handed to phase callbacks. Each call
// appends one command to the phase buffer being built; handles are
// allocated at record time so they can be stored and used by later phases.
//
// Contract violations (null, stale or foreign handles, unbound values,
// calls outside a phase) abort the callback at the offending call. Run
// returns them as its error. Recorder methods called while no phase is
// being recorded panic with ErrOutsidePhase.
//
// Recorder is not safe for concurrent use.
type Recorder struct {
	objects     *ObjectTable
	values      *resident.Registry
	resources   *ResourcePool
	inlineLimit int

	active *PhaseBuffer
	bind   bindings
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithInlineLimit sets the element count above which uploads are
// externalized. Zero or negative disables automatic externalization.
func WithInlineLimit(n int) RecorderOption {
	return func(r *Recorder) { r.inlineLimit = n }
}

// NewRecorder returns a recorder with fresh handle, value and resource
// tables.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		objects:     NewObjectTable(),
		values:      resident.NewRegistry(),
		resources:   NewResourcePool(),
		inlineLimit: DefaultInlineLimit,
	}
	r.bind.reset()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Objects returns the handle table.
func (r *Recorder) Objects() *ObjectTable { return r.objects }

// Values returns the client-resident value registry.
func (r *Recorder) Values() *resident.Registry { return r.values }

// Resources returns the binary resource pool.
func (r *Recorder) Resources() *ResourcePool { return r.resources }

// Phase returns the phase being recorded and whether one is active.
func (r *Recorder) Phase() (Phase, bool) {
	if r.active == nil {
		return 0, false
	}
	return r.active.phase, true
}

// recordError carries a contract violation from the failing call up to Run.
type recordError struct{ err error }

func (r *Recorder) fail(err error) {
	panic(recordError{err})
}

// Run records one phase: it opens a building buffer, calls fn and finalizes
// the buffer. When fn violates a contract the partially built buffer is
// discarded and the violation is returned.
func (r *Recorder) Run(phase Phase, fn func(*Recorder)) (buf *PhaseBuffer, err error) {
	if r.active != nil {
		return nil, fmt.Errorf("recording: %s started while %s is recording", phase, r.active.phase)
	}
	buf = NewPhaseBuffer(phase)
	r.active = buf
	defer func() {
		r.active = nil
		if e := recover(); e != nil {
			re, ok := e.(recordError)
			if !ok {
				panic(e)
			}
			buf, err = nil, fmt.Errorf("%s: %w", phase, re.err)
			return
		}
		buf.Finalize()
		logger.Get().Debug("recording: phase finalized", "phase", phase, "commands", buf.Len())
	}()
	fn(r)
	return buf, nil
}

// Reset releases every live handle and forgets the binding state, for
// recovery after the GL context was lost. Value registrations and pooled
// resources are kept. The released handles are returned so the client can
// drop its references.
func (r *Recorder) Reset() []Object {
	r.bind.reset()
	return r.objects.ReleaseAll()
}

func (r *Recorder) buffer() *PhaseBuffer {
	if r.active == nil {
		panic(ErrOutsidePhase)
	}
	return r.active
}

func (r *Recorder) record(op Opcode, args ...Arg) {
	r.emit(Command{Op: op, Args: args})
}

func (r *Recorder) emit(c Command) {
	if err := r.buffer().Append(c); err != nil {
		r.fail(err)
	}
}

// allocate creates a handle and records its creation.
func (r *Recorder) allocate(kind Kind, op Opcode, args ...Arg) Object {
	r.buffer()
	o := r.objects.Allocate(kind)
	r.emit(Command{Op: op, Args: args, Result: o})
	return o
}

// ref validates o for use as an argument. Null passes only when nullable.
func (r *Recorder) ref(kind Kind, o Object, nullable bool) Arg {
	r.buffer()
	if o.IsNull() {
		if nullable {
			return ObjectArg(Object{kind: kind})
		}
		r.fail(fmt.Errorf("%w: %s", ErrNullHandle, kind))
	}
	if o.kind != kind {
		r.fail(fmt.Errorf("%w: %s used as %s", ErrStaleHandle, o, kind))
	}
	if err := r.objects.Validate(o); err != nil {
		r.fail(err)
	}
	return ObjectArg(o)
}

// release validates and releases o, recording the deletion. Deleting the
// null handle is a no-op, as in WebGL.
func (r *Recorder) release(kind Kind, o Object, op Opcode) {
	r.buffer()
	if o.IsNull() {
		return
	}
	arg := r.ref(kind, o, false)
	_ = r.objects.Release(o)
	r.bind.forget(o)
	r.record(op, arg)
}

func (r *Recorder) value(v resident.Value) Arg {
	r.buffer()
	if err := r.values.Check(v); err != nil {
		r.fail(err)
	}
	return ValueArg(v)
}
