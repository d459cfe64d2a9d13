package recording

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glsurface/resident"
)

// AddValue binds v to this surface.
func (r *Recorder) AddValue(v resident.Value) {
	r.buffer()
	if err := r.values.Add(v); err != nil {
		r.fail(err)
	}
}

// CreateMatrix4 returns a matrix bound to this surface and initialized to
// the identity.
func (r *Recorder) CreateMatrix4() *resident.Matrix4 {
	m := resident.NewMatrix4()
	r.AddValue(m)
	r.InitializeMatrix4(m, mgl32.Ident4())
	return m
}

// CreateVector returns a zero vector of n components bound to this surface.
func (r *Recorder) CreateVector(n int) *resident.Vector {
	v := resident.NewVector(n)
	r.AddValue(v)
	r.InitializeVector(v, make([]float32, n))
	return v
}

// InitializeMatrix4 records the initial client value of m. The matrix must
// already be bound to this surface.
func (r *Recorder) InitializeMatrix4(m *resident.Matrix4, v mgl32.Mat4) {
	r.assign(OpInitValue, m, v[:])
}

// InitializeVector records the initial client value of v.
func (r *Recorder) InitializeVector(v *resident.Vector, data []float32) {
	r.assign(OpInitValue, v, data)
}

// SetMatrix4 assigns a new value to an initialized matrix. The shadow is
// updated immediately.
func (r *Recorder) SetMatrix4(m *resident.Matrix4, v mgl32.Mat4) {
	r.requireInitialized(m)
	r.assign(OpSetValue, m, v[:])
}

// SetVector assigns a new value to an initialized vector.
func (r *Recorder) SetVector(v *resident.Vector, data []float32) {
	r.requireInitialized(v)
	r.assign(OpSetValue, v, data)
}

func (r *Recorder) requireInitialized(v resident.Value) {
	r.buffer()
	if v.Registry() == r.values && !v.Initialized() {
		r.fail(fmt.Errorf("%w: %s assigned before initialization", resident.ErrUnboundValue, v.Name()))
	}
}

func (r *Recorder) assign(op Opcode, v resident.Value, data []float32) {
	r.buffer()
	if err := r.values.Assign(v, data); err != nil {
		r.fail(err)
	}
	r.record(op, ValueArg(v), FloatsArg(data))
}

// UniformMatrix4Value uploads a client-resident matrix or matrix
// expression. The client evaluates it in the browser at paint time; the
// server evaluates it against the shadow at replay time.
func (r *Recorder) UniformMatrix4Value(loc UniformLocation, m *resident.Matrix4) {
	r.uniform(OpUniformMatrix4fv, loc, BoolArg(false), r.value(m))
}

// UniformVector uploads a client-resident vector of length 1 to 4 with the
// matching uniform{n}fv call.
func (r *Recorder) UniformVector(loc UniformLocation, v *resident.Vector) {
	ops := [...]Opcode{OpUniform1fv, OpUniform2fv, OpUniform3fv, OpUniform4fv}
	n := v.Len()
	if n < 1 || n > len(ops) {
		r.fail(fmt.Errorf("%w: uniform vector of length %d", resident.ErrValueLength, n))
	}
	r.uniform(ops[n-1], loc, r.value(v))
}
