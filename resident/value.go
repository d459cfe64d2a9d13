package resident

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnboundValue is returned when a value is used before it has been
	// registered with a surface and initialized.
	ErrUnboundValue = errors.New("resident: value is not bound and initialized")

	// ErrForeignValue is returned when a value registered with one surface
	// is used by another.
	ErrForeignValue = errors.New("resident: value belongs to another surface")

	// ErrValueLength is returned when an assignment does not match the
	// value's dimensionality.
	ErrValueLength = errors.New("resident: value length mismatch")

	// ErrExpression is returned when a composed matrix expression is
	// registered or assigned.
	ErrExpression = errors.New("resident: cannot assign to a matrix expression")
)

// Kind distinguishes matrices from vectors.
type Kind uint8

const (
	KindMatrix Kind = iota
	KindVector
)

// String returns the prefix used in script names.
func (k Kind) String() string {
	if k == KindMatrix {
		return "Matrix"
	}
	return "Vector"
}

// OpKind identifies a deferred matrix operation.
type OpKind uint8

const (
	OpMultiply  OpKind = iota // right-multiply by a constant
	OpTranspose               // transpose
	OpInvert                  // invert; singular matrices yield zero
)

var opKindNames = [...]string{
	OpMultiply:  "Multiply",
	OpTranspose: "Transpose",
	OpInvert:    "Invert",
}

// String returns the operation name.
func (k OpKind) String() string {
	if int(k) < len(opKindNames) {
		return opKindNames[k]
	}
	return "Unknown"
}

// Op is one deferred operation. Operand is only used by OpMultiply.
type Op struct {
	Kind    OpKind
	Operand mgl32.Mat4
}

// Value is implemented by *Matrix4 and *Vector.
type Value interface {
	// ID returns the surface-assigned id, or -1 when unbound.
	ID() int
	// Name returns the script name, such as "Matrix2", or "" when unbound.
	Name() string
	Kind() Kind
	// Len returns the number of float components.
	Len() int
	Initialized() bool
	// Registry returns the owning registry, or nil when unbound.
	Registry() *Registry

	state() *base
}

// base is the identity shared by a value and every expression derived from
// it.
type base struct {
	kind        Kind
	n           int
	id          int
	reg         *Registry
	initialized bool
	shadow      []float32
	// undelivered is set when the server assigned the value after the last
	// render; client echoes are ignored until the assignment is delivered.
	undelivered bool
}

func newBase(kind Kind, n int) *base {
	return &base{kind: kind, n: n, id: -1, shadow: make([]float32, n)}
}

func (b *base) name() string {
	if b.id < 0 {
		return ""
	}
	return b.kind.String() + strconv.Itoa(b.id)
}

// Matrix4 is a client-resident 4x4 matrix, stored column-major like
// mgl32.Mat4. A *Matrix4 with pending operations is an expression.
type Matrix4 struct {
	b   *base
	ops []Op
	err error
}

// NewMatrix4 returns an unbound matrix with an identity shadow.
func NewMatrix4() *Matrix4 {
	b := newBase(KindMatrix, 16)
	id := mgl32.Ident4()
	copy(b.shadow, id[:])
	return &Matrix4{b: b}
}

func (m *Matrix4) ID() int                  { return m.b.id }
func (m *Matrix4) Name() string             { return m.b.name() }
func (m *Matrix4) Kind() Kind               { return KindMatrix }
func (m *Matrix4) Len() int                 { return 16 }
func (m *Matrix4) Initialized() bool        { return m.b.initialized }
func (m *Matrix4) Registry() *Registry      { return m.b.reg }
func (m *Matrix4) state() *base             { return m.b }
func (m *Matrix4) IsExpression() bool       { return len(m.ops) > 0 }
func (m *Matrix4) Err() error               { return m.err }
func (m *Matrix4) String() string           { return fmt.Sprintf("%s%v", m.Name(), m.ops) }
func (m *Matrix4) Base() *Matrix4           { return &Matrix4{b: m.b} }
func (m *Matrix4) SameBase(o *Matrix4) bool { return o != nil && m.b == o.b }

// Ops returns a copy of the pending operations, oldest first.
func (m *Matrix4) Ops() []Op {
	return append([]Op(nil), m.ops...)
}

// Shadow returns the last known value of the underlying matrix, without
// pending operations.
func (m *Matrix4) Shadow() mgl32.Mat4 {
	var out mgl32.Mat4
	copy(out[:], m.b.shadow)
	return out
}

func (m *Matrix4) derive(op Op) *Matrix4 {
	d := &Matrix4{b: m.b, err: m.err}
	d.ops = make([]Op, len(m.ops), len(m.ops)+1)
	copy(d.ops, m.ops)
	d.ops = append(d.ops, op)
	if d.err == nil && (m.b.reg == nil || !m.b.initialized) {
		d.err = fmt.Errorf("%w: cannot compose %s", ErrUnboundValue, opName(op))
	}
	return d
}

func opName(op Op) string { return op.Kind.String() }

// Multiply returns the expression m*o.
func (m *Matrix4) Multiply(o mgl32.Mat4) *Matrix4 {
	return m.derive(Op{Kind: OpMultiply, Operand: o})
}

// Transposed returns the expression transpose(m).
func (m *Matrix4) Transposed() *Matrix4 {
	return m.derive(Op{Kind: OpTranspose})
}

// Inverted returns the expression inverse(m).
func (m *Matrix4) Inverted() *Matrix4 {
	return m.derive(Op{Kind: OpInvert})
}

// Evaluate applies the pending operations to the shadow.
func (m *Matrix4) Evaluate() (mgl32.Mat4, error) {
	if m.err != nil {
		return mgl32.Mat4{}, m.err
	}
	if m.b.reg == nil || !m.b.initialized {
		return mgl32.Mat4{}, ErrUnboundValue
	}
	return Apply(m.Shadow(), m.ops), nil
}

// Apply evaluates ops against v.
func Apply(v mgl32.Mat4, ops []Op) mgl32.Mat4 {
	for _, op := range ops {
		switch op.Kind {
		case OpMultiply:
			v = v.Mul4(op.Operand)
		case OpTranspose:
			v = v.Transpose()
		case OpInvert:
			v = v.Inv()
		}
	}
	return v
}

// Vector is a client-resident float vector of fixed length.
type Vector struct {
	b *base
}

// NewVector returns an unbound vector of n zero components.
func NewVector(n int) *Vector {
	if n < 0 {
		n = 0
	}
	return &Vector{b: newBase(KindVector, n)}
}

func (v *Vector) ID() int             { return v.b.id }
func (v *Vector) Name() string        { return v.b.name() }
func (v *Vector) Kind() Kind          { return KindVector }
func (v *Vector) Len() int            { return v.b.n }
func (v *Vector) Initialized() bool   { return v.b.initialized }
func (v *Vector) Registry() *Registry { return v.b.reg }
func (v *Vector) state() *base        { return v.b }

// Value returns a copy of the last known value.
func (v *Vector) Value() []float32 {
	return append([]float32(nil), v.b.shadow...)
}

var (
	_ Value = (*Matrix4)(nil)
	_ Value = (*Vector)(nil)
)
