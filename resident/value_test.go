package resident

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func boundMatrix(t *testing.T, r *Registry, v mgl32.Mat4) *Matrix4 {
	t.Helper()
	m := NewMatrix4()
	if err := r.Add(m); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.AssignMatrix4(m, v); err != nil {
		t.Fatalf("AssignMatrix4: %v", err)
	}
	return m
}

func TestEvaluateMatchesDirectComputation(t *testing.T) {
	r := NewRegistry()
	shadow := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(0.4))
	m := boundMatrix(t, r, shadow)

	a := mgl32.Scale3D(2, 2, 2)
	b := mgl32.HomogRotate3DX(1.1)
	expr := m.Multiply(a).Transposed().Multiply(b)

	got, err := expr.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := shadow.Mul4(a).Transpose().Mul4(b)
	if !got.ApproxEqual(want) {
		t.Errorf("Evaluate() = %v, want %v", got, want)
	}
}

func TestCompositionDoesNotMutateReceiver(t *testing.T) {
	r := NewRegistry()
	m := boundMatrix(t, r, mgl32.Ident4())
	inv := m.Inverted()
	if m.IsExpression() {
		t.Error("receiver became an expression")
	}
	if got := len(inv.Ops()); got != 1 {
		t.Errorf("len(Ops()) = %d, want 1", got)
	}
	if !inv.SameBase(m) || inv.ID() != m.ID() {
		t.Error("expression does not share the base identity")
	}
}

func TestInvertSingularYieldsZero(t *testing.T) {
	got := Apply(mgl32.Mat4{}, []Op{{Kind: OpInvert}})
	if got != (mgl32.Mat4{}) {
		t.Errorf("inverse of singular = %v, want zero", got)
	}
}

func TestComposeUnboundReportsError(t *testing.T) {
	m := NewMatrix4()
	expr := m.Multiply(mgl32.Ident4())
	if !errors.Is(expr.Err(), ErrUnboundValue) {
		t.Errorf("Err() = %v, want ErrUnboundValue", expr.Err())
	}
	if _, err := expr.Evaluate(); !errors.Is(err, ErrUnboundValue) {
		t.Errorf("Evaluate() err = %v, want ErrUnboundValue", err)
	}
	// The error sticks through further composition.
	if err := expr.Transposed().Err(); !errors.Is(err, ErrUnboundValue) {
		t.Errorf("chained Err() = %v", err)
	}
}

func TestVectorShadowVisibleImmediately(t *testing.T) {
	r := NewRegistry()
	v := NewVector(3)
	if err := r.Add(v); err != nil {
		t.Fatal(err)
	}
	if err := r.Assign(v, []float32{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	got := v.Value()
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("Value() = %v, want [1 2 3]", got)
	}
}

func TestAssignErrors(t *testing.T) {
	r := NewRegistry()
	other := NewRegistry()

	v := NewVector(2)
	if err := r.Assign(v, []float32{1, 2}); !errors.Is(err, ErrUnboundValue) {
		t.Errorf("unbound Assign err = %v", err)
	}
	if err := r.Add(v); err != nil {
		t.Fatal(err)
	}
	if err := r.Assign(v, []float32{1}); !errors.Is(err, ErrValueLength) {
		t.Errorf("short Assign err = %v", err)
	}
	if err := other.Add(v); !errors.Is(err, ErrForeignValue) {
		t.Errorf("Add to second registry err = %v", err)
	}
	if err := other.Assign(v, []float32{1, 2}); !errors.Is(err, ErrForeignValue) {
		t.Errorf("foreign Assign err = %v", err)
	}

	m := boundMatrix(t, r, mgl32.Ident4())
	if err := r.AssignMatrix4(m.Transposed(), mgl32.Ident4()); !errors.Is(err, ErrExpression) {
		t.Errorf("assign to expression err = %v", err)
	}
}

func TestCheck(t *testing.T) {
	r := NewRegistry()
	v := NewVector(1)
	if err := r.Check(v); !errors.Is(err, ErrUnboundValue) {
		t.Errorf("Check(unbound) = %v", err)
	}
	_ = r.Add(v)
	if err := r.Check(v); !errors.Is(err, ErrUnboundValue) {
		t.Errorf("Check(uninitialized) = %v", err)
	}
	_ = r.Assign(v, []float32{5})
	if err := r.Check(v); err != nil {
		t.Errorf("Check(initialized) = %v", err)
	}
	if err := NewRegistry().Check(v); !errors.Is(err, ErrForeignValue) {
		t.Errorf("Check from other registry = %v", err)
	}
}

func TestIDsShareCounter(t *testing.T) {
	r := NewRegistry()
	m := NewMatrix4()
	v := NewVector(4)
	_ = r.Add(m)
	_ = r.Add(v)
	if m.Name() != "Matrix0" || v.Name() != "Vector1" {
		t.Errorf("names = %q, %q, want Matrix0, Vector1", m.Name(), v.Name())
	}
	if got, ok := r.Lookup("Vector1"); !ok || got != Value(v) {
		t.Error("Lookup(Vector1) did not return the vector")
	}
}

func TestSync(t *testing.T) {
	r := NewRegistry()
	m := boundMatrix(t, r, mgl32.Ident4())
	v := NewVector(3)
	_ = r.Add(v)
	_ = r.Assign(v, []float32{0, 0, 0})
	r.Delivered()

	enc := "Matrix0:1,0,0,0,0,1,0,0,0,0,1,0,5,6,7,1;Vector1:1,Infinity,-Infinity;"
	if err := r.Sync(enc); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if got := m.Shadow().Col(3); got != (mgl32.Vec4{5, 6, 7, 1}) {
		t.Errorf("translation column = %v, want [5 6 7 1]", got)
	}
	got := v.Value()
	if got[0] != 1 || !math.IsInf(float64(got[1]), 1) || !math.IsInf(float64(got[2]), -1) {
		t.Errorf("vector = %v, want [1 +Inf -Inf]", got)
	}
}

func TestSyncIgnoresEchoOfUndeliveredAssignment(t *testing.T) {
	r := NewRegistry()
	v := NewVector(1)
	_ = r.Add(v)
	_ = r.Assign(v, []float32{9})

	if err := r.Sync("Vector0:1"); err != nil {
		t.Fatal(err)
	}
	if got := v.Value()[0]; got != 9 {
		t.Errorf("shadow = %v, want 9 (client echo before delivery ignored)", got)
	}
	r.Delivered()
	_ = r.Sync("Vector0:1")
	if got := v.Value()[0]; got != 1 {
		t.Errorf("shadow = %v, want 1 after delivery", got)
	}
}

func TestSyncReportsBadEntries(t *testing.T) {
	r := NewRegistry()
	v := NewVector(2)
	_ = r.Add(v)
	_ = r.Assign(v, []float32{0, 0})
	r.Delivered()

	err := r.Sync("Nope3:1;Vector0:1,x;garbage;Vector0:3,4")
	if err == nil {
		t.Fatal("Sync returned nil for bad entries")
	}
	if got := v.Value(); got[0] != 3 || got[1] != 4 {
		t.Errorf("valid entry not applied: %v", got)
	}
	if err := r.Sync("Vector0:1"); !errors.Is(err, ErrValueLength) {
		t.Errorf("short entry err = %v, want ErrValueLength", err)
	}
}
