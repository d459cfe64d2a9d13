package recording

import (
	"fmt"
	"strconv"
)

// Kind identifies the class of a GL object handle.
type Kind uint8

const (
	KindShader Kind = iota
	KindProgram
	KindBuffer
	KindTexture
	KindFramebuffer
	KindRenderbuffer
	KindAttribLocation
	KindUniformLocation
	KindArrayBuffer

	kindCount
)

var kindNames = [...]string{
	KindShader:          "Shader",
	KindProgram:         "Program",
	KindBuffer:          "Buffer",
	KindTexture:         "Texture",
	KindFramebuffer:     "Framebuffer",
	KindRenderbuffer:    "Renderbuffer",
	KindAttribLocation:  "Attrib",
	KindUniformLocation: "Uniform",
	KindArrayBuffer:     "BufferResource",
}

// String returns the name used in client script references.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Object is an opaque handle to a GL object of one surface. The zero value
// is the null handle.
type Object struct {
	kind  Kind
	id    int32
	table *ObjectTable
}

// Kind returns the object class.
func (o Object) Kind() Kind { return o.kind }

// ID returns the per-kind index, or -1 for the null handle.
func (o Object) ID() int32 {
	if o.table == nil {
		return -1
	}
	return o.id
}

// IsNull reports whether o is the null handle.
func (o Object) IsNull() bool { return o.table == nil }

// String returns "<Kind><id>", or "null".
func (o Object) String() string {
	if o.IsNull() {
		return "null"
	}
	return o.kind.String() + strconv.Itoa(int(o.id))
}

// Typed handles. Each wraps an Object of the matching kind so that passing
// the wrong class of object does not compile.
type (
	Shader          struct{ Object }
	Program         struct{ Object }
	Buffer          struct{ Object }
	Texture         struct{ Object }
	Framebuffer     struct{ Object }
	Renderbuffer    struct{ Object }
	AttribLocation  struct{ Object }
	UniformLocation struct{ Object }
	ArrayBuffer     struct{ Object }
)

// ObjectTable allocates handles for one surface. Slots are keyed by kind and
// index; indices grow monotonically and are never reused, so a released
// handle can never alias a later allocation.
//
// ObjectTable is not safe for concurrent use.
type ObjectTable struct {
	live [kindCount][]bool
}

// NewObjectTable returns an empty table.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{}
}

// Allocate returns a new live handle of the given kind.
func (t *ObjectTable) Allocate(kind Kind) Object {
	slots := &t.live[kind]
	*slots = append(*slots, true)
	// #nosec G115 -- handle counts stay far below int32 range
	return Object{kind: kind, id: int32(len(*slots) - 1), table: t}
}

// Validate reports whether o is a live handle of this table.
func (t *ObjectTable) Validate(o Object) error {
	switch {
	case o.IsNull():
		return fmt.Errorf("%w: %s", ErrNullHandle, o.kind)
	case o.table != t:
		return fmt.Errorf("%w: %s", ErrForeignHandle, o)
	case o.kind >= kindCount || int(o.id) >= len(t.live[o.kind]) || o.id < 0:
		return fmt.Errorf("%w: %s was never allocated", ErrStaleHandle, o)
	case !t.live[o.kind][o.id]:
		return fmt.Errorf("%w: %s was released", ErrStaleHandle, o)
	}
	return nil
}

// Release marks o as released. Later validation of o fails.
func (t *ObjectTable) Release(o Object) error {
	if err := t.Validate(o); err != nil {
		return err
	}
	t.live[o.kind][o.id] = false
	return nil
}

// ReleaseAll releases every live handle and returns them in kind and index
// order. Counters are kept, so handles allocated afterwards get fresh ids.
func (t *ObjectTable) ReleaseAll() []Object {
	var out []Object
	for k := range t.live {
		for i, live := range t.live[k] {
			if live {
				t.live[k][i] = false
				// #nosec G115 -- see Allocate
				out = append(out, Object{kind: Kind(k), id: int32(i), table: t})
			}
		}
	}
	return out
}

// Live returns the number of live handles of a kind.
func (t *ObjectTable) Live(kind Kind) int {
	n := 0
	for _, live := range t.live[kind] {
		if live {
			n++
		}
	}
	return n
}

// Allocated returns the number of handles of a kind ever allocated.
func (t *ObjectTable) Allocated(kind Kind) int {
	return len(t.live[kind])
}
