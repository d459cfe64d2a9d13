package device

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/recording"
)

// Encode returns the buffer bytes of a literal array argument: Floats as
// little-endian float32, or Ints narrowed to the element type in Enum.
func Encode(a Arg) ([]byte, error) {
	if a.Floats != nil {
		return recording.EncodeFloats(a.Floats), nil
	}
	size := ElemSize(a.Enum)
	if size == 0 {
		return nil, fmt.Errorf("%w: element type %s", recording.ErrUnsupported, a.Enum)
	}
	out := make([]byte, size*len(a.Ints))
	for i, v := range a.Ints {
		switch size {
		case 1:
			out[i] = byte(v)
		case 2:
			// #nosec G115 -- truncation to the declared element type
			binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
		case 4:
			// #nosec G115 -- bit pattern preserved
			binary.LittleEndian.PutUint32(out[4*i:], uint32(v))
		}
	}
	return out, nil
}

// ElemSize returns the byte size of a vertex or index element type, or 0
// for types that are not element types.
func ElemSize(t gl.Enum) int {
	switch t {
	case gl.BYTE, gl.UNSIGNED_BYTE:
		return 1
	case gl.SHORT, gl.UNSIGNED_SHORT:
		return 2
	case gl.INT, gl.UNSIGNED_INT, gl.FLOAT:
		return 4
	}
	return 0
}
