package softgl

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glsurface/device"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/recording"
)

// vertex is a transformed vertex. win holds window x and y (origin bottom
// left) and the depth mapped to [0, 1] before the depth range applies.
type vertex struct {
	win   [3]float32
	w     float32
	color [4]float32
	uv    [2]float32
}

// shadeFunc computes the final fragment color.
type shadeFunc func(color [4]float32, uv [2]float32) [4]float32

func (d *Device) drawArrays(mode gl.Enum, first, count int) error {
	if first < 0 || count < 0 {
		return fmt.Errorf("softgl: drawArrays(%d, %d): negative range", first, count)
	}
	idx := make([]int, count)
	for i := range idx {
		idx[i] = first + i
	}
	return d.draw(mode, idx)
}

func (d *Device) drawElements(mode gl.Enum, count int, typ gl.Enum, offset int) error {
	size := 0
	switch typ {
	case gl.UNSIGNED_BYTE, gl.UNSIGNED_SHORT, gl.UNSIGNED_INT:
		size = device.ElemSize(typ)
	default:
		return fmt.Errorf("%w: index type %s", recording.ErrUnsupported, typ)
	}
	buf := d.buffers[d.st.elementBuffer]
	if offset < 0 || count < 0 || offset+count*size > len(buf) {
		return fmt.Errorf("softgl: drawElements reads past the element buffer")
	}
	idx := make([]int, count)
	for i := range idx {
		at := buf[offset+i*size:]
		switch size {
		case 1:
			idx[i] = int(at[0])
		case 2:
			idx[i] = int(binary.LittleEndian.Uint16(at))
		case 4:
			idx[i] = int(binary.LittleEndian.Uint32(at))
		}
	}
	return d.draw(mode, idx)
}

func (d *Device) draw(mode gl.Enum, idx []int) error {
	if d.st.framebuffer != 0 {
		return fmt.Errorf("%w: drawing into a framebuffer object", recording.ErrUnsupported)
	}
	p := d.programs[d.st.program]
	if p == nil || !p.linked || p.position < 0 {
		// GL reports INVALID_OPERATION and draws nothing.
		return nil
	}

	mvp := p.transform()
	cache := make(map[int]*vertex, len(idx))
	verts := make([]*vertex, len(idx))
	for i, n := range idx {
		v, ok := cache[n]
		if !ok {
			var err error
			if v, err = d.transform(p, mvp, n); err != nil {
				return err
			}
			cache[n] = v
		}
		verts[i] = v
	}
	shade := d.shader(p)

	n := len(verts)
	switch mode {
	case gl.TRIANGLES:
		for i := 0; i+2 < n; i += 3 {
			d.triangle(verts[i], verts[i+1], verts[i+2], shade)
		}
	case gl.TRIANGLE_STRIP:
		for i := 0; i+2 < n; i++ {
			if i%2 == 0 {
				d.triangle(verts[i], verts[i+1], verts[i+2], shade)
			} else {
				d.triangle(verts[i+1], verts[i], verts[i+2], shade)
			}
		}
	case gl.TRIANGLE_FAN:
		for i := 1; i+1 < n; i++ {
			d.triangle(verts[0], verts[i], verts[i+1], shade)
		}
	case gl.LINES:
		for i := 0; i+1 < n; i += 2 {
			d.line(verts[i], verts[i+1], shade)
		}
	case gl.LINE_STRIP, gl.LINE_LOOP:
		for i := 0; i+1 < n; i++ {
			d.line(verts[i], verts[i+1], shade)
		}
		if mode == gl.LINE_LOOP && n > 2 {
			d.line(verts[n-1], verts[0], shade)
		}
	case gl.POINTS:
		for _, v := range verts {
			d.point(v, shade)
		}
	default:
		return fmt.Errorf("%w: primitive mode %s", recording.ErrUnsupported, mode)
	}
	return nil
}

// transform runs the vertex stage for vertex n.
func (d *Device) transform(p *program, mvp mgl32.Mat4, n int) (*vertex, error) {
	pos, err := d.fetch(p.position, n)
	if err != nil {
		return nil, err
	}
	clip := mvp.Mul4x1(mgl32.Vec4(pos))

	v := &vertex{w: clip.W(), color: [4]float32{1, 1, 1, 1}}
	switch {
	case p.color >= 0:
		if v.color, err = d.fetch(p.color, n); err != nil {
			return nil, err
		}
	case p.colorUniform != "":
		u := p.values[p.colorUniform]
		copy(v.color[:], u)
		if len(u) == 3 {
			v.color[3] = 1
		}
	}
	if p.texcoord >= 0 {
		uv, err := d.fetch(p.texcoord, n)
		if err != nil {
			return nil, err
		}
		v.uv = [2]float32{uv[0], uv[1]}
	}

	if v.w > 0 {
		vp := d.st.viewport
		ndc := clip.Vec3().Mul(1 / v.w)
		v.win = [3]float32{
			float32(vp[0]) + (ndc.X()+1)*float32(vp[2])/2,
			float32(vp[1]) + (ndc.Y()+1)*float32(vp[3])/2,
			(ndc.Z() + 1) / 2,
		}
	}
	return v, nil
}

// fetch reads attribute loc of vertex n, filling missing components from
// (0, 0, 0, 1).
func (d *Device) fetch(loc, n int) ([4]float32, error) {
	if loc < 0 || loc >= maxAttribs {
		return [4]float32{0, 0, 0, 1}, nil
	}
	a := &d.st.attribs[loc]
	if !a.enabled {
		return a.constant, nil
	}
	out := [4]float32{0, 0, 0, 1}
	ts := device.ElemSize(a.typ)
	if ts == 0 || a.size < 1 || a.size > 4 {
		return out, fmt.Errorf("%w: attribute format %d x %s", recording.ErrUnsupported, a.size, a.typ)
	}
	stride := a.stride
	if stride == 0 {
		stride = a.size * ts
	}
	buf := d.buffers[a.buffer]
	off := a.offset + n*stride
	if off < 0 || off+a.size*ts > len(buf) {
		return out, fmt.Errorf("softgl: attribute %d of vertex %d reads past its buffer", loc, n)
	}
	for c := range a.size {
		out[c] = component(buf[off+c*ts:], a.typ, a.normalized)
	}
	return out, nil
}

func component(b []byte, typ gl.Enum, normalized bool) float32 {
	var v, scale float64
	switch typ {
	case gl.FLOAT:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case gl.BYTE:
		v, scale = float64(int8(b[0])), 127
	case gl.UNSIGNED_BYTE:
		v, scale = float64(b[0]), 255
	case gl.SHORT:
		// #nosec G115 -- reinterpretation of the stored bits
		v, scale = float64(int16(binary.LittleEndian.Uint16(b))), 32767
	case gl.UNSIGNED_SHORT:
		v, scale = float64(binary.LittleEndian.Uint16(b)), 65535
	case gl.INT:
		// #nosec G115 -- reinterpretation of the stored bits
		v, scale = float64(int32(binary.LittleEndian.Uint32(b))), math.MaxInt32
	case gl.UNSIGNED_INT:
		v, scale = float64(binary.LittleEndian.Uint32(b)), math.MaxUint32
	}
	if normalized {
		v = math.Max(v/scale, -1)
	}
	return float32(v)
}

// shader returns the fragment stage: the interpolated color, modulated by
// the sampled texture when the program has a sampler and texture
// coordinates.
func (d *Device) shader(p *program) shadeFunc {
	if p.sampler == "" || p.texcoord < 0 {
		return func(c [4]float32, _ [2]float32) [4]float32 { return c }
	}
	unit := 0
	if v := p.values[p.sampler]; len(v) > 0 {
		unit = int(v[0])
	}
	var tex *texture
	if unit >= 0 && unit < len(d.st.units) {
		tex = d.textures[d.st.units[unit]]
	}
	return func(c [4]float32, uv [2]float32) [4]float32 {
		t := tex.sample(uv[0], uv[1])
		return [4]float32{c[0] * t[0], c[1] * t[1], c[2] * t[2], c[3] * t[3]}
	}
}
