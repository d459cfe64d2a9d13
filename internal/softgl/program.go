package softgl

import (
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glsurface/device"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/recording"
)

// program is a linked set of declarations plus the roles inferred from
// their names.
type program struct {
	shaders   []uint32
	bound     map[string]uint32
	linked    bool
	attribs   []decl
	attribLoc map[string]uint32
	uniforms  []decl
	values    map[string][]float32

	position, color, texcoord int // attribute locations, -1 when absent
	colorUniform              string
	sampler                   string
	matrices                  []string
}

func newProgram() *program {
	return &program{bound: make(map[string]uint32)}
}

func (p *program) detach(s uint32) {
	p.shaders = slices.DeleteFunc(p.shaders, func(n uint32) bool { return n == s })
}

// link gathers the declarations of the attached shaders, vertex shaders
// first, and assigns attribute locations: bound names keep their index,
// the rest take the lowest free one.
func (p *program) link(shaders map[uint32]*shader) {
	p.linked = false
	p.attribs, p.uniforms = nil, nil
	p.attribLoc = make(map[string]uint32)
	p.values = make(map[string][]float32)

	var vertex bool
	attached := make([]*shader, 0, len(p.shaders))
	for _, n := range p.shaders {
		if s := shaders[n]; s != nil {
			attached = append(attached, s)
			vertex = vertex || s.typ == gl.VERTEX_SHADER
		}
	}
	if !vertex {
		return
	}
	slices.SortStableFunc(attached, func(a, b *shader) int {
		return boolRank(a.typ != gl.VERTEX_SHADER) - boolRank(b.typ != gl.VERTEX_SHADER)
	})

	seen := make(map[string]bool)
	for _, s := range attached {
		p.attribs = append(p.attribs, s.attribs...)
		for _, u := range s.uniforms {
			if !seen[u.name] {
				seen[u.name] = true
				p.uniforms = append(p.uniforms, u)
			}
		}
	}

	used := make(map[uint32]bool)
	for _, a := range p.attribs {
		if loc, ok := p.bound[a.name]; ok {
			p.attribLoc[a.name] = loc
			used[loc] = true
		}
	}
	var next uint32
	for _, a := range p.attribs {
		if _, ok := p.attribLoc[a.name]; ok {
			continue
		}
		for used[next] {
			next++
		}
		p.attribLoc[a.name] = next
		used[next] = true
	}

	for _, u := range p.uniforms {
		v := make([]float32, components(u.typ)*u.count)
		if u.typ == "mat4" {
			for i := 0; i+16 <= len(v); i += 16 {
				id := mgl32.Ident4()
				copy(v[i:], id[:])
			}
		}
		p.values[u.name] = v
	}
	p.assignRoles()
	p.linked = true
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// assignRoles decides which declarations feed position, color, texture
// coordinates and the vertex transform.
func (p *program) assignRoles() {
	p.position, p.color, p.texcoord = -1, -1, -1
	p.colorUniform, p.sampler, p.matrices = "", "", nil

	for _, a := range p.attribs {
		if p.position < 0 && hasAny(a.name, "pos", "vert") {
			p.position = int(p.attribLoc[a.name])
		}
	}
	if p.position < 0 && len(p.attribs) > 0 {
		p.position = int(p.attribLoc[p.attribs[0].name])
	}
	for _, a := range p.attribs {
		loc := int(p.attribLoc[a.name])
		switch {
		case loc == p.position:
		case p.color < 0 && hasAny(a.name, "col"):
			p.color = loc
		case p.texcoord < 0 && a.typ == "vec2" && hasAny(a.name, "tex", "uv", "coord"):
			p.texcoord = loc
		}
	}
	for _, u := range p.uniforms {
		switch {
		case u.typ == "mat4":
			p.matrices = append(p.matrices, u.name)
		case p.colorUniform == "" && (u.typ == "vec4" || u.typ == "vec3") && hasAny(u.name, "col"):
			p.colorUniform = u.name
		case p.sampler == "" && u.typ == "sampler2D":
			p.sampler = u.name
		}
	}
}

// uniform resolves a location query name, accepting "name[0]" for arrays.
func (p *program) uniform(name string) (string, bool) {
	name = strings.TrimSuffix(name, "[0]")
	_, ok := p.values[name]
	return name, ok
}

// transform returns the product of the program's mat4 uniforms in
// declaration order.
func (p *program) transform() mgl32.Mat4 {
	m := mgl32.Ident4()
	for _, name := range p.matrices {
		var u mgl32.Mat4
		copy(u[:], p.values[name])
		m = m.Mul4(u)
	}
	return m
}

func isUniform(op recording.Opcode) bool {
	return op >= recording.OpUniform1f && op <= recording.OpUniformMatrix4fv
}

func (d *Device) setUniform(op recording.Opcode, args []device.Arg) error {
	loc := args[0].Name
	if loc == device.NoLocation {
		return nil
	}
	ul, ok := d.uniforms[loc]
	if !ok {
		return nil
	}
	p := d.programs[ul.program]
	if p == nil || !p.linked {
		return nil
	}

	var v []float32
	switch op {
	case recording.OpUniform1f, recording.OpUniform2f, recording.OpUniform3f, recording.OpUniform4f:
		for _, a := range args[1:] {
			v = append(v, float32(a.Float))
		}
	case recording.OpUniform1i, recording.OpUniform2i, recording.OpUniform3i, recording.OpUniform4i:
		for _, a := range args[1:] {
			v = append(v, float32(a.Int))
		}
	case recording.OpUniform1fv, recording.OpUniform2fv, recording.OpUniform3fv, recording.OpUniform4fv:
		v = slices.Clone(args[1].Floats)
	case recording.OpUniform1iv, recording.OpUniform2iv, recording.OpUniform3iv, recording.OpUniform4iv:
		for _, n := range args[1].Ints {
			v = append(v, float32(n))
		}
	case recording.OpUniformMatrix2fv, recording.OpUniformMatrix3fv, recording.OpUniformMatrix4fv:
		v = slices.Clone(args[2].Floats)
		if args[1].Bool {
			n := int(op-recording.OpUniformMatrix2fv) + 2
			transpose(v, n)
		}
	}

	dst := p.values[ul.name]
	copy(dst, v)
	return nil
}

// transpose transposes consecutive n×n matrices in place.
func transpose(v []float32, n int) {
	for base := 0; base+n*n <= len(v); base += n * n {
		for r := range n {
			for c := r + 1; c < n; c++ {
				v[base+c*n+r], v[base+r*n+c] = v[base+r*n+c], v[base+c*n+r]
			}
		}
	}
}
