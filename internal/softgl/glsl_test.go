package softgl

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glsurface/gl"
)

func TestScan(t *testing.T) {
	src := `precision mediump float;
uniform mat4 model, view;
attribute highp vec3 aPos; // attribute vec2 ignored;
/* uniform float hidden; */
uniform vec4 lights[4];
attribute vec4 aColor;
void main() { gl_Position = view * model * vec4(aPos, 1.0); }
`
	attribs, uniforms := scan(src)
	wantA := []decl{{"aPos", "vec3", 1}, {"aColor", "vec4", 1}}
	wantU := []decl{{"model", "mat4", 1}, {"view", "mat4", 1}, {"lights", "vec4", 4}}
	if !slices.Equal(attribs, wantA) {
		t.Errorf("attribs = %v, want %v", attribs, wantA)
	}
	if !slices.Equal(uniforms, wantU) {
		t.Errorf("uniforms = %v, want %v", uniforms, wantU)
	}
}

func TestLinkRoles(t *testing.T) {
	shaders := map[uint32]*shader{
		1: {typ: gl.FRAGMENT_SHADER, source: "uniform sampler2D tex;\nuniform vec4 tint;"},
		2: {typ: gl.VERTEX_SHADER, source: "attribute vec2 aTexCoord;\nattribute vec3 aVertex;\nattribute vec4 aColor;\nuniform mat4 uProj;\nuniform mat4 uModel;"},
	}
	for _, s := range shaders {
		s.attribs, s.uniforms = scan(s.source)
	}
	p := newProgram()
	p.bound["aVertex"] = 5
	p.shaders = []uint32{1, 2}
	p.link(shaders)

	if !p.linked {
		t.Fatal("program not linked")
	}
	if p.position != 5 {
		t.Errorf("position = %d, want bound location 5", p.position)
	}
	if got := p.attribLoc["aTexCoord"]; int(got) != p.texcoord || got != 0 {
		t.Errorf("texcoord = %d (aTexCoord at %d), want 0", p.texcoord, got)
	}
	if got := p.attribLoc["aColor"]; int(got) != p.color || got != 1 {
		t.Errorf("color = %d (aColor at %d), want 1", p.color, got)
	}
	if want := []string{"uProj", "uModel"}; !slices.Equal(p.matrices, want) {
		t.Errorf("matrices = %v, want %v", p.matrices, want)
	}
	if p.sampler != "tex" {
		t.Errorf("sampler = %q, want tex", p.sampler)
	}
	if p.colorUniform != "" {
		t.Errorf("colorUniform = %q, want none", p.colorUniform)
	}
}

func TestLinkWithoutVertexShader(t *testing.T) {
	shaders := map[uint32]*shader{1: {typ: gl.FRAGMENT_SHADER}}
	p := newProgram()
	p.shaders = []uint32{1}
	p.link(shaders)
	if p.linked {
		t.Error("program without vertex shader linked")
	}
}

func TestTransformProduct(t *testing.T) {
	shaders := map[uint32]*shader{1: {typ: gl.VERTEX_SHADER}}
	shaders[1].attribs, shaders[1].uniforms = scan("attribute vec3 pos;\nuniform mat4 proj;\nuniform mat4 model;")
	p := newProgram()
	p.shaders = []uint32{1}
	p.link(shaders)

	if got := p.transform(); got != mgl32.Ident4() {
		t.Errorf("default transform = %v, want identity", got)
	}
	proj := mgl32.Scale3D(2, 2, 2)
	model := mgl32.Translate3D(1, 0, 0)
	copy(p.values["proj"], proj[:])
	copy(p.values["model"], model[:])
	if got, want := p.transform(), proj.Mul4(model); !got.ApproxEqual(want) {
		t.Errorf("transform = %v, want %v", got, want)
	}
}

func TestUniformArrayName(t *testing.T) {
	shaders := map[uint32]*shader{1: {typ: gl.VERTEX_SHADER}}
	shaders[1].attribs, shaders[1].uniforms = scan("attribute vec3 pos;\nuniform vec4 lights[2];")
	p := newProgram()
	p.shaders = []uint32{1}
	p.link(shaders)

	if name, ok := p.uniform("lights[0]"); !ok || name != "lights" {
		t.Errorf("uniform(lights[0]) = %q, %v", name, ok)
	}
	if _, ok := p.uniform("missing"); ok {
		t.Error("uniform(missing) found")
	}
	if n := len(p.values["lights"]); n != 8 {
		t.Errorf("len(lights) = %d, want 8", n)
	}
}
