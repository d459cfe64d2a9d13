package recording

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/resident"
)

func ops(b *PhaseBuffer) []Opcode {
	var out []Opcode
	for _, c := range b.Commands() {
		out = append(out, c.Op)
	}
	return out
}

func equalOps(a, b []Opcode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunRecordsAndFinalizes(t *testing.T) {
	rec := NewRecorder()
	var buf Buffer
	b, err := rec.Run(PhaseInitialize, func(r *Recorder) {
		buf = r.CreateBuffer()
		r.BindBuffer(gl.ARRAY_BUFFER, buf)
		r.BufferDatafv(gl.ARRAY_BUFFER, []float32{0, 0, 1, 0, 0, 1}, gl.STATIC_DRAW, false)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !b.Finalized() {
		t.Error("buffer not finalized")
	}
	want := []Opcode{OpCreateBuffer, OpBindBuffer, OpBufferData}
	if got := ops(b); !equalOps(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
	if b.Commands()[0].Result != buf.Object {
		t.Error("creation command does not carry the allocated handle")
	}
	if _, active := rec.Phase(); active {
		t.Error("phase still active after Run")
	}
}

func TestStaleHandleFailsAtCallSite(t *testing.T) {
	rec := NewRecorder()
	var buf Buffer
	if _, err := rec.Run(PhaseInitialize, func(r *Recorder) {
		buf = r.CreateBuffer()
		r.DeleteBuffer(buf)
	}); err != nil {
		t.Fatal(err)
	}

	reached := false
	b, err := rec.Run(PhasePaint, func(r *Recorder) {
		r.Clear(gl.COLOR_BUFFER_BIT)
		r.BindBuffer(gl.ARRAY_BUFFER, buf)
		reached = true
	})
	if !errors.Is(err, ErrStaleHandle) {
		t.Fatalf("Run err = %v, want ErrStaleHandle", err)
	}
	if b != nil {
		t.Error("failed phase returned a buffer")
	}
	if reached {
		t.Error("callback continued past the failing call")
	}
}

func TestNullHandles(t *testing.T) {
	rec := NewRecorder()
	b, err := rec.Run(PhasePaint, func(r *Recorder) {
		r.BindBuffer(gl.ARRAY_BUFFER, Buffer{})
		r.BindTexture(gl.TEXTURE_2D, Texture{})
		r.BindFramebuffer(gl.FRAMEBUFFER, Framebuffer{})
		r.UseProgram(Program{})
		r.DeleteTexture(Texture{})
	})
	if err != nil {
		t.Fatalf("null binds: %v", err)
	}
	if b.Len() != 4 {
		t.Errorf("Len = %d, want 4 (deleting null is a no-op)", b.Len())
	}
	if arg := b.Commands()[0].Args[1]; !arg.Object.IsNull() || arg.Object.Kind() != KindBuffer {
		t.Errorf("null bind arg = %+v", arg)
	}

	_, err = rec.Run(PhasePaint, func(r *Recorder) {
		r.AttachShader(Program{}, Shader{})
	})
	if !errors.Is(err, ErrNullHandle) {
		t.Errorf("AttachShader(null) err = %v, want ErrNullHandle", err)
	}
}

func TestForeignHandle(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	var p Program
	_, _ = a.Run(PhaseInitialize, func(r *Recorder) { p = r.CreateProgram() })
	_, err := b.Run(PhaseInitialize, func(r *Recorder) { r.LinkProgram(p) })
	if !errors.Is(err, ErrForeignHandle) {
		t.Errorf("err = %v, want ErrForeignHandle", err)
	}
}

func TestCallOutsidePhasePanics(t *testing.T) {
	rec := NewRecorder()
	defer func() {
		if e := recover(); e != ErrOutsidePhase {
			t.Errorf("recover() = %v, want ErrOutsidePhase", e)
		}
	}()
	rec.Clear(gl.COLOR_BUFFER_BIT)
}

func TestNestedRunRejected(t *testing.T) {
	rec := NewRecorder()
	var inner error
	_, err := rec.Run(PhasePaint, func(r *Recorder) {
		_, inner = r.Run(PhaseUpdate, func(*Recorder) {})
	})
	if err != nil || inner == nil {
		t.Errorf("outer err = %v, inner err = %v; want nil and non-nil", err, inner)
	}
}

func TestForeignPanicPropagates(t *testing.T) {
	rec := NewRecorder()
	defer func() {
		if recover() != "boom" {
			t.Error("unrelated panic was swallowed")
		}
		if _, active := rec.Phase(); active {
			t.Error("phase left active after panic")
		}
	}()
	_, _ = rec.Run(PhasePaint, func(*Recorder) { panic("boom") })
}

func TestInlineLimitExternalizes(t *testing.T) {
	rec := NewRecorder(WithInlineLimit(4))
	data := []float32{1, 2, 3, 4, 5, 6}
	b, err := rec.Run(PhaseInitialize, func(r *Recorder) {
		buf := r.CreateBuffer()
		r.BindBuffer(gl.ARRAY_BUFFER, buf)
		r.BufferDatafv(gl.ARRAY_BUFFER, data, gl.STATIC_DRAW, false)
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []Opcode{OpCreateBuffer, OpBindBuffer, OpCreateArrayBuffer, OpBufferDataResource}
	if got := ops(b); !equalOps(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	ref := b.Commands()[2].Args[0].Resource
	res, ok := rec.Resources().Get(ref.Handle)
	if !ok {
		t.Fatalf("resource %q not pooled", ref.Handle)
	}
	if got := DecodeFloats(res.Payload); len(got) != 6 || got[5] != 6 {
		t.Errorf("pooled payload = %v", got)
	}
	if l := b.Commands()[3].Args[1].Resource.Length; l != 24 {
		t.Errorf("upload length = %d, want 24", l)
	}
}

func TestDrawRequiresExternalizedSources(t *testing.T) {
	rec := NewRecorder()
	var ab ArrayBuffer
	_, err := rec.Run(PhaseInitialize, func(r *Recorder) {
		p := r.CreateProgram()
		pos := r.GetAttribLocation(p, "position")
		col := r.GetAttribLocation(p, "color")

		vbo := r.CreateBuffer()
		r.BindBuffer(gl.ARRAY_BUFFER, vbo)
		r.BufferDatafv(gl.ARRAY_BUFFER, []float32{0, 0, 1, 0, 0, 1}, gl.STATIC_DRAW, true)
		r.VertexAttribPointer(pos, 2, gl.FLOAT, false, 0, 0)
		r.EnableVertexAttribArray(pos)

		cbo := r.CreateBuffer()
		r.BindBuffer(gl.ARRAY_BUFFER, cbo)
		ab = r.CreateAndLoadArrayBuffer("https://example.com/colors.bin")
		r.BufferDataResource(gl.ARRAY_BUFFER, ab, 0, 0, gl.STATIC_DRAW)
		r.VertexAttribPointer(col, 3, gl.FLOAT, false, 0, 0)
		r.EnableVertexAttribArray(col)
	})
	if err != nil {
		t.Fatal(err)
	}
	paint, err := rec.Run(PhasePaint, func(r *Recorder) {
		r.DrawArrays(gl.TRIANGLES, 0, 3)
	})
	if err != nil {
		t.Fatal(err)
	}
	req := paint.Commands()[0].Requires
	if len(req) != 2 || req[1] != ab {
		t.Errorf("Requires = %v, want both array buffers ending with %v", req, ab)
	}
}

func TestInlineUploadHasNoRequirements(t *testing.T) {
	rec := NewRecorder()
	b, err := rec.Run(PhasePaint, func(r *Recorder) {
		p := r.CreateProgram()
		pos := r.GetAttribLocation(p, "position")
		vbo := r.CreateBuffer()
		r.BindBuffer(gl.ARRAY_BUFFER, vbo)
		r.BufferDatafv(gl.ARRAY_BUFFER, []float32{0, 0, 1, 0, 0, 1}, gl.STATIC_DRAW, false)
		r.VertexAttribPointer(pos, 2, gl.FLOAT, false, 0, 0)
		r.EnableVertexAttribArray(pos)
		r.DrawArrays(gl.TRIANGLES, 0, 3)
	})
	if err != nil {
		t.Fatal(err)
	}
	cmds := b.Commands()
	if req := cmds[len(cmds)-1].Requires; len(req) != 0 {
		t.Errorf("Requires = %v, want none", req)
	}
}

func TestTexImage2DImagePoolsPNG(t *testing.T) {
	rec := NewRecorder()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	b, err := rec.Run(PhaseInitialize, func(r *Recorder) {
		tex := r.CreateTexture()
		r.BindTexture(gl.TEXTURE_2D, tex)
		r.TexImage2DImage(gl.TEXTURE_2D, 0, gl.RGBA, gl.RGBA, gl.UNSIGNED_BYTE, img)
	})
	if err != nil {
		t.Fatal(err)
	}
	ref := b.Commands()[2].Args[5].Resource
	res, ok := rec.Resources().Get(ref.Handle)
	if !ok || res.MimeType != MimePNG {
		t.Fatalf("texture resource = %v, %v", res, ok)
	}
	if string(res.Payload[1:4]) != "PNG" {
		t.Error("payload is not PNG encoded")
	}
}

func TestValues(t *testing.T) {
	rec := NewRecorder()
	var m *resident.Matrix4
	var v *resident.Vector
	b, err := rec.Run(PhaseInitialize, func(r *Recorder) {
		m = r.CreateMatrix4()
		v = r.CreateVector(3)
		r.SetVector(v, []float32{1, 2, 3})
		p := r.CreateProgram()
		loc := r.GetUniformLocation(p, "uMVMatrix")
		r.UniformMatrix4Value(loc, m.Multiply(mgl32.Translate3D(0, 0, -5)).Inverted())
		r.UniformVector(r.GetUniformLocation(p, "uLight"), v)
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []Opcode{OpInitValue, OpInitValue, OpSetValue, OpCreateProgram,
		OpGetUniformLocation, OpUniformMatrix4fv, OpGetUniformLocation, OpUniform3fv}
	if got := ops(b); !equalOps(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
	if got := v.Value(); got[2] != 3 {
		t.Errorf("vector shadow = %v, want [1 2 3]", got)
	}
	if m.ID() != 0 || v.ID() != 1 {
		t.Errorf("value ids = %d, %d", m.ID(), v.ID())
	}
}

func TestUnboundValueFailsAtCallSite(t *testing.T) {
	rec := NewRecorder()
	m := resident.NewMatrix4()
	_, err := rec.Run(PhasePaint, func(r *Recorder) {
		p := r.CreateProgram()
		r.UniformMatrix4Value(r.GetUniformLocation(p, "u"), m.Transposed())
	})
	if !errors.Is(err, resident.ErrUnboundValue) {
		t.Errorf("err = %v, want ErrUnboundValue", err)
	}

	_, err = rec.Run(PhasePaint, func(r *Recorder) {
		r.AddValue(m)
		r.SetMatrix4(m, mgl32.Ident4())
	})
	if !errors.Is(err, resident.ErrUnboundValue) {
		t.Errorf("set before init err = %v, want ErrUnboundValue", err)
	}
}

func TestLookAtHandlerRejectsExpression(t *testing.T) {
	rec := NewRecorder()
	_, err := rec.Run(PhaseInitialize, func(r *Recorder) {
		m := r.CreateMatrix4()
		r.SetClientSideLookAtHandler(m.Inverted(), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 0.005, 0.005)
	})
	if !errors.Is(err, resident.ErrExpression) {
		t.Errorf("err = %v, want ErrExpression", err)
	}
}

func TestResetReleasesHandles(t *testing.T) {
	rec := NewRecorder()
	var buf Buffer
	_, _ = rec.Run(PhaseInitialize, func(r *Recorder) { buf = r.CreateBuffer() })
	released := rec.Reset()
	if len(released) != 1 || released[0] != buf.Object {
		t.Fatalf("Reset released %v", released)
	}
	b, err := rec.Run(PhaseInitialize, func(r *Recorder) { buf = r.CreateBuffer() })
	if err != nil {
		t.Fatal(err)
	}
	if id := b.Commands()[0].Result.ID(); id != 1 {
		t.Errorf("new buffer id = %d, want 1", id)
	}
}

func TestVertexAttribArrays(t *testing.T) {
	rec := NewRecorder()
	var loc AttribLocation
	b, err := rec.Run(PhaseInitialize, func(r *Recorder) {
		p := r.CreateProgram()
		loc = r.GetAttribLocation(p, "a_color")
		r.VertexAttrib3fv(loc, []float32{1, 0.5, 0, 9})
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	c := b.Commands()[len(b.Commands())-1]
	if c.Op != OpVertexAttrib3fv {
		t.Fatalf("op = %v, want VertexAttrib3fv", c.Op)
	}
	if got := c.Args[1].Floats; len(got) != 3 || got[0] != 1 || got[1] != 0.5 || got[2] != 0 {
		t.Errorf("components = %v, want [1 0.5 0]", got)
	}

	_, err = rec.Run(PhasePaint, func(r *Recorder) {
		r.VertexAttrib4fv(loc, []float32{1, 2})
	})
	if !errors.Is(err, ErrArgument) {
		t.Errorf("short VertexAttrib4fv err = %v, want ErrArgument", err)
	}
}
