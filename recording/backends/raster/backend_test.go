package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"slices"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glsurface/device"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/recording"
	"github.com/gogpu/glsurface/resident"
)

// fakeCall is one device call seen by fakeDevice.
type fakeCall struct {
	op   recording.Opcode
	args []device.Arg
}

// fakeDevice records calls and fills frames with one color.
type fakeDevice struct {
	next     uint32
	calls    []fakeCall
	begins   int
	released bool
	fill     color.RGBA
	fail     map[recording.Opcode]error
}

var opened []*fakeDevice

func init() {
	device.Register("fake", func(width, height int, antialias bool) (device.Device, error) {
		d := &fakeDevice{
			fill: color.RGBA{10, 20, 30, 255},
			fail: map[recording.Opcode]error{
				recording.OpHint:   recording.ErrUnsupported,
				recording.OpFinish: errors.New("device lost"),
			},
		}
		opened = append(opened, d)
		return d, nil
	})
}

func (d *fakeDevice) Begin(width, height int) error {
	d.begins++
	return nil
}

func (d *fakeDevice) Create(op recording.Opcode, args []device.Arg) (uint32, error) {
	d.calls = append(d.calls, fakeCall{op, args})
	d.next++
	return d.next, nil
}

func (d *fakeDevice) Exec(op recording.Opcode, args []device.Arg) error {
	d.calls = append(d.calls, fakeCall{op, args})
	return d.fail[op]
}

func (d *fakeDevice) ReadPixels(dst *image.RGBA) error {
	for y := dst.Rect.Min.Y; y < dst.Rect.Max.Y; y++ {
		for x := dst.Rect.Min.X; x < dst.Rect.Max.X; x++ {
			dst.SetRGBA(x, y, d.fill)
		}
	}
	return nil
}

func (d *fakeDevice) Release() error {
	d.released = true
	return nil
}

// find returns the calls with opcode op.
func (d *fakeDevice) find(op recording.Opcode) []fakeCall {
	var out []fakeCall
	for _, c := range d.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func config() recording.BackendConfig {
	return recording.BackendConfig{
		SurfaceID:   "s1",
		Width:       4,
		Height:      3,
		Device:      "fake",
		ResourceURL: func(handle string) string { return "/resources/s1/" + handle },
	}
}

func newBackend(t *testing.T, cfg recording.BackendConfig) (*Backend, *fakeDevice) {
	t.Helper()
	b, err := NewBackend(cfg)
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	return b, opened[len(opened)-1]
}

func run(t *testing.T, rec *recording.Recorder, p recording.Phase, fn func(*recording.Recorder)) *recording.PhaseBuffer {
	t.Helper()
	b, err := rec.Run(p, fn)
	if err != nil {
		t.Fatalf("Run(%s): %v", p, err)
	}
	return b
}

func submission(rec *recording.Recorder) *recording.Submission {
	return &recording.Submission{
		Width:     4,
		Height:    3,
		Objects:   rec.Objects(),
		Values:    rec.Values(),
		Resources: rec.Resources(),
	}
}

func submit(t *testing.T, b *Backend, s *recording.Submission) *recording.Output {
	t.Helper()
	out, err := b.Submit(s)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return out
}

func TestRegistered(t *testing.T) {
	if !recording.IsRegistered(Name) {
		t.Fatalf("%q not registered", Name)
	}
	b, err := recording.NewBackend(Name, config())
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	if b.Name() != Name {
		t.Errorf("Name() = %q, want %q", b.Name(), Name)
	}
	if got := b.Capability(); got != recording.CapabilityAvailable {
		t.Errorf("Capability() = %v, want Available", got)
	}
}

func TestUnknownDevice(t *testing.T) {
	cfg := config()
	cfg.Device = "no-such-device"
	if _, err := NewBackend(cfg); !errors.Is(err, device.ErrUnknownDevice) {
		t.Errorf("NewBackend = %v, want ErrUnknownDevice", err)
	}
}

func TestSubmitProducesFrame(t *testing.T) {
	b, dev := newBackend(t, config())
	rec := recording.NewRecorder()

	var buf recording.Buffer
	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		buf = r.CreateBuffer()
		r.BindBuffer(gl.ARRAY_BUFFER, buf)
		r.BufferDatafv(gl.ARRAY_BUFFER, []float32{0, 1, 2}, gl.STATIC_DRAW, false)
	})
	s.Paint = run(t, rec, recording.PhasePaint, func(r *recording.Recorder) {
		r.ClearColor(0, 0, 0, 1)
		r.Clear(gl.COLOR_BUFFER_BIT)
		r.DrawArrays(gl.TRIANGLES, 0, 3)
	})
	out := submit(t, b, s)

	ops := make([]recording.Opcode, len(dev.calls))
	for i, c := range dev.calls {
		ops[i] = c.op
	}
	want := []recording.Opcode{
		recording.OpCreateBuffer, recording.OpBindBuffer, recording.OpBufferData,
		recording.OpClearColor, recording.OpClear, recording.OpDrawArrays,
	}
	if !slices.Equal(ops, want) {
		t.Errorf("device calls = %v, want %v", ops, want)
	}
	if bind := dev.find(recording.OpBindBuffer)[0]; bind.args[1].Name != 1 {
		t.Errorf("BindBuffer name = %d, want 1", bind.args[1].Name)
	}
	if dev.begins != 1 {
		t.Errorf("Begin called %d times, want 1", dev.begins)
	}

	if out.Frame == nil {
		t.Fatal("no frame")
	}
	if out.Frame.MimeType != recording.MimePNG {
		t.Errorf("frame mime = %q", out.Frame.MimeType)
	}
	if _, ok := rec.Resources().Get(out.Frame.Handle); !ok {
		t.Errorf("frame %q not pooled", out.Frame.Handle)
	}
	img, err := png.Decode(bytes.NewReader(out.Frame.Payload))
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(4, 3) {
		t.Errorf("frame size = %v, want 4x3", got)
	}
	if r, g, bl, _ := img.At(1, 1).RGBA(); r>>8 != 10 || g>>8 != 20 || bl>>8 != 30 {
		t.Errorf("frame pixel = %v, want the device fill", img.At(1, 1))
	}

	for _, part := range []string{
		`glsurface.surface("s1")`,
		"o.useImage();",
		"o.paintGL=function(){o.requestRepaint();};",
		`o.loadImage("/resources/s1/` + out.Frame.Handle + `");`,
	} {
		if !strings.Contains(out.Script, part) {
			t.Errorf("script lacks %q\n%s", part, out.Script)
		}
	}
	if b.Frame() != out.Frame.Handle {
		t.Errorf("Frame() = %q, want %q", b.Frame(), out.Frame.Handle)
	}
}

func TestRepaintReplacesFrame(t *testing.T) {
	b, dev := newBackend(t, config())
	rec := recording.NewRecorder()

	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		r.ClearColor(1, 0, 0, 1)
	})
	paint := run(t, rec, recording.PhasePaint, func(r *recording.Recorder) {
		r.Clear(gl.COLOR_BUFFER_BIT)
	})
	s.Paint = paint
	first := submit(t, b, s)

	again := submission(rec)
	again.Paint = paint
	second := submit(t, b, again)

	if first.Frame.Handle == second.Frame.Handle {
		t.Fatalf("repaint reused handle %q", first.Frame.Handle)
	}
	if _, ok := rec.Resources().Get(first.Frame.Handle); ok {
		t.Errorf("previous frame %q still pooled", first.Frame.Handle)
	}
	if n := len(dev.find(recording.OpClear)); n != 2 {
		t.Errorf("Clear executed %d times, want 2", n)
	}
	if dev.begins != 2 {
		t.Errorf("Begin called %d times, want 2", dev.begins)
	}

	again.Initialize = s.Initialize
	if _, err := b.Submit(again); !errors.Is(err, recording.ErrBufferConsumed) {
		t.Errorf("replaying Initialize = %v, want ErrBufferConsumed", err)
	}
}

func TestUpdateWithoutPaint(t *testing.T) {
	b, dev := newBackend(t, config())
	rec := recording.NewRecorder()

	s := submission(rec)
	s.Update = run(t, rec, recording.PhaseUpdate, func(r *recording.Recorder) {
		r.Enable(gl.DEPTH_TEST)
	})
	out := submit(t, b, s)
	if out.Frame != nil || out.Script != "" {
		t.Errorf("output = %+v, want empty", out)
	}
	if dev.begins != 0 {
		t.Errorf("Begin called without a paint")
	}
	if len(dev.find(recording.OpEnable)) != 1 {
		t.Errorf("Enable not executed")
	}
}

func TestValuesEvaluated(t *testing.T) {
	b, dev := newBackend(t, config())
	rec := recording.NewRecorder()

	translate := mgl32.Translate3D(1, 2, 3)
	scale := mgl32.Scale3D(2, 2, 2)
	var (
		camera *resident.Matrix4
		loc    recording.UniformLocation
	)
	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		camera = r.CreateMatrix4()
		r.SetMatrix4(camera, translate)
		p := r.CreateProgram()
		r.LinkProgram(p)
		loc = r.GetUniformLocation(p, "uMVP")
		r.SetClientSideLookAtHandler(camera, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 0.005, 0.005)
		r.InjectScript("alert(1);")
	})
	s.Paint = run(t, rec, recording.PhasePaint, func(r *recording.Recorder) {
		r.UniformMatrix4Value(loc, camera.Multiply(scale))
	})
	out := submit(t, b, s)

	calls := dev.find(recording.OpUniformMatrix4fv)
	if len(calls) != 1 {
		t.Fatalf("UniformMatrix4fv executed %d times, want 1", len(calls))
	}
	want := translate.Mul4(scale)
	if got := calls[0].args[2].Floats; !slices.Equal(got, want[:]) {
		t.Errorf("uniform = %v, want %v", got, want)
	}
	if calls[0].args[0].Name != 2 {
		t.Errorf("uniform location = %d, want native name 2", calls[0].args[0].Name)
	}

	for _, part := range []string{
		`obj.initValue("Matrix0",`,
		`obj.setValue("Matrix0",`,
		`new glsurface.LookAtHandler(obj,"Matrix0"`,
	} {
		if !strings.Contains(out.Script, part) {
			t.Errorf("script lacks %q\n%s", part, out.Script)
		}
	}
	if strings.Contains(out.Script, "alert(1)") {
		t.Errorf("injected script forwarded in server mode\n%s", out.Script)
	}
	for _, c := range dev.calls {
		if c.op.ClientOnly() {
			t.Errorf("client-only %s reached the device", c.op)
		}
	}
}

func TestArrayBufferSlices(t *testing.T) {
	b, dev := newBackend(t, config())
	rec := recording.NewRecorder()

	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		ab := r.ArrayBufferFromFloats([]float32{1, 2, 3, 4})
		r.BindBuffer(gl.ARRAY_BUFFER, r.CreateBuffer())
		r.BufferDataResource(gl.ARRAY_BUFFER, ab, 4, 8, gl.STATIC_DRAW)
		r.BufferSubDataResource(gl.ARRAY_BUFFER, 0, ab, 12, 0)
	})
	submit(t, b, s)

	data := dev.find(recording.OpBufferDataResource)
	if len(data) != 1 {
		t.Fatalf("BufferDataResource executed %d times, want 1", len(data))
	}
	if got, want := data[0].args[1].Bytes, recording.EncodeFloats([]float32{2, 3}); !bytes.Equal(got, want) {
		t.Errorf("bufferData bytes = %v, want %v", got, want)
	}
	sub := dev.find(recording.OpBufferSubDataResource)
	if got, want := sub[0].args[2].Bytes, recording.EncodeFloats([]float32{4}); !bytes.Equal(got, want) {
		t.Errorf("bufferSubData bytes = %v, want %v", got, want)
	}
}

func TestFetchedArrayBuffer(t *testing.T) {
	cfg := config()
	var fetched []string
	cfg.Fetch = func(_ context.Context, url string) ([]byte, error) {
		fetched = append(fetched, url)
		return recording.EncodeFloats([]float32{5, 6}), nil
	}
	b, dev := newBackend(t, cfg)
	rec := recording.NewRecorder()

	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		ab := r.CreateAndLoadArrayBuffer("https://example.com/mesh.bin")
		r.BindBuffer(gl.ARRAY_BUFFER, r.CreateBuffer())
		r.BufferDataResource(gl.ARRAY_BUFFER, ab, 0, 0, gl.STATIC_DRAW)
	})
	submit(t, b, s)

	if !slices.Equal(fetched, []string{"https://example.com/mesh.bin"}) {
		t.Errorf("fetched %v", fetched)
	}
	data := dev.find(recording.OpBufferDataResource)
	if len(data) != 1 || !bytes.Equal(data[0].args[1].Bytes, recording.EncodeFloats([]float32{5, 6})) {
		t.Errorf("bufferData calls = %v", data)
	}
}

func TestFailedFetchSkipsDependents(t *testing.T) {
	cfg := config()
	cfg.Fetch = func(context.Context, string) ([]byte, error) {
		return nil, errors.New("404")
	}
	b, dev := newBackend(t, cfg)
	rec := recording.NewRecorder()

	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		ab := r.CreateAndLoadArrayBuffer("https://example.com/missing.bin")
		r.BindBuffer(gl.ARRAY_BUFFER, r.CreateBuffer())
		r.BufferDataResource(gl.ARRAY_BUFFER, ab, 0, 0, gl.STATIC_DRAW)
	})
	s.Paint = run(t, rec, recording.PhasePaint, func(r *recording.Recorder) {
		r.Clear(gl.COLOR_BUFFER_BIT)
	})
	out := submit(t, b, s)

	if n := len(dev.find(recording.OpBufferDataResource)); n != 0 {
		t.Errorf("BufferDataResource executed %d times without its payload", n)
	}
	if n := len(dev.find(recording.OpClear)); n != 1 {
		t.Errorf("Clear executed %d times, want 1", n)
	}
	if out.Frame == nil {
		t.Error("frame missing after a soft failure")
	}
}

func TestTextureDecoded(t *testing.T) {
	b, dev := newBackend(t, config())
	rec := recording.NewRecorder()

	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 255})
	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		r.BindTexture(gl.TEXTURE_2D, r.CreateTexture())
		r.TexImage2DImage(gl.TEXTURE_2D, 0, gl.RGBA, gl.RGBA, gl.UNSIGNED_BYTE, src)
		r.TexImage2DURL(gl.TEXTURE_2D, 0, gl.RGBA, gl.RGBA, gl.UNSIGNED_BYTE, "https://example.com/t.png")
	})
	submit(t, b, s)

	// The URL texture has no fetcher and is skipped.
	calls := dev.find(recording.OpTexImage2DImage)
	if len(calls) != 1 {
		t.Fatalf("TexImage2DImage executed %d times, want 1", len(calls))
	}
	img := calls[0].args[5].Image
	if img == nil || img.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("texture image = %v", img)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{200, 100, 50, 255}) {
		t.Errorf("texel = %v, want the source pixel", got)
	}
}

func TestUnsupportedIsSoft(t *testing.T) {
	b, dev := newBackend(t, config())
	rec := recording.NewRecorder()

	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		r.Hint(gl.GENERATE_MIPMAP_HINT, gl.NICEST)
		r.Enable(gl.BLEND)
	})
	submit(t, b, s)
	if len(dev.find(recording.OpEnable)) != 1 {
		t.Error("commands after an unsupported one did not run")
	}
}

func TestDeviceErrorFails(t *testing.T) {
	b, _ := newBackend(t, config())
	rec := recording.NewRecorder()

	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		r.Finish()
	})
	_, err := b.Submit(s)
	if err == nil || !strings.Contains(err.Error(), "device lost") {
		t.Errorf("Submit = %v, want the device error", err)
	}
}

func TestNullHandles(t *testing.T) {
	b, dev := newBackend(t, config())
	rec := recording.NewRecorder()

	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		r.BindBuffer(gl.ARRAY_BUFFER, recording.Buffer{})
	})
	submit(t, b, s)
	if got := dev.find(recording.OpBindBuffer)[0].args[1].Name; got != 0 {
		t.Errorf("null buffer name = %d, want 0", got)
	}
}

func TestFullSubmissionReopensDevice(t *testing.T) {
	b, first := newBackend(t, config())
	rec := recording.NewRecorder()

	var buf recording.Buffer
	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		buf = r.CreateBuffer()
	})
	submit(t, b, s)

	released := rec.Reset()
	again := submission(rec)
	again.Full = true
	again.Released = released
	again.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		r.CreateBuffer()
	})
	submit(t, b, again)

	if !first.released {
		t.Error("previous device not released")
	}
	second := opened[len(opened)-1]
	if second == first || len(second.find(recording.OpCreateBuffer)) != 1 {
		t.Error("initialization did not run on a new device")
	}
	if _, err := b.Resolve(buf.Object); err == nil {
		t.Errorf("Resolve(%s) of a released handle succeeded", buf)
	}
}

func TestResolveAndRelease(t *testing.T) {
	b, dev := newBackend(t, config())
	rec := recording.NewRecorder()

	var buf recording.Buffer
	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		buf = r.CreateBuffer()
	})
	submit(t, b, s)

	if got, err := b.Resolve(buf.Object); err != nil || got != "1" {
		t.Errorf("Resolve = %q, %v, want \"1\"", got, err)
	}
	if _, err := b.Resolve(recording.Object{}); !errors.Is(err, recording.ErrNullHandle) {
		t.Errorf("Resolve(null) = %v, want ErrNullHandle", err)
	}

	if err := b.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !dev.released {
		t.Error("device not released")
	}
	if got := b.Capability(); got != recording.CapabilityUnavailable {
		t.Errorf("Capability after release = %v", got)
	}
	if _, err := b.Submit(submission(rec)); err == nil {
		t.Error("Submit after Release succeeded")
	}
}

func TestVertexAttribArrayExecuted(t *testing.T) {
	b, dev := newBackend(t, config())
	rec := recording.NewRecorder()

	s := submission(rec)
	s.Full = true
	s.Initialize = run(t, rec, recording.PhaseInitialize, func(r *recording.Recorder) {
		p := r.CreateProgram()
		loc := r.GetAttribLocation(p, "a_color")
		r.VertexAttrib3fv(loc, []float32{0.25, 0.5, 0.75})
	})
	submit(t, b, s)

	calls := dev.find(recording.OpVertexAttrib3fv)
	if len(calls) != 1 {
		t.Fatalf("VertexAttrib3fv executed %d times, want 1", len(calls))
	}
	if got := calls[0].args[1].Floats; !slices.Equal(got, []float32{0.25, 0.5, 0.75}) {
		t.Errorf("components = %v, want [0.25 0.5 0.75]", got)
	}
	if calls[0].args[0].Name != 2 {
		t.Errorf("attribute location = %d, want native name 2", calls[0].args[0].Name)
	}
}
