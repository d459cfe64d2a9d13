//go:build nativegl

package nativegl

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/glsurface/device"
	wgl "github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/internal/logger"
	"github.com/gogpu/glsurface/recording"
)

// Name is the registry name of the OpenGL device.
const Name = "opengl"

// samples is the sample count of anti-aliased framebuffers.
const samples = 4

func init() {
	device.Register(Name, func(width, height int, antialias bool) (device.Device, error) {
		return Open(width, height, antialias)
	})
}

// Device runs recorded commands on an OpenGL 3.3 core context.
type Device struct {
	win           *glfw.Window
	width, height int
	antialias     bool

	vao            uint32
	fbo, color, ds uint32
	// resolve receives the multisampled image before reading.
	resolve, resolveColor uint32

	shaderTypes map[uint32]wgl.Enum
	next        uint32
	uniforms    map[uint32]int32
	flipY       bool
}

var _ device.Device = (*Device)(nil)

// Open creates a hidden window, its context and an offscreen framebuffer of
// the given size.
func Open(width, height int, antialias bool) (*Device, error) {
	if err := start(); err != nil {
		return nil, fmt.Errorf("nativegl: init glfw: %w", err)
	}
	d := &Device{
		width:       max(width, 1),
		height:      max(height, 1),
		antialias:   antialias,
		shaderTypes: make(map[uint32]wgl.Enum),
		uniforms:    make(map[uint32]int32),
	}
	var err error
	run(func() { err = d.open() })
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) open() error {
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	win, err := glfw.CreateWindow(1, 1, "glsurface", nil, nil)
	if err != nil {
		return fmt.Errorf("nativegl: create context: %w", err)
	}
	d.win = win
	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		win.Destroy()
		return fmt.Errorf("nativegl: load OpenGL: %w", err)
	}
	logger.Get().Info("nativegl: context created",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.GenFramebuffers(1, &d.fbo)
	gl.GenRenderbuffers(1, &d.color)
	gl.GenRenderbuffers(1, &d.ds)
	if d.antialias {
		gl.GenFramebuffers(1, &d.resolve)
		gl.GenRenderbuffers(1, &d.resolveColor)
	}
	if err := d.allocate(); err != nil {
		return err
	}
	gl.Viewport(0, 0, int32(d.width), int32(d.height))
	gl.Scissor(0, 0, int32(d.width), int32(d.height))
	return nil
}

// allocate sizes the offscreen renderbuffers and leaves the offscreen
// framebuffer bound.
func (d *Device) allocate() error {
	w, h := int32(d.width), int32(d.height)
	storage := func(rb, format uint32, n int32) {
		gl.BindRenderbuffer(gl.RENDERBUFFER, rb)
		if n > 0 {
			gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, n, format, w, h)
		} else {
			gl.RenderbufferStorage(gl.RENDERBUFFER, format, w, h)
		}
	}
	n := int32(0)
	if d.antialias {
		n = samples
		storage(d.resolveColor, gl.RGBA8, 0)
		gl.BindFramebuffer(gl.FRAMEBUFFER, d.resolve)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, d.resolveColor)
	}
	storage(d.color, gl.RGBA8, n)
	storage(d.ds, gl.DEPTH24_STENCIL8, n)
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, d.color)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, d.ds)
	if s := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); s != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("nativegl: offscreen framebuffer incomplete: 0x%x", s)
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	return nil
}

// Begin implements device.Device. The offscreen buffers are cleared to
// transparent with a far depth; the recorded clear state is preserved.
func (d *Device) Begin(width, height int) error {
	var err error
	run(func() {
		d.win.MakeContextCurrent()
		var bound int32
		gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &bound)
		if width != d.width || height != d.height {
			d.width, d.height = max(width, 1), max(height, 1)
			if err = d.allocate(); err != nil {
				return
			}
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)

		var color [4]float32
		var depth float64
		var mask [4]bool
		var depthMask bool
		gl.GetFloatv(gl.COLOR_CLEAR_VALUE, &color[0])
		gl.GetDoublev(gl.DEPTH_CLEAR_VALUE, &depth)
		gl.GetBooleanv(gl.COLOR_WRITEMASK, &mask[0])
		gl.GetBooleanv(gl.DEPTH_WRITEMASK, &depthMask)
		scissor := gl.IsEnabled(gl.SCISSOR_TEST)

		gl.Disable(gl.SCISSOR_TEST)
		gl.ColorMask(true, true, true, true)
		gl.DepthMask(true)
		gl.ClearColor(0, 0, 0, 0)
		gl.ClearDepth(1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)

		gl.ClearColor(color[0], color[1], color[2], color[3])
		gl.ClearDepth(depth)
		gl.ColorMask(mask[0], mask[1], mask[2], mask[3])
		gl.DepthMask(depthMask)
		if scissor {
			gl.Enable(gl.SCISSOR_TEST)
		}
		// #nosec G115 -- framebuffer names are non-negative
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(bound))
	})
	return err
}

// ReadPixels implements device.Device.
func (d *Device) ReadPixels(dst *image.RGBA) error {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	buf := make([]byte, 4*d.width*d.height)
	run(func() {
		d.win.MakeContextCurrent()
		var bound int32
		gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &bound)
		src := d.fbo
		if d.antialias {
			gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.fbo)
			gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, d.resolve)
			gl.BlitFramebuffer(0, 0, int32(d.width), int32(d.height), 0, 0, int32(d.width), int32(d.height),
				gl.COLOR_BUFFER_BIT, gl.NEAREST)
			src = d.resolve
		}
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, src)
		gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
		gl.ReadPixels(0, 0, int32(d.width), int32(d.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(buf))
		// #nosec G115 -- framebuffer names are non-negative
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(bound))
	})
	// GL rows run bottom to top.
	stride := 4 * d.width
	for y := 0; y < min(h, d.height); y++ {
		row := buf[(d.height-1-y)*stride:]
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+4*min(w, d.width)], row)
	}
	return nil
}

// Release implements device.Device.
func (d *Device) Release() error {
	run(func() {
		d.win.MakeContextCurrent()
		gl.DeleteFramebuffers(1, &d.fbo)
		gl.DeleteRenderbuffers(1, &d.color)
		gl.DeleteRenderbuffers(1, &d.ds)
		if d.antialias {
			gl.DeleteFramebuffers(1, &d.resolve)
			gl.DeleteRenderbuffers(1, &d.resolveColor)
		}
		gl.DeleteVertexArrays(1, &d.vao)
		glfw.DetachCurrentContext()
		d.win.Destroy()
	})
	return nil
}

// Create implements device.Device.
func (d *Device) Create(op recording.Opcode, args []device.Arg) (uint32, error) {
	var (
		n   uint32
		err error
	)
	run(func() {
		d.win.MakeContextCurrent()
		n, err = d.create(op, args)
	})
	return n, err
}

func (d *Device) create(op recording.Opcode, args []device.Arg) (uint32, error) {
	var n uint32
	switch op {
	case recording.OpCreateBuffer:
		gl.GenBuffers(1, &n)
	case recording.OpCreateFramebuffer:
		gl.GenFramebuffers(1, &n)
	case recording.OpCreateRenderbuffer:
		gl.GenRenderbuffers(1, &n)
	case recording.OpCreateTexture:
		gl.GenTextures(1, &n)
	case recording.OpCreateProgram:
		n = gl.CreateProgram()
	case recording.OpCreateShader:
		n = gl.CreateShader(uint32(args[0].Enum))
		d.shaderTypes[n] = args[0].Enum
	case recording.OpGetAttribLocation:
		loc := gl.GetAttribLocation(args[0].Name, gl.Str(args[1].Str+"\x00"))
		if loc < 0 {
			return device.NoLocation, nil
		}
		return uint32(loc), nil
	case recording.OpGetUniformLocation:
		loc := gl.GetUniformLocation(args[0].Name, gl.Str(args[1].Str+"\x00"))
		if loc < 0 {
			return device.NoLocation, nil
		}
		d.next++
		d.uniforms[d.next] = loc
		return d.next, nil
	default:
		return 0, fmt.Errorf("%w: nativegl cannot create with %s", recording.ErrUnsupported, op)
	}
	return n, nil
}

// Exec implements device.Device.
func (d *Device) Exec(op recording.Opcode, args []device.Arg) error {
	var err error
	run(func() {
		d.win.MakeContextCurrent()
		err = d.exec(op, args)
	})
	return err
}

func (d *Device) exec(op recording.Opcode, args []device.Arg) error {
	e := func(i int) uint32 { return uint32(args[i].Enum) }
	// #nosec G115 -- GL integer parameters are 32 bit
	i32 := func(i int) int32 { return int32(args[i].Int) }
	f32 := func(i int) float32 { return float32(args[i].Float) }

	switch op {
	case recording.OpActiveTexture:
		gl.ActiveTexture(e(0))
	case recording.OpAttachShader:
		gl.AttachShader(args[0].Name, args[1].Name)
	case recording.OpBindAttribLocation:
		// #nosec G115 -- attribute indices are small
		gl.BindAttribLocation(args[0].Name, uint32(args[1].Int), gl.Str(args[2].Str+"\x00"))
	case recording.OpBindBuffer:
		gl.BindBuffer(e(0), args[1].Name)
	case recording.OpBindFramebuffer:
		fb := args[1].Name
		if fb == 0 {
			fb = d.fbo
		}
		gl.BindFramebuffer(e(0), fb)
	case recording.OpBindRenderbuffer:
		gl.BindRenderbuffer(e(0), args[1].Name)
	case recording.OpBindTexture:
		gl.BindTexture(e(0), args[1].Name)
	case recording.OpBlendColor:
		gl.BlendColor(f32(0), f32(1), f32(2), f32(3))
	case recording.OpBlendEquation:
		gl.BlendEquation(e(0))
	case recording.OpBlendEquationSeparate:
		gl.BlendEquationSeparate(e(0), e(1))
	case recording.OpBlendFunc:
		gl.BlendFunc(e(0), e(1))
	case recording.OpBlendFuncSeparate:
		gl.BlendFuncSeparate(e(0), e(1), e(2), e(3))
	case recording.OpBufferDataSize:
		gl.BufferData(e(0), int(args[1].Int), nil, e(2))
	case recording.OpBufferData:
		data, err := device.Encode(args[1])
		if err != nil {
			return err
		}
		gl.BufferData(e(0), len(data), ptr(data), e(2))
	case recording.OpBufferDataResource:
		gl.BufferData(e(0), len(args[1].Bytes), ptr(args[1].Bytes), e(2))
	case recording.OpBufferSubData:
		data, err := device.Encode(args[2])
		if err != nil {
			return err
		}
		gl.BufferSubData(e(0), int(args[1].Int), len(data), ptr(data))
	case recording.OpBufferSubDataResource:
		gl.BufferSubData(e(0), int(args[1].Int), len(args[2].Bytes), ptr(args[2].Bytes))
	case recording.OpClear:
		gl.Clear(e(0))
	case recording.OpClearColor:
		gl.ClearColor(f32(0), f32(1), f32(2), f32(3))
	case recording.OpClearDepth:
		gl.ClearDepth(args[0].Float)
	case recording.OpClearStencil:
		gl.ClearStencil(i32(0))
	case recording.OpColorMask:
		gl.ColorMask(args[0].Bool, args[1].Bool, args[2].Bool, args[3].Bool)
	case recording.OpCompileShader:
		d.compile(args[0].Name)
	case recording.OpCopyTexImage2D:
		gl.CopyTexImage2D(e(0), i32(1), e(2), i32(3), i32(4), i32(5), i32(6), i32(7))
	case recording.OpCopyTexSubImage2D:
		gl.CopyTexSubImage2D(e(0), i32(1), i32(2), i32(3), i32(4), i32(5), i32(6), i32(7))
	case recording.OpCullFace:
		gl.CullFace(e(0))
	case recording.OpDeleteBuffer:
		n := args[0].Name
		gl.DeleteBuffers(1, &n)
	case recording.OpDeleteFramebuffer:
		n := args[0].Name
		gl.DeleteFramebuffers(1, &n)
	case recording.OpDeleteProgram:
		gl.DeleteProgram(args[0].Name)
	case recording.OpDeleteRenderbuffer:
		n := args[0].Name
		gl.DeleteRenderbuffers(1, &n)
	case recording.OpDeleteShader:
		gl.DeleteShader(args[0].Name)
		delete(d.shaderTypes, args[0].Name)
	case recording.OpDeleteTexture:
		n := args[0].Name
		gl.DeleteTextures(1, &n)
	case recording.OpDepthFunc:
		gl.DepthFunc(e(0))
	case recording.OpDepthMask:
		gl.DepthMask(args[0].Bool)
	case recording.OpDepthRange:
		gl.DepthRange(args[0].Float, args[1].Float)
	case recording.OpDetachShader:
		gl.DetachShader(args[0].Name, args[1].Name)
	case recording.OpDisable:
		gl.Disable(e(0))
	case recording.OpEnable:
		gl.Enable(e(0))
	case recording.OpDisableVertexAttribArray:
		if args[0].Name != device.NoLocation {
			gl.DisableVertexAttribArray(args[0].Name)
		}
	case recording.OpEnableVertexAttribArray:
		if args[0].Name != device.NoLocation {
			gl.EnableVertexAttribArray(args[0].Name)
		}
	case recording.OpDrawArrays:
		gl.DrawArrays(e(0), i32(1), i32(2))
	case recording.OpDrawElements:
		gl.DrawElements(e(0), i32(1), e(2), gl.PtrOffset(int(args[3].Int)))
	case recording.OpFinish:
		gl.Finish()
	case recording.OpFlush:
		gl.Flush()
	case recording.OpFramebufferRenderbuffer:
		gl.FramebufferRenderbuffer(e(0), e(1), e(2), args[3].Name)
	case recording.OpFramebufferTexture2D:
		gl.FramebufferTexture2D(e(0), e(1), e(2), args[3].Name, i32(4))
	case recording.OpFrontFace:
		gl.FrontFace(e(0))
	case recording.OpGenerateMipmap:
		gl.GenerateMipmap(e(0))
	case recording.OpHint:
		gl.Hint(e(0), e(1))
	case recording.OpLineWidth:
		// Core contexts only accept width 1.
	case recording.OpLinkProgram:
		d.link(args[0].Name)
	case recording.OpPixelStorei:
		switch args[0].Enum {
		case wgl.UNPACK_FLIP_Y_WEBGL:
			d.flipY = args[1].Int != 0
		case wgl.UNPACK_PREMULTIPLY_ALPHA_WEBGL:
			if args[1].Int != 0 {
				return fmt.Errorf("%w: premultiplied uploads", recording.ErrUnsupported)
			}
		default:
			gl.PixelStorei(e(0), i32(1))
		}
	case recording.OpPolygonOffset:
		gl.PolygonOffset(f32(0), f32(1))
	case recording.OpRenderbufferStorage:
		format := e(1)
		if args[1].Enum == wgl.DEPTH_STENCIL {
			format = gl.DEPTH24_STENCIL8
		}
		gl.RenderbufferStorage(e(0), format, i32(2), i32(3))
	case recording.OpSampleCoverage:
		gl.SampleCoverage(f32(0), args[1].Bool)
	case recording.OpScissor:
		gl.Scissor(i32(0), i32(1), i32(2), i32(3))
	case recording.OpShaderSource:
		src := Translate(d.shaderTypes[args[0].Name], args[1].Str)
		csrc, free := gl.Strs(src + "\x00")
		gl.ShaderSource(args[0].Name, 1, csrc, nil)
		free()
	case recording.OpStencilFunc:
		gl.StencilFunc(e(0), i32(1), uint32(args[2].Int))
	case recording.OpStencilFuncSeparate:
		gl.StencilFuncSeparate(e(0), e(1), i32(2), uint32(args[3].Int))
	case recording.OpStencilMask:
		gl.StencilMask(uint32(args[0].Int))
	case recording.OpStencilMaskSeparate:
		gl.StencilMaskSeparate(e(0), uint32(args[1].Int))
	case recording.OpStencilOp:
		gl.StencilOp(e(0), e(1), e(2))
	case recording.OpStencilOpSeparate:
		gl.StencilOpSeparate(e(0), e(1), e(2), e(3))
	case recording.OpTexImage2D:
		if err := coreFormat(args[2].Enum); err != nil {
			return err
		}
		gl.TexImage2D(e(0), i32(1), int32(e(2)), i32(3), i32(4), i32(5), e(6), e(7), nil)
	case recording.OpTexImage2DImage:
		if err := coreFormat(args[2].Enum); err != nil {
			return err
		}
		img := pixels(args[5].Image, d.flipY)
		b := img.Bounds()
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.TexImage2D(e(0), i32(1), int32(e(2)), int32(b.Dx()), int32(b.Dy()), 0, e(3), e(4), ptr(img.Pix))
	case recording.OpTexParameteri:
		gl.TexParameteri(e(0), e(1), int32(e(2)))
	case recording.OpUseProgram:
		gl.UseProgram(args[0].Name)
	case recording.OpValidateProgram:
		gl.ValidateProgram(args[0].Name)
	case recording.OpVertexAttrib1f:
		gl.VertexAttrib1f(args[0].Name, f32(1))
	case recording.OpVertexAttrib2f:
		gl.VertexAttrib2f(args[0].Name, f32(1), f32(2))
	case recording.OpVertexAttrib3f:
		gl.VertexAttrib3f(args[0].Name, f32(1), f32(2), f32(3))
	case recording.OpVertexAttrib4f:
		gl.VertexAttrib4f(args[0].Name, f32(1), f32(2), f32(3), f32(4))
	case recording.OpVertexAttrib1fv:
		gl.VertexAttrib1fv(args[0].Name, &args[1].Floats[0])
	case recording.OpVertexAttrib2fv:
		gl.VertexAttrib2fv(args[0].Name, &args[1].Floats[0])
	case recording.OpVertexAttrib3fv:
		gl.VertexAttrib3fv(args[0].Name, &args[1].Floats[0])
	case recording.OpVertexAttrib4fv:
		gl.VertexAttrib4fv(args[0].Name, &args[1].Floats[0])
	case recording.OpVertexAttribPointer:
		if args[0].Name != device.NoLocation {
			gl.VertexAttribPointer(args[0].Name, i32(1), e(2), args[3].Bool, i32(4), gl.PtrOffset(int(args[5].Int)))
		}
	case recording.OpViewport:
		gl.Viewport(i32(0), i32(1), i32(2), i32(3))
	default:
		return d.uniform(op, args)
	}
	return nil
}

// uniform sets a uniform value. Missing locations are ignored like in GL.
func (d *Device) uniform(op recording.Opcode, args []device.Arg) error {
	loc, ok := d.uniforms[args[0].Name]
	if !ok {
		loc = -1
	}
	f := func(i int) float32 { return float32(args[i].Float) }
	// #nosec G115 -- uniform integers are 32 bit
	n := func(i int) int32 { return int32(args[i].Int) }
	fv := func(size int) (int32, *float32) {
		v := args[len(args)-1].Floats
		if len(v) < size {
			return 0, nil
		}
		// #nosec G115 -- element counts are small
		return int32(len(v) / size), &v[0]
	}
	iv := func(size int) (int32, *int32) {
		v := args[1].Ints
		if len(v) < size {
			return 0, nil
		}
		// #nosec G115 -- element counts are small
		return int32(len(v) / size), &v[0]
	}

	switch op {
	case recording.OpUniform1f:
		gl.Uniform1f(loc, f(1))
	case recording.OpUniform2f:
		gl.Uniform2f(loc, f(1), f(2))
	case recording.OpUniform3f:
		gl.Uniform3f(loc, f(1), f(2), f(3))
	case recording.OpUniform4f:
		gl.Uniform4f(loc, f(1), f(2), f(3), f(4))
	case recording.OpUniform1i:
		gl.Uniform1i(loc, n(1))
	case recording.OpUniform2i:
		gl.Uniform2i(loc, n(1), n(2))
	case recording.OpUniform3i:
		gl.Uniform3i(loc, n(1), n(2), n(3))
	case recording.OpUniform4i:
		gl.Uniform4i(loc, n(1), n(2), n(3), n(4))
	case recording.OpUniform1fv:
		if c, p := fv(1); p != nil {
			gl.Uniform1fv(loc, c, p)
		}
	case recording.OpUniform2fv:
		if c, p := fv(2); p != nil {
			gl.Uniform2fv(loc, c, p)
		}
	case recording.OpUniform3fv:
		if c, p := fv(3); p != nil {
			gl.Uniform3fv(loc, c, p)
		}
	case recording.OpUniform4fv:
		if c, p := fv(4); p != nil {
			gl.Uniform4fv(loc, c, p)
		}
	case recording.OpUniform1iv:
		if c, p := iv(1); p != nil {
			gl.Uniform1iv(loc, c, p)
		}
	case recording.OpUniform2iv:
		if c, p := iv(2); p != nil {
			gl.Uniform2iv(loc, c, p)
		}
	case recording.OpUniform3iv:
		if c, p := iv(3); p != nil {
			gl.Uniform3iv(loc, c, p)
		}
	case recording.OpUniform4iv:
		if c, p := iv(4); p != nil {
			gl.Uniform4iv(loc, c, p)
		}
	case recording.OpUniformMatrix2fv:
		if c, p := fv(4); p != nil {
			gl.UniformMatrix2fv(loc, c, args[1].Bool, p)
		}
	case recording.OpUniformMatrix3fv:
		if c, p := fv(9); p != nil {
			gl.UniformMatrix3fv(loc, c, args[1].Bool, p)
		}
	case recording.OpUniformMatrix4fv:
		if c, p := fv(16); p != nil {
			gl.UniformMatrix4fv(loc, c, args[1].Bool, p)
		}
	default:
		return fmt.Errorf("%w: nativegl cannot execute %s", recording.ErrUnsupported, op)
	}
	return nil
}

// compile compiles a shader and logs the info log of a failure. WebGL
// reports failures through queries the recording API does not expose, so
// the log is the only trace.
func (d *Device) compile(s uint32) {
	gl.CompileShader(s)
	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &n)
		msg := make([]byte, n+1)
		gl.GetShaderInfoLog(s, n, nil, &msg[0])
		logger.Get().Warn("nativegl: shader compilation failed", "shader", s, "log", gl.GoStr(&msg[0]))
	}
}

func (d *Device) link(p uint32) {
	gl.LinkProgram(p)
	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &n)
		msg := make([]byte, n+1)
		gl.GetProgramInfoLog(p, n, nil, &msg[0])
		logger.Get().Warn("nativegl: program link failed", "program", p, "log", gl.GoStr(&msg[0]))
	}
}

// coreFormat rejects the unsized luminance formats core contexts removed.
func coreFormat(f wgl.Enum) error {
	switch f {
	case wgl.ALPHA, wgl.LUMINANCE, wgl.LUMINANCE_ALPHA:
		return fmt.Errorf("%w: texture format %s", recording.ErrUnsupported, f)
	}
	return nil
}

// ptr returns a GL data pointer, nil for empty slices.
func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return gl.Ptr(b)
}
