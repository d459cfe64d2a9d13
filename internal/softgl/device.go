package softgl

import (
	"fmt"
	"image"
	"math"
	"sync"

	"golang.org/x/image/draw"

	"github.com/gogpu/glsurface/device"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/internal/parallel"
	"github.com/gogpu/glsurface/recording"
)

func init() {
	device.Register(device.DefaultName, func(width, height int, antialias bool) (device.Device, error) {
		return New(width, height, antialias), nil
	})
}

const maxAttribs = 16

var sharedPool = sync.OnceValue(func() *parallel.WorkerPool {
	return parallel.NewWorkerPool(0)
})

type shader struct {
	typ      gl.Enum
	source   string
	attribs  []decl
	uniforms []decl
}

type texture struct {
	img          *image.NRGBA
	wrapS, wrapT gl.Enum
}

type attrib struct {
	enabled    bool
	buffer     uint32
	size       int
	typ        gl.Enum
	normalized bool
	stride     int
	offset     int
	constant   [4]float32
}

type uniformLoc struct {
	program uint32
	name    string
}

type state struct {
	clearColor  [4]float32
	clearDepth  float32
	viewport    [4]int
	scissor     [4]int
	scissorTest bool
	depthTest   bool
	depthFunc   gl.Enum
	depthMask   bool
	depthRange  [2]float32
	cull        bool
	cullFace    gl.Enum
	frontFace   gl.Enum
	blend       bool
	blendFunc   [4]gl.Enum // src rgb, dst rgb, src alpha, dst alpha
	blendColor  [4]float32
	colorMask   [4]bool

	arrayBuffer   uint32
	elementBuffer uint32
	framebuffer   uint32
	program       uint32
	activeUnit    int
	units         [8]uint32
	attribs       [maxAttribs]attrib
	flipY         bool
}

func defaultState() state {
	s := state{
		clearDepth: 1,
		depthFunc:  gl.LESS,
		depthMask:  true,
		depthRange: [2]float32{0, 1},
		cullFace:   gl.BACK,
		frontFace:  gl.CCW,
		blendFunc:  [4]gl.Enum{gl.ONE, gl.ZERO, gl.ONE, gl.ZERO},
		colorMask:  [4]bool{true, true, true, true},
	}
	for i := range s.attribs {
		s.attribs[i].constant = [4]float32{0, 0, 0, 1}
	}
	return s
}

// Device is a software rasterizer for the subset of WebGL a device without
// a GLSL compiler can honor. See the package documentation for the shader
// model.
//
// Device is not safe for concurrent use.
type Device struct {
	width, height int
	antialias     bool
	color         *image.NRGBA
	depth         []float32
	pool          *parallel.WorkerPool

	next          uint32
	buffers       map[uint32][]byte
	shaders       map[uint32]*shader
	programs      map[uint32]*program
	textures      map[uint32]*texture
	framebuffers  map[uint32]bool
	renderbuffers map[uint32]bool
	uniforms      map[uint32]uniformLoc

	st state
}

var _ device.Device = (*Device)(nil)

// New returns a device with a framebuffer of the given size.
func New(width, height int, antialias bool) *Device {
	d := &Device{
		antialias:     antialias,
		pool:          sharedPool(),
		buffers:       make(map[uint32][]byte),
		shaders:       make(map[uint32]*shader),
		programs:      make(map[uint32]*program),
		textures:      make(map[uint32]*texture),
		framebuffers:  make(map[uint32]bool),
		renderbuffers: make(map[uint32]bool),
		uniforms:      make(map[uint32]uniformLoc),
		st:            defaultState(),
	}
	d.resize(width, height)
	d.reset()
	d.st.viewport = [4]int{0, 0, width, height}
	d.st.scissor = [4]int{0, 0, width, height}
	return d
}

func (d *Device) resize(width, height int) {
	d.width, d.height = max(width, 0), max(height, 0)
	d.color = image.NewNRGBA(image.Rect(0, 0, d.width, d.height))
	d.depth = make([]float32, d.width*d.height)
}

// Begin starts a frame. The drawing buffer starts transparent with a far
// depth, as a browser canvas without preserveDrawingBuffer does.
func (d *Device) Begin(width, height int) error {
	if width != d.width || height != d.height {
		d.resize(width, height)
	}
	d.reset()
	return nil
}

func (d *Device) reset() {
	clear(d.color.Pix)
	for i := range d.depth {
		d.depth[i] = 1
	}
}

// ReadPixels implements device.Device.
func (d *Device) ReadPixels(dst *image.RGBA) error {
	draw.Draw(dst, dst.Bounds(), d.color, image.Point{}, draw.Src)
	return nil
}

// Release implements device.Device. The shared worker pool outlives
// devices.
func (d *Device) Release() error {
	d.buffers, d.shaders, d.programs, d.textures = nil, nil, nil, nil
	return nil
}

func (d *Device) name() uint32 {
	d.next++
	return d.next
}

// Create implements device.Device.
func (d *Device) Create(op recording.Opcode, args []device.Arg) (uint32, error) {
	switch op {
	case recording.OpCreateBuffer:
		n := d.name()
		d.buffers[n] = nil
		return n, nil
	case recording.OpCreateShader:
		n := d.name()
		d.shaders[n] = &shader{typ: args[0].Enum}
		return n, nil
	case recording.OpCreateProgram:
		n := d.name()
		d.programs[n] = newProgram()
		return n, nil
	case recording.OpCreateTexture:
		n := d.name()
		d.textures[n] = &texture{wrapS: gl.REPEAT, wrapT: gl.REPEAT}
		return n, nil
	case recording.OpCreateFramebuffer:
		n := d.name()
		d.framebuffers[n] = true
		return n, nil
	case recording.OpCreateRenderbuffer:
		n := d.name()
		d.renderbuffers[n] = true
		return n, nil
	case recording.OpGetAttribLocation:
		p := d.programs[args[0].Name]
		if p == nil || !p.linked {
			return device.NoLocation, nil
		}
		if loc, ok := p.attribLoc[args[1].Str]; ok {
			return loc, nil
		}
		return device.NoLocation, nil
	case recording.OpGetUniformLocation:
		p := d.programs[args[0].Name]
		if p == nil || !p.linked {
			return device.NoLocation, nil
		}
		name, ok := p.uniform(args[1].Str)
		if !ok {
			return device.NoLocation, nil
		}
		n := d.name()
		d.uniforms[n] = uniformLoc{program: args[0].Name, name: name}
		return n, nil
	}
	return 0, fmt.Errorf("%w: softgl cannot create with %s", recording.ErrUnsupported, op)
}

// Exec implements device.Device.
func (d *Device) Exec(op recording.Opcode, args []device.Arg) error {
	st := &d.st
	switch op {
	case recording.OpActiveTexture:
		unit := int(args[0].Enum - gl.TEXTURE0)
		if unit < 0 || unit >= len(st.units) {
			return fmt.Errorf("%w: texture unit %d", recording.ErrUnsupported, unit)
		}
		st.activeUnit = unit
	case recording.OpAttachShader:
		if p := d.programs[args[0].Name]; p != nil {
			p.shaders = append(p.shaders, args[1].Name)
		}
	case recording.OpDetachShader:
		if p := d.programs[args[0].Name]; p != nil {
			p.detach(args[1].Name)
		}
	case recording.OpBindAttribLocation:
		if p := d.programs[args[0].Name]; p != nil {
			// #nosec G115 -- attribute indices are small
			p.bound[args[2].Str] = uint32(args[1].Int)
		}
	case recording.OpBindBuffer:
		switch args[0].Enum {
		case gl.ARRAY_BUFFER:
			st.arrayBuffer = args[1].Name
		case gl.ELEMENT_ARRAY_BUFFER:
			st.elementBuffer = args[1].Name
		}
	case recording.OpBindFramebuffer:
		st.framebuffer = args[1].Name
	case recording.OpBindRenderbuffer:
	case recording.OpBindTexture:
		if args[0].Enum == gl.TEXTURE_2D {
			st.units[st.activeUnit] = args[1].Name
		}
	case recording.OpBlendColor:
		st.blendColor = floats4(args)
	case recording.OpBlendEquation, recording.OpBlendEquationSeparate:
		for _, a := range args {
			if a.Enum != gl.FUNC_ADD {
				return fmt.Errorf("%w: blend equation %s", recording.ErrUnsupported, a.Enum)
			}
		}
	case recording.OpBlendFunc:
		st.blendFunc = [4]gl.Enum{args[0].Enum, args[1].Enum, args[0].Enum, args[1].Enum}
	case recording.OpBlendFuncSeparate:
		st.blendFunc = [4]gl.Enum{args[0].Enum, args[1].Enum, args[2].Enum, args[3].Enum}
	case recording.OpBufferDataSize:
		d.setBuffer(args[0].Enum, make([]byte, args[1].Int))
	case recording.OpBufferData:
		data, err := device.Encode(args[1])
		if err != nil {
			return err
		}
		d.setBuffer(args[0].Enum, data)
	case recording.OpBufferDataResource:
		d.setBuffer(args[0].Enum, append([]byte(nil), args[1].Bytes...))
	case recording.OpBufferSubData:
		data, err := device.Encode(args[2])
		if err != nil {
			return err
		}
		return d.subBuffer(args[0].Enum, int(args[1].Int), data)
	case recording.OpBufferSubDataResource:
		return d.subBuffer(args[0].Enum, int(args[1].Int), args[2].Bytes)
	case recording.OpClear:
		return d.clear(args[0].Enum)
	case recording.OpClearColor:
		st.clearColor = floats4(args)
	case recording.OpClearDepth:
		st.clearDepth = float32(args[0].Float)
	case recording.OpColorMask:
		st.colorMask = [4]bool{args[0].Bool, args[1].Bool, args[2].Bool, args[3].Bool}
	case recording.OpShaderSource:
		if s := d.shaders[args[0].Name]; s != nil {
			s.source = args[1].Str
		}
	case recording.OpCompileShader:
		if s := d.shaders[args[0].Name]; s != nil {
			s.attribs, s.uniforms = scan(s.source)
		}
	case recording.OpLinkProgram:
		if p := d.programs[args[0].Name]; p != nil {
			p.link(d.shaders)
		}
	case recording.OpUseProgram:
		st.program = args[0].Name
	case recording.OpCullFace:
		st.cullFace = args[0].Enum
	case recording.OpFrontFace:
		st.frontFace = args[0].Enum
	case recording.OpDepthFunc:
		st.depthFunc = args[0].Enum
	case recording.OpDepthMask:
		st.depthMask = args[0].Bool
	case recording.OpDepthRange:
		st.depthRange = [2]float32{float32(args[0].Float), float32(args[1].Float)}
	case recording.OpEnable, recording.OpDisable:
		return d.capability(args[0].Enum, op == recording.OpEnable)
	case recording.OpEnableVertexAttribArray, recording.OpDisableVertexAttribArray:
		if a := d.attrib(args[0].Name); a != nil {
			a.enabled = op == recording.OpEnableVertexAttribArray
		}
	case recording.OpVertexAttribPointer:
		if a := d.attrib(args[0].Name); a != nil {
			a.buffer = st.arrayBuffer
			a.size = int(args[1].Int)
			a.typ = args[2].Enum
			a.normalized = args[3].Bool
			a.stride = int(args[4].Int)
			a.offset = int(args[5].Int)
		}
	case recording.OpVertexAttrib1f, recording.OpVertexAttrib2f, recording.OpVertexAttrib3f, recording.OpVertexAttrib4f:
		if a := d.attrib(args[0].Name); a != nil {
			a.constant = [4]float32{0, 0, 0, 1}
			for i, v := range args[1:] {
				a.constant[i] = float32(v.Float)
			}
		}
	case recording.OpVertexAttrib1fv, recording.OpVertexAttrib2fv, recording.OpVertexAttrib3fv, recording.OpVertexAttrib4fv:
		if a := d.attrib(args[0].Name); a != nil {
			a.constant = [4]float32{0, 0, 0, 1}
			copy(a.constant[:], args[1].Floats)
		}
	case recording.OpDrawArrays:
		return d.drawArrays(args[0].Enum, int(args[1].Int), int(args[2].Int))
	case recording.OpDrawElements:
		return d.drawElements(args[0].Enum, int(args[1].Int), args[2].Enum, int(args[3].Int))
	case recording.OpViewport:
		st.viewport = ints4(args)
	case recording.OpScissor:
		st.scissor = ints4(args)
	case recording.OpPixelStorei:
		if args[0].Enum == gl.UNPACK_FLIP_Y_WEBGL {
			st.flipY = args[1].Int != 0
		}
	case recording.OpTexImage2D:
		return d.texImage(args[0].Enum, int(args[1].Int), image.NewNRGBA(image.Rect(0, 0, int(args[3].Int), int(args[4].Int))))
	case recording.OpTexImage2DImage:
		return d.texImage(args[0].Enum, int(args[1].Int), d.upload(args[5].Image))
	case recording.OpTexParameteri:
		if t := d.bound(); t != nil {
			switch args[1].Enum {
			case gl.TEXTURE_WRAP_S:
				t.wrapS = args[2].Enum
			case gl.TEXTURE_WRAP_T:
				t.wrapT = args[2].Enum
			}
		}
	case recording.OpDeleteBuffer:
		delete(d.buffers, args[0].Name)
	case recording.OpDeleteShader:
		delete(d.shaders, args[0].Name)
	case recording.OpDeleteProgram:
		delete(d.programs, args[0].Name)
	case recording.OpDeleteTexture:
		delete(d.textures, args[0].Name)
	case recording.OpDeleteFramebuffer:
		delete(d.framebuffers, args[0].Name)
	case recording.OpDeleteRenderbuffer:
		delete(d.renderbuffers, args[0].Name)
	case recording.OpCopyTexImage2D, recording.OpCopyTexSubImage2D:
		return fmt.Errorf("%w: %s", recording.ErrUnsupported, op)
	case recording.OpClearStencil, recording.OpStencilFunc, recording.OpStencilFuncSeparate,
		recording.OpStencilMask, recording.OpStencilMaskSeparate, recording.OpStencilOp,
		recording.OpStencilOpSeparate, recording.OpFinish, recording.OpFlush,
		recording.OpFramebufferRenderbuffer, recording.OpFramebufferTexture2D,
		recording.OpGenerateMipmap, recording.OpHint, recording.OpLineWidth,
		recording.OpPolygonOffset, recording.OpRenderbufferStorage,
		recording.OpSampleCoverage, recording.OpValidateProgram:
		// Accepted without effect.
	default:
		if isUniform(op) {
			return d.setUniform(op, args)
		}
		return fmt.Errorf("%w: softgl cannot execute %s", recording.ErrUnsupported, op)
	}
	return nil
}

func (d *Device) capability(c gl.Enum, on bool) error {
	st := &d.st
	switch c {
	case gl.DEPTH_TEST:
		st.depthTest = on
	case gl.CULL_FACE:
		st.cull = on
	case gl.BLEND:
		st.blend = on
	case gl.SCISSOR_TEST:
		st.scissorTest = on
	case gl.STENCIL_TEST:
		if on {
			return fmt.Errorf("%w: stencil test", recording.ErrUnsupported)
		}
	}
	return nil
}

// attrib returns the vertex attribute at a location argument.
func (d *Device) attrib(loc uint32) *attrib {
	if loc >= maxAttribs {
		return nil
	}
	return &d.st.attribs[loc]
}

func (d *Device) target(t gl.Enum) uint32 {
	if t == gl.ELEMENT_ARRAY_BUFFER {
		return d.st.elementBuffer
	}
	return d.st.arrayBuffer
}

func (d *Device) setBuffer(t gl.Enum, data []byte) {
	if n := d.target(t); n != 0 {
		d.buffers[n] = data
	}
}

func (d *Device) subBuffer(t gl.Enum, offset int, data []byte) error {
	n := d.target(t)
	buf := d.buffers[n]
	if offset < 0 || offset+len(data) > len(buf) {
		return fmt.Errorf("softgl: bufferSubData range %d+%d exceeds %d bytes", offset, len(data), len(buf))
	}
	copy(buf[offset:], data)
	return nil
}

func floats4(args []device.Arg) [4]float32 {
	return [4]float32{float32(args[0].Float), float32(args[1].Float), float32(args[2].Float), float32(args[3].Float)}
}

func ints4(args []device.Arg) [4]int {
	return [4]int{int(args[0].Int), int(args[1].Int), int(args[2].Int), int(args[3].Int)}
}

// clear fills the color and depth buffers inside the scissor box.
func (d *Device) clear(mask gl.Enum) error {
	if d.st.framebuffer != 0 {
		return fmt.Errorf("%w: clearing a framebuffer object", recording.ErrUnsupported)
	}
	r := d.clip()
	if mask&gl.COLOR_BUFFER_BIT != 0 {
		var px [4]uint8
		for i, c := range d.st.clearColor {
			px[i] = toByte(c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				o := d.color.PixOffset(x, d.height-1-y)
				for i := range px {
					if d.st.colorMask[i] {
						d.color.Pix[o+i] = px[i]
					}
				}
			}
		}
	}
	if mask&gl.DEPTH_BUFFER_BIT != 0 && d.st.depthMask {
		z := clamp01(d.st.clearDepth)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			row := (d.height - 1 - y) * d.width
			for x := r.Min.X; x < r.Max.X; x++ {
				d.depth[row+x] = z
			}
		}
	}
	return nil
}

// clip returns the writable region in window coordinates (origin bottom
// left).
func (d *Device) clip() image.Rectangle {
	r := image.Rect(0, 0, d.width, d.height)
	if d.st.scissorTest {
		s := d.st.scissor
		r = r.Intersect(image.Rect(s[0], s[1], s[0]+s[2], s[1]+s[3]))
	}
	return r
}

func clamp01(f float32) float32 {
	return float32(math.Min(1, math.Max(0, float64(f))))
}

func toByte(f float32) uint8 {
	return uint8(clamp01(f)*255 + 0.5)
}
