package recording

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glsurface/gl"
)

func f32(v float32) Arg { return FloatArg(float64(v)) }

// ActiveTexture selects the active texture unit.
func (r *Recorder) ActiveTexture(texture gl.Enum) {
	r.record(OpActiveTexture, EnumArg(texture))
}

func (r *Recorder) AttachShader(p Program, s Shader) {
	r.record(OpAttachShader, r.ref(KindProgram, p.Object, false), r.ref(KindShader, s.Object, false))
}

func (r *Recorder) BindAttribLocation(p Program, index int, name string) {
	r.record(OpBindAttribLocation, r.ref(KindProgram, p.Object, false), IntArg(index), StringArg(name))
}

// BindBuffer binds b to target. The null handle unbinds.
func (r *Recorder) BindBuffer(target gl.Enum, b Buffer) {
	arg := r.ref(KindBuffer, b.Object, true)
	r.bind.bindBuffer(target, b.Object)
	r.record(OpBindBuffer, EnumArg(target), arg)
}

// BindFramebuffer binds fb. The null handle selects the default framebuffer.
func (r *Recorder) BindFramebuffer(target gl.Enum, fb Framebuffer) {
	r.record(OpBindFramebuffer, EnumArg(target), r.ref(KindFramebuffer, fb.Object, true))
}

func (r *Recorder) BindRenderbuffer(target gl.Enum, rb Renderbuffer) {
	r.record(OpBindRenderbuffer, EnumArg(target), r.ref(KindRenderbuffer, rb.Object, true))
}

func (r *Recorder) BindTexture(target gl.Enum, t Texture) {
	r.record(OpBindTexture, EnumArg(target), r.ref(KindTexture, t.Object, true))
}

func (r *Recorder) BlendColor(red, green, blue, alpha float32) {
	r.record(OpBlendColor, f32(red), f32(green), f32(blue), f32(alpha))
}

func (r *Recorder) BlendEquation(mode gl.Enum) {
	r.record(OpBlendEquation, EnumArg(mode))
}

func (r *Recorder) BlendEquationSeparate(modeRGB, modeAlpha gl.Enum) {
	r.record(OpBlendEquationSeparate, EnumArg(modeRGB), EnumArg(modeAlpha))
}

func (r *Recorder) BlendFunc(sfactor, dfactor gl.Enum) {
	r.record(OpBlendFunc, EnumArg(sfactor), EnumArg(dfactor))
}

func (r *Recorder) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha gl.Enum) {
	r.record(OpBlendFuncSeparate, EnumArg(srcRGB), EnumArg(dstRGB), EnumArg(srcAlpha), EnumArg(dstAlpha))
}

// BufferDataSize allocates size bytes of uninitialized storage.
func (r *Recorder) BufferDataSize(target gl.Enum, size int, usage gl.Enum) {
	r.buffer()
	r.bind.setSource(target, ArrayBuffer{})
	r.record(OpBufferDataSize, EnumArg(target), IntArg(size), EnumArg(usage))
}

// BufferDatafv uploads float data to the buffer bound to target. With
// binary set, or when data exceeds the inline limit, the floats are
// externalized as a binary resource and fetched by the browser before
// painting; otherwise they are written inline into the script.
func (r *Recorder) BufferDatafv(target gl.Enum, data []float32, usage gl.Enum, binary bool) {
	if binary || r.exceedsInline(len(data)) {
		ab := r.ArrayBufferFromFloats(data)
		r.BufferDataResource(target, ab, 0, 4*len(data), usage)
		return
	}
	r.buffer()
	r.bind.setSource(target, ArrayBuffer{})
	r.record(OpBufferData, EnumArg(target), FloatsArg(data), EnumArg(usage))
}

// BufferDataiv uploads integer data as a typed array of elemType
// (UNSIGNED_BYTE, UNSIGNED_SHORT, UNSIGNED_INT, BYTE, SHORT or INT).
func (r *Recorder) BufferDataiv(target gl.Enum, data []int32, usage, elemType gl.Enum) {
	r.buffer()
	r.bind.setSource(target, ArrayBuffer{})
	r.record(OpBufferData, EnumArg(target), IntsArg(data, elemType), EnumArg(usage))
}

// BufferSubDatafv updates part of the bound buffer's data. Binary
// externalization follows the rules of BufferDatafv.
func (r *Recorder) BufferSubDatafv(target gl.Enum, offset int, data []float32, binary bool) {
	if binary || r.exceedsInline(len(data)) {
		ab := r.ArrayBufferFromFloats(data)
		r.BufferSubDataResource(target, offset, ab, 0, 4*len(data))
		return
	}
	r.record(OpBufferSubData, EnumArg(target), IntArg(offset), FloatsArg(data))
}

func (r *Recorder) BufferSubDataiv(target gl.Enum, offset int, data []int32, elemType gl.Enum) {
	r.record(OpBufferSubData, EnumArg(target), IntArg(offset), IntsArg(data, elemType))
}

// BufferDataResource uploads length bytes starting at offset of an array
// buffer. A zero length uploads everything from offset.
func (r *Recorder) BufferDataResource(target gl.Enum, ab ArrayBuffer, offset, length int, usage gl.Enum) {
	arg := r.ref(KindArrayBuffer, ab.Object, false)
	r.bind.setSource(target, ab)
	arg.Resource = ResourceRef{Offset: offset, Length: length}
	r.emit(Command{
		Op:       OpBufferDataResource,
		Args:     []Arg{EnumArg(target), arg, EnumArg(usage)},
		Requires: []ArrayBuffer{ab},
	})
}

// BufferSubDataResource writes a slice of an array buffer at dstOffset of
// the bound buffer.
func (r *Recorder) BufferSubDataResource(target gl.Enum, dstOffset int, ab ArrayBuffer, offset, length int) {
	arg := r.ref(KindArrayBuffer, ab.Object, false)
	arg.Resource = ResourceRef{Offset: offset, Length: length}
	r.emit(Command{
		Op:       OpBufferSubDataResource,
		Args:     []Arg{EnumArg(target), IntArg(dstOffset), arg},
		Requires: []ArrayBuffer{ab},
	})
}

func (r *Recorder) exceedsInline(n int) bool {
	return r.inlineLimit > 0 && n > r.inlineLimit
}

// Clear clears the buffers selected by mask.
func (r *Recorder) Clear(mask gl.Enum) {
	r.record(OpClear, EnumArg(mask))
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record(OpClearColor, f32(red), f32(green), f32(blue), f32(alpha))
}

func (r *Recorder) ClearDepth(depth float32) {
	r.record(OpClearDepth, f32(depth))
}

func (r *Recorder) ClearStencil(s int) {
	r.record(OpClearStencil, IntArg(s))
}

func (r *Recorder) ColorMask(red, green, blue, alpha bool) {
	r.record(OpColorMask, BoolArg(red), BoolArg(green), BoolArg(blue), BoolArg(alpha))
}

func (r *Recorder) CompileShader(s Shader) {
	r.record(OpCompileShader, r.ref(KindShader, s.Object, false))
}

func (r *Recorder) CopyTexImage2D(target gl.Enum, level int, internalFormat gl.Enum, x, y, width, height, border int) {
	r.record(OpCopyTexImage2D, EnumArg(target), IntArg(level), EnumArg(internalFormat),
		IntArg(x), IntArg(y), IntArg(width), IntArg(height), IntArg(border))
}

func (r *Recorder) CopyTexSubImage2D(target gl.Enum, level, xoffset, yoffset, x, y, width, height int) {
	r.record(OpCopyTexSubImage2D, EnumArg(target), IntArg(level), IntArg(xoffset), IntArg(yoffset),
		IntArg(x), IntArg(y), IntArg(width), IntArg(height))
}

func (r *Recorder) CreateBuffer() Buffer {
	return Buffer{r.allocate(KindBuffer, OpCreateBuffer)}
}

func (r *Recorder) CreateFramebuffer() Framebuffer {
	return Framebuffer{r.allocate(KindFramebuffer, OpCreateFramebuffer)}
}

func (r *Recorder) CreateProgram() Program {
	return Program{r.allocate(KindProgram, OpCreateProgram)}
}

func (r *Recorder) CreateRenderbuffer() Renderbuffer {
	return Renderbuffer{r.allocate(KindRenderbuffer, OpCreateRenderbuffer)}
}

// CreateShader creates a shader of type gl.VERTEX_SHADER or
// gl.FRAGMENT_SHADER.
func (r *Recorder) CreateShader(shaderType gl.Enum) Shader {
	return Shader{r.allocate(KindShader, OpCreateShader, EnumArg(shaderType))}
}

func (r *Recorder) CreateTexture() Texture {
	return Texture{r.allocate(KindTexture, OpCreateTexture)}
}

func (r *Recorder) CullFace(mode gl.Enum) {
	r.record(OpCullFace, EnumArg(mode))
}

func (r *Recorder) DeleteBuffer(b Buffer) {
	r.release(KindBuffer, b.Object, OpDeleteBuffer)
}

func (r *Recorder) DeleteFramebuffer(fb Framebuffer) {
	r.release(KindFramebuffer, fb.Object, OpDeleteFramebuffer)
}

func (r *Recorder) DeleteProgram(p Program) {
	r.release(KindProgram, p.Object, OpDeleteProgram)
}

func (r *Recorder) DeleteRenderbuffer(rb Renderbuffer) {
	r.release(KindRenderbuffer, rb.Object, OpDeleteRenderbuffer)
}

func (r *Recorder) DeleteShader(s Shader) {
	r.release(KindShader, s.Object, OpDeleteShader)
}

func (r *Recorder) DeleteTexture(t Texture) {
	r.release(KindTexture, t.Object, OpDeleteTexture)
}

func (r *Recorder) DepthFunc(fn gl.Enum) {
	r.record(OpDepthFunc, EnumArg(fn))
}

func (r *Recorder) DepthMask(flag bool) {
	r.record(OpDepthMask, BoolArg(flag))
}

func (r *Recorder) DepthRange(zNear, zFar float32) {
	r.record(OpDepthRange, f32(zNear), f32(zFar))
}

func (r *Recorder) DetachShader(p Program, s Shader) {
	r.record(OpDetachShader, r.ref(KindProgram, p.Object, false), r.ref(KindShader, s.Object, false))
}

func (r *Recorder) Disable(capability gl.Enum) {
	r.record(OpDisable, EnumArg(capability))
}

func (r *Recorder) DisableVertexAttribArray(loc AttribLocation) {
	arg := r.ref(KindAttribLocation, loc.Object, false)
	r.bind.enabled[loc.Object] = false
	r.record(OpDisableVertexAttribArray, arg)
}

// DrawArrays renders count vertices starting at first.
func (r *Recorder) DrawArrays(mode gl.Enum, first, count int) {
	r.buffer()
	r.emit(Command{
		Op:       OpDrawArrays,
		Args:     []Arg{EnumArg(mode), IntArg(first), IntArg(count)},
		Requires: r.bind.requires(false),
	})
}

// DrawElements renders count indices of elemType read from the bound
// element array buffer at byte offset.
func (r *Recorder) DrawElements(mode gl.Enum, count int, elemType gl.Enum, offset int) {
	r.buffer()
	r.emit(Command{
		Op:       OpDrawElements,
		Args:     []Arg{EnumArg(mode), IntArg(count), EnumArg(elemType), IntArg(offset)},
		Requires: r.bind.requires(true),
	})
}

func (r *Recorder) Enable(capability gl.Enum) {
	r.record(OpEnable, EnumArg(capability))
}

func (r *Recorder) EnableVertexAttribArray(loc AttribLocation) {
	arg := r.ref(KindAttribLocation, loc.Object, false)
	r.bind.enabled[loc.Object] = true
	r.record(OpEnableVertexAttribArray, arg)
}

func (r *Recorder) Finish() { r.record(OpFinish) }

func (r *Recorder) Flush() { r.record(OpFlush) }

func (r *Recorder) FramebufferRenderbuffer(target, attachment, renderbufferTarget gl.Enum, rb Renderbuffer) {
	r.record(OpFramebufferRenderbuffer, EnumArg(target), EnumArg(attachment), EnumArg(renderbufferTarget),
		r.ref(KindRenderbuffer, rb.Object, true))
}

func (r *Recorder) FramebufferTexture2D(target, attachment, textarget gl.Enum, t Texture, level int) {
	r.record(OpFramebufferTexture2D, EnumArg(target), EnumArg(attachment), EnumArg(textarget),
		r.ref(KindTexture, t.Object, true), IntArg(level))
}

func (r *Recorder) FrontFace(mode gl.Enum) {
	r.record(OpFrontFace, EnumArg(mode))
}

func (r *Recorder) GenerateMipmap(target gl.Enum) {
	r.record(OpGenerateMipmap, EnumArg(target))
}

// GetAttribLocation looks up a vertex attribute of a linked program.
func (r *Recorder) GetAttribLocation(p Program, name string) AttribLocation {
	arg := r.ref(KindProgram, p.Object, false)
	return AttribLocation{r.allocate(KindAttribLocation, OpGetAttribLocation, arg, StringArg(name))}
}

// GetUniformLocation looks up a uniform of a linked program.
func (r *Recorder) GetUniformLocation(p Program, name string) UniformLocation {
	arg := r.ref(KindProgram, p.Object, false)
	return UniformLocation{r.allocate(KindUniformLocation, OpGetUniformLocation, arg, StringArg(name))}
}

func (r *Recorder) Hint(target, mode gl.Enum) {
	r.record(OpHint, EnumArg(target), EnumArg(mode))
}

func (r *Recorder) LineWidth(width float32) {
	r.record(OpLineWidth, f32(width))
}

func (r *Recorder) LinkProgram(p Program) {
	r.record(OpLinkProgram, r.ref(KindProgram, p.Object, false))
}

func (r *Recorder) PixelStorei(pname gl.Enum, param int) {
	r.record(OpPixelStorei, EnumArg(pname), IntArg(param))
}

func (r *Recorder) PolygonOffset(factor, units float32) {
	r.record(OpPolygonOffset, f32(factor), f32(units))
}

func (r *Recorder) RenderbufferStorage(target, internalFormat gl.Enum, width, height int) {
	r.record(OpRenderbufferStorage, EnumArg(target), EnumArg(internalFormat), IntArg(width), IntArg(height))
}

func (r *Recorder) SampleCoverage(value float32, invert bool) {
	r.record(OpSampleCoverage, f32(value), BoolArg(invert))
}

func (r *Recorder) Scissor(x, y, width, height int) {
	r.record(OpScissor, IntArg(x), IntArg(y), IntArg(width), IntArg(height))
}

func (r *Recorder) ShaderSource(s Shader, source string) {
	r.record(OpShaderSource, r.ref(KindShader, s.Object, false), StringArg(source))
}

func (r *Recorder) StencilFunc(fn gl.Enum, ref int, mask uint32) {
	r.record(OpStencilFunc, EnumArg(fn), IntArg(ref), IntArg(int(mask)))
}

func (r *Recorder) StencilFuncSeparate(face, fn gl.Enum, ref int, mask uint32) {
	r.record(OpStencilFuncSeparate, EnumArg(face), EnumArg(fn), IntArg(ref), IntArg(int(mask)))
}

func (r *Recorder) StencilMask(mask uint32) {
	r.record(OpStencilMask, IntArg(int(mask)))
}

func (r *Recorder) StencilMaskSeparate(face gl.Enum, mask uint32) {
	r.record(OpStencilMaskSeparate, EnumArg(face), IntArg(int(mask)))
}

func (r *Recorder) StencilOp(fail, zfail, zpass gl.Enum) {
	r.record(OpStencilOp, EnumArg(fail), EnumArg(zfail), EnumArg(zpass))
}

func (r *Recorder) StencilOpSeparate(face, fail, zfail, zpass gl.Enum) {
	r.record(OpStencilOpSeparate, EnumArg(face), EnumArg(fail), EnumArg(zfail), EnumArg(zpass))
}

// TexImage2D allocates texture storage without initial pixels.
func (r *Recorder) TexImage2D(target gl.Enum, level int, internalFormat gl.Enum, width, height, border int, format, dataType gl.Enum) {
	r.record(OpTexImage2D, EnumArg(target), IntArg(level), EnumArg(internalFormat),
		IntArg(width), IntArg(height), IntArg(border), EnumArg(format), EnumArg(dataType))
}

// TexParameteri sets an integer texture parameter. Most parameters take
// enum values such as gl.LINEAR.
func (r *Recorder) TexParameteri(target, pname, param gl.Enum) {
	r.record(OpTexParameteri, EnumArg(target), EnumArg(pname), EnumArg(param))
}

func (r *Recorder) uniform(op Opcode, loc UniformLocation, args ...Arg) {
	r.record(op, append([]Arg{r.ref(KindUniformLocation, loc.Object, false)}, args...)...)
}

func (r *Recorder) Uniform1f(loc UniformLocation, x float32) {
	r.uniform(OpUniform1f, loc, f32(x))
}

func (r *Recorder) Uniform2f(loc UniformLocation, x, y float32) {
	r.uniform(OpUniform2f, loc, f32(x), f32(y))
}

func (r *Recorder) Uniform3f(loc UniformLocation, x, y, z float32) {
	r.uniform(OpUniform3f, loc, f32(x), f32(y), f32(z))
}

func (r *Recorder) Uniform4f(loc UniformLocation, x, y, z, w float32) {
	r.uniform(OpUniform4f, loc, f32(x), f32(y), f32(z), f32(w))
}

func (r *Recorder) Uniform1i(loc UniformLocation, x int) {
	r.uniform(OpUniform1i, loc, IntArg(x))
}

func (r *Recorder) Uniform2i(loc UniformLocation, x, y int) {
	r.uniform(OpUniform2i, loc, IntArg(x), IntArg(y))
}

func (r *Recorder) Uniform3i(loc UniformLocation, x, y, z int) {
	r.uniform(OpUniform3i, loc, IntArg(x), IntArg(y), IntArg(z))
}

func (r *Recorder) Uniform4i(loc UniformLocation, x, y, z, w int) {
	r.uniform(OpUniform4i, loc, IntArg(x), IntArg(y), IntArg(z), IntArg(w))
}

func (r *Recorder) Uniform1fv(loc UniformLocation, v []float32) {
	r.uniform(OpUniform1fv, loc, FloatsArg(v))
}

func (r *Recorder) Uniform2fv(loc UniformLocation, v []float32) {
	r.uniform(OpUniform2fv, loc, FloatsArg(v))
}

func (r *Recorder) Uniform3fv(loc UniformLocation, v []float32) {
	r.uniform(OpUniform3fv, loc, FloatsArg(v))
}

func (r *Recorder) Uniform4fv(loc UniformLocation, v []float32) {
	r.uniform(OpUniform4fv, loc, FloatsArg(v))
}

func (r *Recorder) Uniform1iv(loc UniformLocation, v []int32) {
	r.uniform(OpUniform1iv, loc, IntsArg(v, gl.INT))
}

func (r *Recorder) Uniform2iv(loc UniformLocation, v []int32) {
	r.uniform(OpUniform2iv, loc, IntsArg(v, gl.INT))
}

func (r *Recorder) Uniform3iv(loc UniformLocation, v []int32) {
	r.uniform(OpUniform3iv, loc, IntsArg(v, gl.INT))
}

func (r *Recorder) Uniform4iv(loc UniformLocation, v []int32) {
	r.uniform(OpUniform4iv, loc, IntsArg(v, gl.INT))
}

func (r *Recorder) UniformMatrix2fv(loc UniformLocation, transpose bool, v []float32) {
	r.uniform(OpUniformMatrix2fv, loc, BoolArg(transpose), FloatsArg(v))
}

func (r *Recorder) UniformMatrix3fv(loc UniformLocation, transpose bool, v []float32) {
	r.uniform(OpUniformMatrix3fv, loc, BoolArg(transpose), FloatsArg(v))
}

func (r *Recorder) UniformMatrix4fv(loc UniformLocation, transpose bool, v []float32) {
	r.uniform(OpUniformMatrix4fv, loc, BoolArg(transpose), FloatsArg(v))
}

// UniformMatrix4 uploads a literal column-major matrix.
func (r *Recorder) UniformMatrix4(loc UniformLocation, m mgl32.Mat4) {
	r.uniform(OpUniformMatrix4fv, loc, BoolArg(false), FloatsArg(m[:]))
}

func (r *Recorder) UseProgram(p Program) {
	r.record(OpUseProgram, r.ref(KindProgram, p.Object, true))
}

func (r *Recorder) ValidateProgram(p Program) {
	r.record(OpValidateProgram, r.ref(KindProgram, p.Object, false))
}

func (r *Recorder) attrib(op Opcode, loc AttribLocation, args ...Arg) {
	r.record(op, append([]Arg{r.ref(KindAttribLocation, loc.Object, false)}, args...)...)
}

func (r *Recorder) VertexAttrib1f(loc AttribLocation, x float32) {
	r.attrib(OpVertexAttrib1f, loc, f32(x))
}

func (r *Recorder) VertexAttrib2f(loc AttribLocation, x, y float32) {
	r.attrib(OpVertexAttrib2f, loc, f32(x), f32(y))
}

func (r *Recorder) VertexAttrib3f(loc AttribLocation, x, y, z float32) {
	r.attrib(OpVertexAttrib3f, loc, f32(x), f32(y), f32(z))
}

func (r *Recorder) VertexAttrib4f(loc AttribLocation, x, y, z, w float32) {
	r.attrib(OpVertexAttrib4f, loc, f32(x), f32(y), f32(z), f32(w))
}

// VertexAttrib1fv sets the constant value of attribute loc from the first
// component of v.
func (r *Recorder) VertexAttrib1fv(loc AttribLocation, v []float32) {
	r.attribv(OpVertexAttrib1fv, 1, loc, v)
}

func (r *Recorder) VertexAttrib2fv(loc AttribLocation, v []float32) {
	r.attribv(OpVertexAttrib2fv, 2, loc, v)
}

func (r *Recorder) VertexAttrib3fv(loc AttribLocation, v []float32) {
	r.attribv(OpVertexAttrib3fv, 3, loc, v)
}

func (r *Recorder) VertexAttrib4fv(loc AttribLocation, v []float32) {
	r.attribv(OpVertexAttrib4fv, 4, loc, v)
}

// attribv records the first n components of v. Shorter arrays are
// rejected, as WebGL would reject them.
func (r *Recorder) attribv(op Opcode, n int, loc AttribLocation, v []float32) {
	if len(v) < n {
		r.buffer()
		r.fail(fmt.Errorf("%w: %s needs %d components, got %d", ErrArgument, op, n, len(v)))
	}
	r.attrib(op, loc, FloatsArg(v[:n]))
}

// VertexAttribPointer sources attribute loc from the buffer currently bound
// to gl.ARRAY_BUFFER.
func (r *Recorder) VertexAttribPointer(loc AttribLocation, size int, dataType gl.Enum, normalized bool, stride, offset int) {
	arg := r.ref(KindAttribLocation, loc.Object, false)
	r.bind.attrib[loc.Object] = r.bind.array
	r.record(OpVertexAttribPointer, arg, IntArg(size), EnumArg(dataType), BoolArg(normalized), IntArg(stride), IntArg(offset))
}

func (r *Recorder) Viewport(x, y, width, height int) {
	r.record(OpViewport, IntArg(x), IntArg(y), IntArg(width), IntArg(height))
}
