package recording

import (
	"fmt"

	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/resident"
)

// Opcode identifies a recorded operation. Most opcodes map one to one onto a
// WebGL method; the remainder drive client-resident values, resources and
// interaction.
type Opcode uint16

const (
	OpActiveTexture Opcode = iota
	OpAttachShader
	OpBindAttribLocation
	OpBindBuffer
	OpBindFramebuffer
	OpBindRenderbuffer
	OpBindTexture
	OpBlendColor
	OpBlendEquation
	OpBlendEquationSeparate
	OpBlendFunc
	OpBlendFuncSeparate
	OpBufferDataSize        // target, size, usage
	OpBufferData            // target, literal array, usage
	OpBufferSubData         // target, offset, literal array
	OpBufferDataResource    // target, array buffer slice, usage
	OpBufferSubDataResource // target, offset, array buffer slice
	OpClear
	OpClearColor
	OpClearDepth
	OpClearStencil
	OpColorMask
	OpCompileShader
	OpCopyTexImage2D
	OpCopyTexSubImage2D
	OpCreateArrayBuffer // result; resource
	OpCreateBuffer
	OpCreateFramebuffer
	OpCreateProgram
	OpCreateRenderbuffer
	OpCreateShader
	OpCreateTexture
	OpCullFace
	OpDeleteBuffer
	OpDeleteFramebuffer
	OpDeleteProgram
	OpDeleteRenderbuffer
	OpDeleteShader
	OpDeleteTexture
	OpDepthFunc
	OpDepthMask
	OpDepthRange
	OpDetachShader
	OpDisable
	OpDisableVertexAttribArray
	OpDrawArrays
	OpDrawElements
	OpEnable
	OpEnableVertexAttribArray
	OpFinish
	OpFlush
	OpFramebufferRenderbuffer
	OpFramebufferTexture2D
	OpFrontFace
	OpGenerateMipmap
	OpGetAttribLocation
	OpGetUniformLocation
	OpHint
	OpLineWidth
	OpLinkProgram
	OpPixelStorei
	OpPolygonOffset
	OpRenderbufferStorage
	OpSampleCoverage
	OpScissor
	OpShaderSource
	OpStencilFunc
	OpStencilFuncSeparate
	OpStencilMask
	OpStencilMaskSeparate
	OpStencilOp
	OpStencilOpSeparate
	OpTexImage2D      // target, level, internal, width, height, border, format, type
	OpTexImage2DImage // target, level, internal, format, type, image resource
	OpTexParameteri
	OpUniform1f
	OpUniform2f
	OpUniform3f
	OpUniform4f
	OpUniform1i
	OpUniform2i
	OpUniform3i
	OpUniform4i
	OpUniform1fv
	OpUniform2fv
	OpUniform3fv
	OpUniform4fv
	OpUniform1iv
	OpUniform2iv
	OpUniform3iv
	OpUniform4iv
	OpUniformMatrix2fv
	OpUniformMatrix3fv
	OpUniformMatrix4fv
	OpUseProgram
	OpValidateProgram
	OpVertexAttrib1f
	OpVertexAttrib2f
	OpVertexAttrib3f
	OpVertexAttrib4f
	OpVertexAttrib1fv
	OpVertexAttrib2fv
	OpVertexAttrib3fv
	OpVertexAttrib4fv
	OpVertexAttribPointer
	OpViewport

	OpInitValue       // value, literal
	OpSetValue        // value, literal
	OpInjectScript    // script
	OpDebugger        //
	OpSetMouseHandler // mode, mode arguments

	opCount
)

// opInfo holds the printable name and the WebGL method of each opcode. An
// empty method marks opcodes that backends handle specially.
var opInfo = [opCount]struct{ name, method string }{
	OpActiveTexture:            {"ActiveTexture", "activeTexture"},
	OpAttachShader:             {"AttachShader", "attachShader"},
	OpBindAttribLocation:       {"BindAttribLocation", "bindAttribLocation"},
	OpBindBuffer:               {"BindBuffer", "bindBuffer"},
	OpBindFramebuffer:          {"BindFramebuffer", "bindFramebuffer"},
	OpBindRenderbuffer:         {"BindRenderbuffer", "bindRenderbuffer"},
	OpBindTexture:              {"BindTexture", "bindTexture"},
	OpBlendColor:               {"BlendColor", "blendColor"},
	OpBlendEquation:            {"BlendEquation", "blendEquation"},
	OpBlendEquationSeparate:    {"BlendEquationSeparate", "blendEquationSeparate"},
	OpBlendFunc:                {"BlendFunc", "blendFunc"},
	OpBlendFuncSeparate:        {"BlendFuncSeparate", "blendFuncSeparate"},
	OpBufferDataSize:           {"BufferDataSize", "bufferData"},
	OpBufferData:               {"BufferData", "bufferData"},
	OpBufferSubData:            {"BufferSubData", "bufferSubData"},
	OpBufferDataResource:       {"BufferDataResource", ""},
	OpBufferSubDataResource:    {"BufferSubDataResource", ""},
	OpClear:                    {"Clear", ""},
	OpClearColor:               {"ClearColor", "clearColor"},
	OpClearDepth:               {"ClearDepth", "clearDepth"},
	OpClearStencil:             {"ClearStencil", "clearStencil"},
	OpColorMask:                {"ColorMask", "colorMask"},
	OpCompileShader:            {"CompileShader", "compileShader"},
	OpCopyTexImage2D:           {"CopyTexImage2D", "copyTexImage2D"},
	OpCopyTexSubImage2D:        {"CopyTexSubImage2D", "copyTexSubImage2D"},
	OpCreateArrayBuffer:        {"CreateArrayBuffer", ""},
	OpCreateBuffer:             {"CreateBuffer", "createBuffer"},
	OpCreateFramebuffer:        {"CreateFramebuffer", "createFramebuffer"},
	OpCreateProgram:            {"CreateProgram", "createProgram"},
	OpCreateRenderbuffer:       {"CreateRenderbuffer", "createRenderbuffer"},
	OpCreateShader:             {"CreateShader", "createShader"},
	OpCreateTexture:            {"CreateTexture", "createTexture"},
	OpCullFace:                 {"CullFace", "cullFace"},
	OpDeleteBuffer:             {"DeleteBuffer", "deleteBuffer"},
	OpDeleteFramebuffer:        {"DeleteFramebuffer", "deleteFramebuffer"},
	OpDeleteProgram:            {"DeleteProgram", "deleteProgram"},
	OpDeleteRenderbuffer:       {"DeleteRenderbuffer", "deleteRenderbuffer"},
	OpDeleteShader:             {"DeleteShader", "deleteShader"},
	OpDeleteTexture:            {"DeleteTexture", "deleteTexture"},
	OpDepthFunc:                {"DepthFunc", "depthFunc"},
	OpDepthMask:                {"DepthMask", "depthMask"},
	OpDepthRange:               {"DepthRange", "depthRange"},
	OpDetachShader:             {"DetachShader", "detachShader"},
	OpDisable:                  {"Disable", "disable"},
	OpDisableVertexAttribArray: {"DisableVertexAttribArray", "disableVertexAttribArray"},
	OpDrawArrays:               {"DrawArrays", "drawArrays"},
	OpDrawElements:             {"DrawElements", "drawElements"},
	OpEnable:                   {"Enable", "enable"},
	OpEnableVertexAttribArray:  {"EnableVertexAttribArray", "enableVertexAttribArray"},
	OpFinish:                   {"Finish", "finish"},
	OpFlush:                    {"Flush", "flush"},
	OpFramebufferRenderbuffer:  {"FramebufferRenderbuffer", "framebufferRenderbuffer"},
	OpFramebufferTexture2D:     {"FramebufferTexture2D", "framebufferTexture2D"},
	OpFrontFace:                {"FrontFace", "frontFace"},
	OpGenerateMipmap:           {"GenerateMipmap", "generateMipmap"},
	OpGetAttribLocation:        {"GetAttribLocation", "getAttribLocation"},
	OpGetUniformLocation:       {"GetUniformLocation", "getUniformLocation"},
	OpHint:                     {"Hint", "hint"},
	OpLineWidth:                {"LineWidth", "lineWidth"},
	OpLinkProgram:              {"LinkProgram", "linkProgram"},
	OpPixelStorei:              {"PixelStorei", "pixelStorei"},
	OpPolygonOffset:            {"PolygonOffset", "polygonOffset"},
	OpRenderbufferStorage:      {"RenderbufferStorage", "renderbufferStorage"},
	OpSampleCoverage:           {"SampleCoverage", "sampleCoverage"},
	OpScissor:                  {"Scissor", "scissor"},
	OpShaderSource:             {"ShaderSource", "shaderSource"},
	OpStencilFunc:              {"StencilFunc", "stencilFunc"},
	OpStencilFuncSeparate:      {"StencilFuncSeparate", "stencilFuncSeparate"},
	OpStencilMask:              {"StencilMask", "stencilMask"},
	OpStencilMaskSeparate:      {"StencilMaskSeparate", "stencilMaskSeparate"},
	OpStencilOp:                {"StencilOp", "stencilOp"},
	OpStencilOpSeparate:        {"StencilOpSeparate", "stencilOpSeparate"},
	OpTexImage2D:               {"TexImage2D", "texImage2D"},
	OpTexImage2DImage:          {"TexImage2DImage", ""},
	OpTexParameteri:            {"TexParameteri", "texParameteri"},
	OpUniform1f:                {"Uniform1f", "uniform1f"},
	OpUniform2f:                {"Uniform2f", "uniform2f"},
	OpUniform3f:                {"Uniform3f", "uniform3f"},
	OpUniform4f:                {"Uniform4f", "uniform4f"},
	OpUniform1i:                {"Uniform1i", "uniform1i"},
	OpUniform2i:                {"Uniform2i", "uniform2i"},
	OpUniform3i:                {"Uniform3i", "uniform3i"},
	OpUniform4i:                {"Uniform4i", "uniform4i"},
	OpUniform1fv:               {"Uniform1fv", "uniform1fv"},
	OpUniform2fv:               {"Uniform2fv", "uniform2fv"},
	OpUniform3fv:               {"Uniform3fv", "uniform3fv"},
	OpUniform4fv:               {"Uniform4fv", "uniform4fv"},
	OpUniform1iv:               {"Uniform1iv", "uniform1iv"},
	OpUniform2iv:               {"Uniform2iv", "uniform2iv"},
	OpUniform3iv:               {"Uniform3iv", "uniform3iv"},
	OpUniform4iv:               {"Uniform4iv", "uniform4iv"},
	OpUniformMatrix2fv:         {"UniformMatrix2fv", "uniformMatrix2fv"},
	OpUniformMatrix3fv:         {"UniformMatrix3fv", "uniformMatrix3fv"},
	OpUniformMatrix4fv:         {"UniformMatrix4fv", "uniformMatrix4fv"},
	OpUseProgram:               {"UseProgram", "useProgram"},
	OpValidateProgram:          {"ValidateProgram", "validateProgram"},
	OpVertexAttrib1f:           {"VertexAttrib1f", "vertexAttrib1f"},
	OpVertexAttrib2f:           {"VertexAttrib2f", "vertexAttrib2f"},
	OpVertexAttrib3f:           {"VertexAttrib3f", "vertexAttrib3f"},
	OpVertexAttrib4f:           {"VertexAttrib4f", "vertexAttrib4f"},
	OpVertexAttrib1fv:          {"VertexAttrib1fv", "vertexAttrib1fv"},
	OpVertexAttrib2fv:          {"VertexAttrib2fv", "vertexAttrib2fv"},
	OpVertexAttrib3fv:          {"VertexAttrib3fv", "vertexAttrib3fv"},
	OpVertexAttrib4fv:          {"VertexAttrib4fv", "vertexAttrib4fv"},
	OpVertexAttribPointer:      {"VertexAttribPointer", "vertexAttribPointer"},
	OpViewport:                 {"Viewport", "viewport"},
	OpInitValue:                {"InitValue", ""},
	OpSetValue:                 {"SetValue", ""},
	OpInjectScript:             {"InjectScript", ""},
	OpDebugger:                 {"Debugger", ""},
	OpSetMouseHandler:          {"SetMouseHandler", ""},
}

// String returns the opcode name.
func (op Opcode) String() string {
	if op < opCount {
		return opInfo[op].name
	}
	return "Unknown"
}

// Method returns the WebGL context method the opcode maps onto, or "" for
// opcodes without a direct counterpart.
func (op Opcode) Method() string {
	if op < opCount {
		return opInfo[op].method
	}
	return ""
}

// ClientOnly reports whether the opcode only affects browser state (values,
// handlers, injected script). The server backend forwards such commands to
// the browser instead of executing them.
func (op Opcode) ClientOnly() bool {
	switch op {
	case OpInitValue, OpSetValue, OpInjectScript, OpDebugger, OpSetMouseHandler:
		return true
	}
	return false
}

// ArgKind identifies which field of an Arg is meaningful.
type ArgKind uint8

const (
	ArgEnum ArgKind = iota
	ArgInt
	ArgFloat
	ArgBool
	ArgString
	ArgFloats
	ArgInts
	ArgObject
	ArgValue
	ArgResource
)

// ResourceRef points at an externalized payload: either a BinaryResource of
// the surface (Handle) or an external URL. Offset and Length select a byte
// range; a zero Length means the whole payload.
type ResourceRef struct {
	Handle string
	URL    string
	Offset int
	Length int
}

// Arg is one command argument.
type Arg struct {
	Kind     ArgKind
	Enum     gl.Enum
	Int      int64
	Float    float64
	Bool     bool
	Str      string
	Floats   []float32
	Ints     []int32
	ElemType gl.Enum // element type of Ints: UNSIGNED_SHORT, INT, ...
	Object   Object
	Value    resident.Value
	Resource ResourceRef
}

func EnumArg(e gl.Enum) Arg         { return Arg{Kind: ArgEnum, Enum: e} }
func IntArg(i int) Arg              { return Arg{Kind: ArgInt, Int: int64(i)} }
func FloatArg(f float64) Arg        { return Arg{Kind: ArgFloat, Float: f} }
func BoolArg(b bool) Arg            { return Arg{Kind: ArgBool, Bool: b} }
func StringArg(s string) Arg        { return Arg{Kind: ArgString, Str: s} }
func ObjectArg(o Object) Arg        { return Arg{Kind: ArgObject, Object: o} }
func ValueArg(v resident.Value) Arg { return Arg{Kind: ArgValue, Value: v} }
func ResourceArg(r ResourceRef) Arg { return Arg{Kind: ArgResource, Resource: r} }
func FloatsArg(v []float32) Arg     { return Arg{Kind: ArgFloats, Floats: append([]float32(nil), v...)} }
func IntsArg(v []int32, t gl.Enum) Arg {
	return Arg{Kind: ArgInts, Ints: append([]int32(nil), v...), ElemType: t}
}

// String formats the argument for diagnostics.
func (a Arg) String() string {
	switch a.Kind {
	case ArgEnum:
		return a.Enum.String()
	case ArgInt:
		return fmt.Sprint(a.Int)
	case ArgFloat:
		return fmt.Sprint(a.Float)
	case ArgBool:
		return fmt.Sprint(a.Bool)
	case ArgString:
		return fmt.Sprintf("%q", a.Str)
	case ArgFloats:
		return fmt.Sprintf("float32[%d]", len(a.Floats))
	case ArgInts:
		return fmt.Sprintf("%s[%d]", a.ElemType, len(a.Ints))
	case ArgObject:
		return a.Object.String()
	case ArgValue:
		return a.Value.Name()
	case ArgResource:
		if a.Resource.URL != "" {
			return a.Resource.URL
		}
		return a.Resource.Handle
	}
	return "?"
}

// Command is one recorded operation.
type Command struct {
	Op   Opcode
	Args []Arg
	// Result is the handle produced by creation and location queries.
	Result Object
	// Requires lists externalized array buffers whose data the command
	// reads. Backends skip the command when any of them failed to load.
	Requires []ArrayBuffer
}

// String formats the command for diagnostics, e.g. "DrawArrays(TRIANGLES, 0, 3)".
func (c Command) String() string {
	s := c.Op.String() + "("
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	s += ")"
	if !c.Result.IsNull() {
		s = c.Result.String() + " = " + s
	}
	return s
}
