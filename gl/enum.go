// Package gl defines the WebGL 1.0 enumeration values used by recorded
// commands.
//
// Values match the WebGL and OpenGL ES 2.0 headers, so the same Enum can be
// written into client script as ctx.<NAME> and passed unchanged to a desktop
// OpenGL context.
package gl

import "strconv"

// Enum is a GLenum or GLbitfield value.
type Enum uint32

// Buffer bits for Clear.
const (
	DEPTH_BUFFER_BIT   Enum = 0x00000100
	STENCIL_BUFFER_BIT Enum = 0x00000400
	COLOR_BUFFER_BIT   Enum = 0x00004000
)

// Primitive modes.
const (
	POINTS         Enum = 0x0000
	LINES          Enum = 0x0001
	LINE_LOOP      Enum = 0x0002
	LINE_STRIP     Enum = 0x0003
	TRIANGLES      Enum = 0x0004
	TRIANGLE_STRIP Enum = 0x0005
	TRIANGLE_FAN   Enum = 0x0006
)

// Blending.
const (
	ZERO                     Enum = 0
	ONE                      Enum = 1
	SRC_COLOR                Enum = 0x0300
	ONE_MINUS_SRC_COLOR      Enum = 0x0301
	SRC_ALPHA                Enum = 0x0302
	ONE_MINUS_SRC_ALPHA      Enum = 0x0303
	DST_ALPHA                Enum = 0x0304
	ONE_MINUS_DST_ALPHA      Enum = 0x0305
	DST_COLOR                Enum = 0x0306
	ONE_MINUS_DST_COLOR      Enum = 0x0307
	SRC_ALPHA_SATURATE       Enum = 0x0308
	CONSTANT_COLOR           Enum = 0x8001
	ONE_MINUS_CONSTANT_COLOR Enum = 0x8002
	CONSTANT_ALPHA           Enum = 0x8003
	ONE_MINUS_CONSTANT_ALPHA Enum = 0x8004
	FUNC_ADD                 Enum = 0x8006
	FUNC_SUBTRACT            Enum = 0x800A
	FUNC_REVERSE_SUBTRACT    Enum = 0x800B
)

// Buffer objects.
const (
	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STREAM_DRAW          Enum = 0x88E0
	STATIC_DRAW          Enum = 0x88E4
	DYNAMIC_DRAW         Enum = 0x88E8
)

// Culling, capabilities and winding.
const (
	FRONT                    Enum = 0x0404
	BACK                     Enum = 0x0405
	FRONT_AND_BACK           Enum = 0x0408
	CULL_FACE                Enum = 0x0B44
	BLEND                    Enum = 0x0BE2
	DITHER                   Enum = 0x0BD0
	STENCIL_TEST             Enum = 0x0B90
	DEPTH_TEST               Enum = 0x0B71
	SCISSOR_TEST             Enum = 0x0C11
	POLYGON_OFFSET_FILL      Enum = 0x8037
	SAMPLE_ALPHA_TO_COVERAGE Enum = 0x809E
	SAMPLE_COVERAGE          Enum = 0x80A0
	CW                       Enum = 0x0900
	CCW                      Enum = 0x0901
)

// Errors.
const (
	NO_ERROR          Enum = 0
	INVALID_ENUM      Enum = 0x0500
	INVALID_VALUE     Enum = 0x0501
	INVALID_OPERATION Enum = 0x0502
	OUT_OF_MEMORY     Enum = 0x0505
)

// Hints.
const (
	DONT_CARE            Enum = 0x1100
	FASTEST              Enum = 0x1101
	NICEST               Enum = 0x1102
	GENERATE_MIPMAP_HINT Enum = 0x8192
)

// Data types.
const (
	BYTE           Enum = 0x1400
	UNSIGNED_BYTE  Enum = 0x1401
	SHORT          Enum = 0x1402
	UNSIGNED_SHORT Enum = 0x1403
	INT            Enum = 0x1404
	UNSIGNED_INT   Enum = 0x1405
	FLOAT          Enum = 0x1406
)

// Pixel formats and types.
const (
	DEPTH_COMPONENT        Enum = 0x1902
	ALPHA                  Enum = 0x1906
	RGB                    Enum = 0x1907
	RGBA                   Enum = 0x1908
	LUMINANCE              Enum = 0x1909
	LUMINANCE_ALPHA        Enum = 0x190A
	UNSIGNED_SHORT_4_4_4_4 Enum = 0x8033
	UNSIGNED_SHORT_5_5_5_1 Enum = 0x8034
	UNSIGNED_SHORT_5_6_5   Enum = 0x8363
)

// Shaders.
const (
	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
	COMPILE_STATUS  Enum = 0x8B81
	LINK_STATUS     Enum = 0x8B82
	VALIDATE_STATUS Enum = 0x8B83
)

// Depth and stencil functions.
const (
	NEVER     Enum = 0x0200
	LESS      Enum = 0x0201
	EQUAL     Enum = 0x0202
	LEQUAL    Enum = 0x0203
	GREATER   Enum = 0x0204
	NOTEQUAL  Enum = 0x0205
	GEQUAL    Enum = 0x0206
	ALWAYS    Enum = 0x0207
	KEEP      Enum = 0x1E00
	REPLACE   Enum = 0x1E01
	INCR      Enum = 0x1E02
	DECR      Enum = 0x1E03
	INVERT    Enum = 0x150A
	INCR_WRAP Enum = 0x8507
	DECR_WRAP Enum = 0x8508
)

// Textures.
const (
	NEAREST                Enum = 0x2600
	LINEAR                 Enum = 0x2601
	NEAREST_MIPMAP_NEAREST Enum = 0x2700
	LINEAR_MIPMAP_NEAREST  Enum = 0x2701
	NEAREST_MIPMAP_LINEAR  Enum = 0x2702
	LINEAR_MIPMAP_LINEAR   Enum = 0x2703
	TEXTURE_MAG_FILTER     Enum = 0x2800
	TEXTURE_MIN_FILTER     Enum = 0x2801
	TEXTURE_WRAP_S         Enum = 0x2802
	TEXTURE_WRAP_T         Enum = 0x2803
	TEXTURE_2D             Enum = 0x0DE1
	TEXTURE                Enum = 0x1702
	TEXTURE_CUBE_MAP       Enum = 0x8513
	TEXTURE0               Enum = 0x84C0
	ACTIVE_TEXTURE         Enum = 0x84E0
	REPEAT                 Enum = 0x2901
	CLAMP_TO_EDGE          Enum = 0x812F
	MIRRORED_REPEAT        Enum = 0x8370
)

// Framebuffers and renderbuffers.
const (
	FRAMEBUFFER              Enum = 0x8D40
	RENDERBUFFER             Enum = 0x8D41
	RGBA4                    Enum = 0x8056
	RGB5_A1                  Enum = 0x8057
	RGB565                   Enum = 0x8D62
	DEPTH_COMPONENT16        Enum = 0x81A5
	STENCIL_INDEX8           Enum = 0x8D48
	DEPTH_STENCIL            Enum = 0x84F9
	COLOR_ATTACHMENT0        Enum = 0x8CE0
	DEPTH_ATTACHMENT         Enum = 0x8D00
	STENCIL_ATTACHMENT       Enum = 0x8D20
	DEPTH_STENCIL_ATTACHMENT Enum = 0x821A
	FRAMEBUFFER_COMPLETE     Enum = 0x8CD5
)

// Pixel storage.
const (
	UNPACK_ALIGNMENT               Enum = 0x0CF5
	PACK_ALIGNMENT                 Enum = 0x0D05
	UNPACK_FLIP_Y_WEBGL            Enum = 0x9240
	UNPACK_PREMULTIPLY_ALPHA_WEBGL Enum = 0x9241
)

// TextureUnit returns TEXTURE0+i.
func TextureUnit(i int) Enum {
	return TEXTURE0 + Enum(i)
}

// names lists canonical names. For values shared by several constants the
// first entry wins; WebGL compares values, so any alias works on the client.
var names = []struct {
	e    Enum
	name string
}{
	{DEPTH_BUFFER_BIT, "DEPTH_BUFFER_BIT"},
	{STENCIL_BUFFER_BIT, "STENCIL_BUFFER_BIT"},
	{COLOR_BUFFER_BIT, "COLOR_BUFFER_BIT"},
	{POINTS, "POINTS"},
	{LINES, "LINES"},
	{LINE_LOOP, "LINE_LOOP"},
	{LINE_STRIP, "LINE_STRIP"},
	{TRIANGLES, "TRIANGLES"},
	{TRIANGLE_STRIP, "TRIANGLE_STRIP"},
	{TRIANGLE_FAN, "TRIANGLE_FAN"},
	{SRC_COLOR, "SRC_COLOR"},
	{ONE_MINUS_SRC_COLOR, "ONE_MINUS_SRC_COLOR"},
	{SRC_ALPHA, "SRC_ALPHA"},
	{ONE_MINUS_SRC_ALPHA, "ONE_MINUS_SRC_ALPHA"},
	{DST_ALPHA, "DST_ALPHA"},
	{ONE_MINUS_DST_ALPHA, "ONE_MINUS_DST_ALPHA"},
	{DST_COLOR, "DST_COLOR"},
	{ONE_MINUS_DST_COLOR, "ONE_MINUS_DST_COLOR"},
	{SRC_ALPHA_SATURATE, "SRC_ALPHA_SATURATE"},
	{CONSTANT_COLOR, "CONSTANT_COLOR"},
	{ONE_MINUS_CONSTANT_COLOR, "ONE_MINUS_CONSTANT_COLOR"},
	{CONSTANT_ALPHA, "CONSTANT_ALPHA"},
	{ONE_MINUS_CONSTANT_ALPHA, "ONE_MINUS_CONSTANT_ALPHA"},
	{FUNC_ADD, "FUNC_ADD"},
	{FUNC_SUBTRACT, "FUNC_SUBTRACT"},
	{FUNC_REVERSE_SUBTRACT, "FUNC_REVERSE_SUBTRACT"},
	{ARRAY_BUFFER, "ARRAY_BUFFER"},
	{ELEMENT_ARRAY_BUFFER, "ELEMENT_ARRAY_BUFFER"},
	{STREAM_DRAW, "STREAM_DRAW"},
	{STATIC_DRAW, "STATIC_DRAW"},
	{DYNAMIC_DRAW, "DYNAMIC_DRAW"},
	{FRONT, "FRONT"},
	{BACK, "BACK"},
	{FRONT_AND_BACK, "FRONT_AND_BACK"},
	{CULL_FACE, "CULL_FACE"},
	{BLEND, "BLEND"},
	{DITHER, "DITHER"},
	{STENCIL_TEST, "STENCIL_TEST"},
	{DEPTH_TEST, "DEPTH_TEST"},
	{SCISSOR_TEST, "SCISSOR_TEST"},
	{POLYGON_OFFSET_FILL, "POLYGON_OFFSET_FILL"},
	{SAMPLE_ALPHA_TO_COVERAGE, "SAMPLE_ALPHA_TO_COVERAGE"},
	{SAMPLE_COVERAGE, "SAMPLE_COVERAGE"},
	{CW, "CW"},
	{CCW, "CCW"},
	{INVALID_ENUM, "INVALID_ENUM"},
	{INVALID_VALUE, "INVALID_VALUE"},
	{INVALID_OPERATION, "INVALID_OPERATION"},
	{OUT_OF_MEMORY, "OUT_OF_MEMORY"},
	{DONT_CARE, "DONT_CARE"},
	{FASTEST, "FASTEST"},
	{NICEST, "NICEST"},
	{GENERATE_MIPMAP_HINT, "GENERATE_MIPMAP_HINT"},
	{BYTE, "BYTE"},
	{UNSIGNED_BYTE, "UNSIGNED_BYTE"},
	{SHORT, "SHORT"},
	{UNSIGNED_SHORT, "UNSIGNED_SHORT"},
	{INT, "INT"},
	{UNSIGNED_INT, "UNSIGNED_INT"},
	{FLOAT, "FLOAT"},
	{DEPTH_COMPONENT, "DEPTH_COMPONENT"},
	{ALPHA, "ALPHA"},
	{RGB, "RGB"},
	{RGBA, "RGBA"},
	{LUMINANCE, "LUMINANCE"},
	{LUMINANCE_ALPHA, "LUMINANCE_ALPHA"},
	{UNSIGNED_SHORT_4_4_4_4, "UNSIGNED_SHORT_4_4_4_4"},
	{UNSIGNED_SHORT_5_5_5_1, "UNSIGNED_SHORT_5_5_5_1"},
	{UNSIGNED_SHORT_5_6_5, "UNSIGNED_SHORT_5_6_5"},
	{FRAGMENT_SHADER, "FRAGMENT_SHADER"},
	{VERTEX_SHADER, "VERTEX_SHADER"},
	{COMPILE_STATUS, "COMPILE_STATUS"},
	{LINK_STATUS, "LINK_STATUS"},
	{VALIDATE_STATUS, "VALIDATE_STATUS"},
	{NEVER, "NEVER"},
	{LESS, "LESS"},
	{EQUAL, "EQUAL"},
	{LEQUAL, "LEQUAL"},
	{GREATER, "GREATER"},
	{NOTEQUAL, "NOTEQUAL"},
	{GEQUAL, "GEQUAL"},
	{ALWAYS, "ALWAYS"},
	{KEEP, "KEEP"},
	{REPLACE, "REPLACE"},
	{INCR, "INCR"},
	{DECR, "DECR"},
	{INVERT, "INVERT"},
	{INCR_WRAP, "INCR_WRAP"},
	{DECR_WRAP, "DECR_WRAP"},
	{NEAREST, "NEAREST"},
	{LINEAR, "LINEAR"},
	{NEAREST_MIPMAP_NEAREST, "NEAREST_MIPMAP_NEAREST"},
	{LINEAR_MIPMAP_NEAREST, "LINEAR_MIPMAP_NEAREST"},
	{NEAREST_MIPMAP_LINEAR, "NEAREST_MIPMAP_LINEAR"},
	{LINEAR_MIPMAP_LINEAR, "LINEAR_MIPMAP_LINEAR"},
	{TEXTURE_MAG_FILTER, "TEXTURE_MAG_FILTER"},
	{TEXTURE_MIN_FILTER, "TEXTURE_MIN_FILTER"},
	{TEXTURE_WRAP_S, "TEXTURE_WRAP_S"},
	{TEXTURE_WRAP_T, "TEXTURE_WRAP_T"},
	{TEXTURE_2D, "TEXTURE_2D"},
	{TEXTURE, "TEXTURE"},
	{TEXTURE_CUBE_MAP, "TEXTURE_CUBE_MAP"},
	{ACTIVE_TEXTURE, "ACTIVE_TEXTURE"},
	{REPEAT, "REPEAT"},
	{CLAMP_TO_EDGE, "CLAMP_TO_EDGE"},
	{MIRRORED_REPEAT, "MIRRORED_REPEAT"},
	{FRAMEBUFFER, "FRAMEBUFFER"},
	{RENDERBUFFER, "RENDERBUFFER"},
	{RGBA4, "RGBA4"},
	{RGB5_A1, "RGB5_A1"},
	{RGB565, "RGB565"},
	{DEPTH_COMPONENT16, "DEPTH_COMPONENT16"},
	{STENCIL_INDEX8, "STENCIL_INDEX8"},
	{DEPTH_STENCIL, "DEPTH_STENCIL"},
	{COLOR_ATTACHMENT0, "COLOR_ATTACHMENT0"},
	{DEPTH_ATTACHMENT, "DEPTH_ATTACHMENT"},
	{STENCIL_ATTACHMENT, "STENCIL_ATTACHMENT"},
	{DEPTH_STENCIL_ATTACHMENT, "DEPTH_STENCIL_ATTACHMENT"},
	{FRAMEBUFFER_COMPLETE, "FRAMEBUFFER_COMPLETE"},
	{UNPACK_ALIGNMENT, "UNPACK_ALIGNMENT"},
	{PACK_ALIGNMENT, "PACK_ALIGNMENT"},
	{UNPACK_FLIP_Y_WEBGL, "UNPACK_FLIP_Y_WEBGL"},
	{UNPACK_PREMULTIPLY_ALPHA_WEBGL, "UNPACK_PREMULTIPLY_ALPHA_WEBGL"},
}

var nameOf = func() map[Enum]string {
	m := make(map[Enum]string, len(names)+32)
	for _, n := range names {
		if _, dup := m[n.e]; !dup {
			m[n.e] = n.name
		}
	}
	for i := 0; i < 32; i++ {
		m[TextureUnit(i)] = "TEXTURE" + strconv.Itoa(i)
	}
	return m
}()

// Name returns the WebGL constant name of e, and false when e has no name.
func (e Enum) Name() (string, bool) {
	n, ok := nameOf[e]
	return n, ok
}

// String returns the constant name, or the hexadecimal value for unnamed
// enums.
func (e Enum) String() string {
	if n, ok := nameOf[e]; ok {
		return n
	}
	return "0x" + strconv.FormatUint(uint64(e), 16)
}

// Bits splits a Clear mask into its named buffer bits, in ascending order.
// Bits without a name are returned as a single trailing remainder.
func (e Enum) Bits() []Enum {
	var out []Enum
	rest := e
	for _, b := range []Enum{DEPTH_BUFFER_BIT, STENCIL_BUFFER_BIT, COLOR_BUFFER_BIT} {
		if e&b != 0 {
			out = append(out, b)
			rest &^= b
		}
	}
	if rest != 0 {
		out = append(out, rest)
	}
	return out
}
