package nativegl

import (
	"regexp"
	"strings"

	"github.com/gogpu/glsurface/gl"
)

// FragColor is the output variable that replaces gl_FragColor.
const FragColor = "glsurface_FragColor"

var (
	versionLine  = regexp.MustCompile(`(?m)^[ \t]*#version[^\n]*\n?`)
	attributeKw  = regexp.MustCompile(`\battribute\b`)
	varyingKw    = regexp.MustCompile(`\bvarying\b`)
	texture2D    = regexp.MustCompile(`\btexture2D\b`)
	textureCube  = regexp.MustCompile(`\btextureCube\b`)
	fragColor    = regexp.MustCompile(`\bgl_FragColor\b`)
	fragData0    = regexp.MustCompile(`\bgl_FragData\s*\[\s*0\s*\]`)
	extensionTag = regexp.MustCompile(`(?m)^[ \t]*#extension[^\n]*\n?`)
)

// Translate rewrites a GLSL ES 1.00 shader of the given type to GLSL 3.30
// core. Storage qualifiers and texture lookups are renamed and the fragment
// output is declared explicitly. Precision qualifiers are legal in 3.30 and
// stay. Extension directives are dropped since core 3.30 has the features
// WebGL 1 exposes through them.
func Translate(typ gl.Enum, src string) string {
	src = versionLine.ReplaceAllString(src, "")
	src = extensionTag.ReplaceAllString(src, "")
	src = texture2D.ReplaceAllString(src, "texture")
	src = textureCube.ReplaceAllString(src, "texture")

	var b strings.Builder
	b.WriteString("#version 330 core\n")
	if typ == gl.FRAGMENT_SHADER {
		src = varyingKw.ReplaceAllString(src, "in")
		src = fragData0.ReplaceAllString(src, FragColor)
		src = fragColor.ReplaceAllString(src, FragColor)
		b.WriteString("out vec4 " + FragColor + ";\n")
	} else {
		src = attributeKw.ReplaceAllString(src, "in")
		src = varyingKw.ReplaceAllString(src, "out")
	}
	b.WriteString(src)
	return b.String()
}
