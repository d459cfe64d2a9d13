package softgl

import (
	"regexp"
	"strings"
)

// decl is an attribute or uniform declaration found in shader source.
type decl struct {
	name  string
	typ   string
	count int // array length, 1 for scalars
}

var (
	declRe    = regexp.MustCompile(`(?m)^\s*(attribute|uniform)\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+([^;]+);`)
	nameRe    = regexp.MustCompile(`^(\w+)\s*(?:\[\s*(\d+)\s*\])?$`)
	commentRe = regexp.MustCompile(`(?s)/\*.*?\*/|//[^\n]*`)
)

// scan returns the attribute and uniform declarations of a shader, in
// source order. Function bodies are not interpreted.
func scan(source string) (attribs, uniforms []decl) {
	source = commentRe.ReplaceAllString(source, "")
	for _, m := range declRe.FindAllStringSubmatch(source, -1) {
		for _, part := range strings.Split(m[3], ",") {
			n := nameRe.FindStringSubmatch(strings.TrimSpace(part))
			if n == nil {
				continue
			}
			d := decl{name: n[1], typ: m[2], count: 1}
			if n[2] != "" {
				d.count = atoi(n[2])
			}
			if m[1] == "attribute" {
				attribs = append(attribs, d)
			} else {
				uniforms = append(uniforms, d)
			}
		}
	}
	return attribs, uniforms
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}

// components returns the float count of a GLSL type.
func components(typ string) int {
	switch typ {
	case "float", "int", "bool", "sampler2D", "samplerCube":
		return 1
	case "vec2", "ivec2", "bvec2":
		return 2
	case "vec3", "ivec3", "bvec3":
		return 3
	case "vec4", "ivec4", "bvec4", "mat2":
		return 4
	case "mat3":
		return 9
	case "mat4":
		return 16
	}
	return 0
}

// hasAny reports whether name contains any of parts, ignoring case. Roles
// are assigned by name since function bodies are never run.
func hasAny(name string, parts ...string) bool {
	name = strings.ToLower(name)
	for _, p := range parts {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
