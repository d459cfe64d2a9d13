package recording

import (
	"slices"

	"github.com/gogpu/glsurface/gl"
)

// bindings mirrors the buffer bindings of the GL context at record time, so
// that draw calls can name the externalized payloads they read.
type bindings struct {
	array   Object
	element Object
	// attrib maps a vertex attribute location to the array buffer bound
	// when its pointer was set.
	attrib  map[Object]Object
	enabled map[Object]bool
	// source maps a buffer to the array buffer that supplied its data.
	source map[Object]ArrayBuffer
}

func (b *bindings) reset() {
	b.array, b.element = Object{}, Object{}
	b.attrib = make(map[Object]Object)
	b.enabled = make(map[Object]bool)
	b.source = make(map[Object]ArrayBuffer)
}

func (b *bindings) bound(target gl.Enum) Object {
	if target == gl.ELEMENT_ARRAY_BUFFER {
		return b.element
	}
	return b.array
}

func (b *bindings) bindBuffer(target gl.Enum, o Object) {
	switch target {
	case gl.ARRAY_BUFFER:
		b.array = o
	case gl.ELEMENT_ARRAY_BUFFER:
		b.element = o
	}
}

// setSource records where the buffer bound to target gets its data from. A
// null source marks inline data.
func (b *bindings) setSource(target gl.Enum, ab ArrayBuffer) {
	buf := b.bound(target)
	if buf.IsNull() {
		return
	}
	if ab.IsNull() {
		delete(b.source, buf)
		return
	}
	b.source[buf] = ab
}

func (b *bindings) forget(o Object) {
	if b.array == o {
		b.array = Object{}
	}
	if b.element == o {
		b.element = Object{}
	}
	delete(b.source, o)
	delete(b.attrib, o)
	delete(b.enabled, o)
	for loc, buf := range b.attrib {
		if buf == o {
			delete(b.attrib, loc)
		}
	}
	for buf, ab := range b.source {
		if ab.Object == o {
			delete(b.source, buf)
		}
	}
}

// requires returns the array buffers read by a draw call, in a stable order.
func (b *bindings) requires(elements bool) []ArrayBuffer {
	var out []ArrayBuffer
	add := func(buf Object) {
		if ab, ok := b.source[buf]; ok && !slices.Contains(out, ab) {
			out = append(out, ab)
		}
	}
	locs := make([]Object, 0, len(b.enabled))
	for loc, on := range b.enabled {
		if on {
			locs = append(locs, loc)
		}
	}
	slices.SortFunc(locs, func(a, c Object) int { return int(a.id) - int(c.id) })
	for _, loc := range locs {
		add(b.attrib[loc])
	}
	if elements {
		add(b.element)
	}
	return out
}
