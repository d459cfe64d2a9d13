// Package nativegl provides an OpenGL implementation of device.Device for the
// server backend. It is compiled only with the nativegl build tag, because it
// needs cgo, the GLFW and OpenGL development headers and a display or an
// EGL-capable driver at run time:
//
//	go build -tags nativegl ./...
//
// Importing the package registers the device as "opengl":
//
//	import _ "github.com/gogpu/glsurface/internal/nativegl"
//
//	surface, err := glsurface.New(scene,
//	    glsurface.WithSize(640, 480),
//	    glsurface.WithDevice("opengl"))
//
// # Context
//
// Every device owns a hidden GLFW window with an OpenGL 3.3 core context and
// renders into an offscreen framebuffer of the surface size, multisampled
// when anti-aliasing is requested. The default framebuffer of the recorded
// program maps onto it. All GL calls run on one locked OS thread shared by
// every device of the process.
//
// On macOS GLFW must own the main thread, which a server process normally
// does not give away; use the software device there.
//
// # Shaders
//
// Recorded programs are WebGL 1 programs written in GLSL ES 1.00. Sources
// are rewritten to GLSL 3.30 before compilation, see Translate.
package nativegl
