// Package glsurface renders WebGL scenes written in Go, either in the
// browser or on the server.
//
// # Overview
//
// A scene is written once against a WebGL-shaped recording API. Its four
// callbacks (InitializeGL, ResizeGL, UpdateGL, PaintGL) do not draw; they
// record phase buffers. A backend then realizes the buffers: the client
// backend turns them into JavaScript executed against the browser's WebGL
// context, the server backend executes them on a native device and ships
// PNG frames. Which backend serves a surface is decided at the first render
// and corrected by the browser's capability handshake.
//
// # Quick Start
//
//	import "github.com/gogpu/glsurface"
//
//	var buf recording.Buffer
//	scene := glsurface.SceneFuncs{
//	    Initialize: func(r *glsurface.Recorder) {
//	        buf = r.CreateBuffer()
//	        r.BindBuffer(gl.ARRAY_BUFFER, buf)
//	        r.BufferDatafv(gl.ARRAY_BUFFER, vertices, gl.STATIC_DRAW, false)
//	    },
//	    Paint: func(r *glsurface.Recorder) {
//	        r.Clear(gl.COLOR_BUFFER_BIT)
//	        r.DrawArrays(gl.TRIANGLES, 0, 3)
//	    },
//	}
//
//	s, err := glsurface.New(scene, glsurface.WithSize(640, 480))
//	out, err := s.Render() // deliver out.Script to the browser
//
// The web package hosts surfaces over HTTP and a websocket and is the
// usual way to run them.
//
// # Phases
//
// InitializeGL runs at the first render and again after the browser
// restored a lost context. ResizeGL runs whenever the laid out size changes.
// UpdateGL and PaintGL run when requested with RepaintGL. A recorded Paint
// buffer is replayed by the browser on every client-side repaint, such as
// camera moves by a mouse handler, without server contact.
//
// # Client-resident values
//
// Matrices and vectors created with Recorder.CreateMatrix4 and
// CreateVector live in the browser, where interaction handlers change them.
// The server keeps a shadow copy, updated by SyncValues, and evaluates
// matrix expressions against it when it renders.
//
// # Backends
//
// RenderOptions select the allowed backends:
//   - client ("script"): JavaScript for the browser's WebGL context
//   - server ("raster"): native device rendering, PNG frames
//
// When the browser reports that it has no WebGL, the surface switches to
// the server backend if allowed and shows its alternative content
// otherwise. The server device defaults to the pure-Go software rasterizer;
// build with the nativegl tag and use WithDevice("opengl") for OpenGL.
//
// # Logging
//
// glsurface is silent by default. SetLogger enables structured logging
// through log/slog for the package and all its sub-packages.
package glsurface

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
