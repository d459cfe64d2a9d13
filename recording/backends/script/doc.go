// Package script implements the client backend: phase buffers become
// JavaScript executed by the glsurface browser runtime, which renders with
// the browser's own WebGL context.
//
// Importing the package registers the backend as "script":
//
//	import _ "github.com/gogpu/glsurface/recording/backends/script"
//
// # Generated script
//
// A submission installs one function per phase on the surface runtime
// (initializeGL, resizeGL, paintGL; updates are queued) and then asks the
// runtime to preload externalized resources and run what is pending. GL
// objects are referenced as ctx.<Kind><id>, array buffers and images as
// slots of obj.res, client-resident values as obj.values.<Name>.
//
// Commands that read externalized data are guarded by obj.loaded, so a
// resource that failed to load skips the draw instead of failing it.
//
// The Writer is exported for the server backend, which forwards
// client-only commands (values, mouse handlers) through it.
package script
