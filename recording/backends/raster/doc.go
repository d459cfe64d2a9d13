// Package raster provides the server backend of the recording system: phase
// buffers execute on a native graphics device and every painted submission
// becomes a PNG frame the browser displays in place of a WebGL canvas.
//
// The backend serves surfaces whose browser cannot create a WebGL context,
// or hosts that prefer server rendering outright. It needs a registered
// [device.Device]; the pure-Go software device is always available, an
// OpenGL device is available in binaries built with the nativegl tag.
//
// # Execution
//
// Commands execute as they are replayed. Handles map to the device's native
// names, client-resident values are evaluated from their shadows and
// externalized payloads are read straight from the resource pool. External
// URLs are fetched with [recording.BackendConfig.Fetch]; a payload that
// cannot be obtained makes every command that needs it skip, the same way a
// failed preload skips statements in the browser.
//
// Commands the device cannot honor fail with [recording.ErrUnsupported].
// They are logged and skipped so the rest of the frame still renders.
//
// # Browser side
//
// Values and interaction handlers still live in the browser. Commands that
// only affect them are forwarded as script through [script.Writer]; injected
// script is dropped because it expects a WebGL context. The browser runtime
// swaps the canvas for an image, loads each new frame and asks the server
// for a repaint, carrying its current values, whenever a handler changes
// them.
//
// # Example
//
//	// Import to register the backend
//	import _ "github.com/gogpu/glsurface/recording/backends/raster"
//
//	// Create via registry
//	backend, err := recording.NewBackend("raster", cfg)
//
//	// Or create directly
//	backend, err := raster.NewBackend(cfg)
package raster
