// Package recording captures WebGL-style operations into phase buffers and
// hands them to a render backend.
//
// A scene is described by four callbacks. Each runs against a Recorder,
// whose methods mirror the WebGL 1.0 API and append typed commands to the
// buffer of the current phase. The same buffers are realized either as
// browser script (the "script" backend) or by a native device on the server
// (the "raster" backend).
//
// # Handles
//
// Creation calls return typed handles (Buffer, Program, Texture, ...)
// allocated from an ObjectTable. Handle ids are small integers, unique per
// kind, and never reused: a released handle fails validation forever. The
// zero value of every handle type is the null handle, accepted only by
// operations that accept null in WebGL, such as BindBuffer.
//
// # Phases
//
//   - Initialize runs at the first render and after context loss.
//   - Update runs on demand; its buffer replays once.
//   - Resize runs when the pixel size changes; its buffer replays once.
//   - Paint runs on demand; its buffer replays until the next rebuild.
//
// # Example
//
//	rec := recording.NewRecorder()
//	paint, err := rec.Run(recording.PhasePaint, func(r *recording.Recorder) {
//	    r.Clear(gl.COLOR_BUFFER_BIT)
//	    r.DrawArrays(gl.TRIANGLES, 0, 3)
//	})
//
// # Resources
//
// Large uploads and textures are externalized into a ResourcePool and
// referenced by handle. Draw calls remember which externalized array
// buffers they read; backends skip a draw whose data failed to load instead
// of aborting the frame.
package recording
