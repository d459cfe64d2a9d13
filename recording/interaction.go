package recording

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glsurface/resident"
)

// Mouse handler modes recorded as the first argument of OpSetMouseHandler.
const (
	HandlerCustom = "custom"
	HandlerLookAt = "lookAt"
	HandlerWalk   = "walk"
)

// SetClientSideMouseHandler installs a browser-side handler object built by
// script. The expression may refer to obj (the surface runtime) and ctx
// (the WebGL context) and should evaluate to an object with any of the
// methods mouseDown, mouseUp, mouseDrag, mouseWheel, touchStart, touchEnd
// and touchMoved. A handler replaces any handler installed before.
func (r *Recorder) SetClientSideMouseHandler(script string) {
	r.record(OpSetMouseHandler, StringArg(HandlerCustom), StringArg(script))
}

// SetClientSideLookAtHandler installs the built-in orbiting camera: drags
// rotate m around center (pitch about the camera x axis, yaw about up),
// the wheel and pinch gestures zoom. Each change repaints.
func (r *Recorder) SetClientSideLookAtHandler(m *resident.Matrix4, center, up mgl32.Vec3, pitchRate, yawRate float64) {
	r.record(OpSetMouseHandler, StringArg(HandlerLookAt), r.base(m),
		FloatsArg(center[:]), FloatsArg(up[:]), FloatArg(pitchRate), FloatArg(yawRate))
}

// SetClientSideWalkHandler installs the built-in walking camera: vertical
// drags move m forward by frontStep per pixel, horizontal drags turn by
// rotStep radians per pixel.
func (r *Recorder) SetClientSideWalkHandler(m *resident.Matrix4, frontStep, rotStep float64) {
	r.record(OpSetMouseHandler, StringArg(HandlerWalk), r.base(m), FloatArg(frontStep), FloatArg(rotStep))
}

// base validates a camera matrix: handlers write to it, so it cannot be an
// expression.
func (r *Recorder) base(m *resident.Matrix4) Arg {
	if m.IsExpression() {
		r.buffer()
		r.fail(resident.ErrExpression)
	}
	return r.value(m)
}

// InjectScript appends raw script to the phase. It only has an effect on the
// client backend.
func (r *Recorder) InjectScript(script string) {
	r.record(OpInjectScript, StringArg(script))
}

// Debugger inserts a script breakpoint on the client backend.
func (r *Recorder) Debugger() {
	r.record(OpDebugger)
}
