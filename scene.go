package glsurface

import (
	"strings"

	"github.com/gogpu/glsurface/recording"
)

// Recorder is the WebGL-shaped API handed to scene callbacks.
type Recorder = recording.Recorder

// Output is what a render produces for the host to deliver to the browser.
type Output = recording.Output

// Scene supplies the four phase callbacks of a surface. Handles created in
// InitializeGL stay valid for the other phases until the context is lost,
// after which InitializeGL runs again and must recreate them.
type Scene interface {
	// InitializeGL creates programs, buffers and textures. It runs at the
	// first render and after every context restoration.
	InitializeGL(r *Recorder)
	// ResizeGL runs whenever the pixel size changes, and after InitializeGL.
	ResizeGL(r *Recorder, width, height int)
	// UpdateGL runs once per RepaintGL(RepaintUpdate) request.
	UpdateGL(r *Recorder)
	// PaintGL draws a frame. The browser replays the recorded frame without
	// server contact until the next RepaintGL(RepaintPaint).
	PaintGL(r *Recorder)
}

// SceneFuncs adapts plain functions to Scene. Nil fields are no-ops.
type SceneFuncs struct {
	Initialize func(r *Recorder)
	Resize     func(r *Recorder, width, height int)
	Update     func(r *Recorder)
	Paint      func(r *Recorder)
}

var _ Scene = SceneFuncs{}

// InitializeGL implements Scene.
func (f SceneFuncs) InitializeGL(r *Recorder) {
	if f.Initialize != nil {
		f.Initialize(r)
	}
}

// ResizeGL implements Scene.
func (f SceneFuncs) ResizeGL(r *Recorder, width, height int) {
	if f.Resize != nil {
		f.Resize(r, width, height)
	}
}

// UpdateGL implements Scene.
func (f SceneFuncs) UpdateGL(r *Recorder) {
	if f.Update != nil {
		f.Update(r)
	}
}

// PaintGL implements Scene.
func (f SceneFuncs) PaintGL(r *Recorder) {
	if f.Paint != nil {
		f.Paint(r)
	}
}

// State is the lifecycle state of a Surface.
type State uint8

const (
	// StateUnrendered is the state before the first render.
	StateUnrendered State = iota
	// StateInitialized means a backend is selected but the next render
	// must run InitializeGL, as after a lost context.
	StateInitialized
	// StateReady means every phase has been delivered at least once.
	StateReady
	// StateAlternative is terminal: no backend can render and the browser
	// shows the alternative content.
	StateAlternative
	// StateClosed is terminal.
	StateClosed
)

var stateNames = [...]string{
	StateUnrendered:  "Unrendered",
	StateInitialized: "Initialized",
	StateReady:       "Ready",
	StateAlternative: "Alternative",
	StateClosed:      "Closed",
}

// String returns the state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// RepaintFlags selects the phases a repaint reruns.
type RepaintFlags uint8

const (
	RepaintUpdate RepaintFlags = 1 << iota
	RepaintResize
	RepaintPaint

	// RepaintAll reruns every phase except InitializeGL.
	RepaintAll = RepaintUpdate | RepaintResize | RepaintPaint
)

// Has reports whether every flag of g is set in f.
func (f RepaintFlags) Has(g RepaintFlags) bool { return f&g == g }

// String returns the set flags joined by "|", or "None".
func (f RepaintFlags) String() string {
	if f == 0 {
		return "None"
	}
	var parts []string
	for _, p := range []struct {
		flag RepaintFlags
		name string
	}{{RepaintUpdate, "Update"}, {RepaintResize, "Resize"}, {RepaintPaint, "Paint"}} {
		if f&p.flag != 0 {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "|")
}
