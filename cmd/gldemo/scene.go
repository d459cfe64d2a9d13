package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/recording"
	"github.com/gogpu/glsurface/resident"
)

const vertexShader = `
attribute vec3 a_position;
attribute vec3 a_color;
uniform mat4 u_projection;
uniform mat4 u_camera;
uniform mat4 u_model;
varying vec3 v_color;
void main() {
	gl_Position = u_projection * u_camera * u_model * vec4(a_position, 1.0);
	v_color = a_color;
}
`

const fragmentShader = `
precision mediump float;
varying vec3 v_color;
void main() {
	gl_FragColor = vec4(v_color, 1.0);
}
`

// pyramid is a four-sided pyramid with one colour per face, as position
// and colour triples.
var pyramid = []float32{
	// front
	0, 1, 0, 1, 0, 0,
	-1, -1, 1, 1, 0, 0,
	1, -1, 1, 1, 0, 0,
	// right
	0, 1, 0, 0, 1, 0,
	1, -1, 1, 0, 1, 0,
	1, -1, -1, 0, 1, 0,
	// back
	0, 1, 0, 0, 0, 1,
	1, -1, -1, 0, 0, 1,
	-1, -1, -1, 0, 0, 1,
	// left
	0, 1, 0, 1, 1, 0,
	-1, -1, -1, 1, 1, 0,
	-1, -1, 1, 1, 1, 0,
}

// spinner draws a pyramid rotating around the y axis. The camera orbits
// with the mouse in the browser; the rotation angle is advanced by the
// server with Step.
type spinner struct {
	program    recording.Program
	buffer     recording.Buffer
	position   recording.AttribLocation
	color      recording.AttribLocation
	projection recording.UniformLocation
	cameraLoc  recording.UniformLocation
	modelLoc   recording.UniformLocation

	camera *resident.Matrix4
	model  *resident.Matrix4
	angle  float64
}

var _ glsurface.Scene = (*spinner)(nil)

func (s *spinner) InitializeGL(r *glsurface.Recorder) {
	vs := r.CreateShader(gl.VERTEX_SHADER)
	r.ShaderSource(vs, vertexShader)
	r.CompileShader(vs)
	fs := r.CreateShader(gl.FRAGMENT_SHADER)
	r.ShaderSource(fs, fragmentShader)
	r.CompileShader(fs)

	s.program = r.CreateProgram()
	r.AttachShader(s.program, vs)
	r.AttachShader(s.program, fs)
	r.LinkProgram(s.program)
	r.UseProgram(s.program)

	s.position = r.GetAttribLocation(s.program, "a_position")
	s.color = r.GetAttribLocation(s.program, "a_color")
	s.projection = r.GetUniformLocation(s.program, "u_projection")
	s.cameraLoc = r.GetUniformLocation(s.program, "u_camera")
	s.modelLoc = r.GetUniformLocation(s.program, "u_model")

	s.buffer = r.CreateBuffer()
	r.BindBuffer(gl.ARRAY_BUFFER, s.buffer)
	r.BufferDatafv(gl.ARRAY_BUFFER, pyramid, gl.STATIC_DRAW, false)

	if s.camera == nil {
		s.camera = r.CreateMatrix4()
		s.model = r.CreateMatrix4()
	}
	r.InitializeMatrix4(s.camera, mgl32.LookAtV(
		mgl32.Vec3{0, 1.5, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}))
	r.InitializeMatrix4(s.model, s.rotation())
	r.SetClientSideLookAtHandler(s.camera, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, 0.005, 0.005)

	r.Enable(gl.DEPTH_TEST)
	r.Enable(gl.CULL_FACE)
}

func (s *spinner) ResizeGL(r *glsurface.Recorder, width, height int) {
	r.Viewport(0, 0, width, height)
	r.UseProgram(s.program)
	aspect := float32(width) / float32(height)
	r.UniformMatrix4(s.projection, mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 100))
}

func (s *spinner) UpdateGL(r *glsurface.Recorder) {
	r.SetMatrix4(s.model, s.rotation())
}

func (s *spinner) PaintGL(r *glsurface.Recorder) {
	r.ClearColor(0.1, 0.1, 0.15, 1)
	r.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.UseProgram(s.program)
	r.UniformMatrix4Value(s.cameraLoc, s.camera)
	r.UniformMatrix4Value(s.modelLoc, s.model)

	r.BindBuffer(gl.ARRAY_BUFFER, s.buffer)
	r.VertexAttribPointer(s.position, 3, gl.FLOAT, false, 24, 0)
	r.EnableVertexAttribArray(s.position)
	r.VertexAttribPointer(s.color, 3, gl.FLOAT, false, 24, 12)
	r.EnableVertexAttribArray(s.color)
	r.DrawArrays(gl.TRIANGLES, 0, len(pyramid)/6)
}

// Step advances the rotation by delta radians.
func (s *spinner) Step(delta float64) {
	s.angle = math.Mod(s.angle+delta, 2*math.Pi)
}

func (s *spinner) rotation() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(float32(s.angle))
}
