package glsurface

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glsurface/internal/event"
	"github.com/gogpu/glsurface/recording"
	"github.com/gogpu/glsurface/recording/backends/script"
	"github.com/gogpu/glsurface/resident"
)

// Surface drives one scene: it records phase buffers, chooses the backend
// that realizes them and reacts to events from the browser. The host calls
// Render after every event and delivers the returned Output.
//
// A Surface has a single owner and is not safe for concurrent use.
type Surface struct {
	opts  options
	scene Scene
	rec   *recording.Recorder

	state     State
	backend   recording.Backend
	onServer  bool
	handshake *event.OneShot[bool]

	width, height int
	visible       bool
	pending       RepaintFlags
	full          bool
	lost          bool
	released      []recording.Object
	paint         *recording.PhaseBuffer
	queued        []func(r *Recorder)
	altShown      bool
}

// reporter is implemented by backends that take part in the browser
// capability handshake.
type reporter interface {
	Report(ok bool)
}

// errorChecker is implemented by backends that can check client calls for
// WebGL errors.
type errorChecker interface {
	EnableErrorChecks(on bool)
}

// New creates a surface for scene. WithSize is required.
func New(scene Scene, opts ...Option) (*Surface, error) {
	if scene == nil {
		return nil, fmt.Errorf("%w: nil scene", ErrConfiguration)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch {
	case o.width <= 0 || o.height <= 0:
		return nil, fmt.Errorf("%w: size %dx%d", ErrConfiguration, o.width, o.height)
	case !o.render.AllowClient && !o.render.AllowServer:
		return nil, fmt.Errorf("%w: render options allow no backend", ErrConfiguration)
	case o.id == "":
		return nil, fmt.Errorf("%w: empty surface id", ErrConfiguration)
	}
	return &Surface{
		opts:      o,
		scene:     scene,
		rec:       recording.NewRecorder(recording.WithInlineLimit(o.inlineLimit)),
		handshake: event.NewOneShot[bool](),
		width:     o.width,
		height:    o.height,
		visible:   true,
	}, nil
}

// ID returns the element id of the surface.
func (s *Surface) ID() string { return s.opts.id }

// Size returns the current pixel size.
func (s *Surface) Size() (width, height int) { return s.width, s.height }

// State returns the lifecycle state.
func (s *Surface) State() State { return s.state }

// RenderOptions returns the options fixed at construction.
func (s *Surface) RenderOptions() RenderOptions { return s.opts.render }

// Visible reports whether the surface is shown.
func (s *Surface) Visible() bool { return s.visible }

// Pending returns the phases the next render reruns.
func (s *Surface) Pending() RepaintFlags { return s.pending }

// Handshake returns a channel closed once the browser has reported its
// WebGL capability, or the surface reached a terminal state. Surfaces that
// render on the server from the start may never receive a report.
func (s *Surface) Handshake() <-chan struct{} { return s.handshake.Done() }

// Backend returns the selected backend.
func (s *Surface) Backend() (recording.Backend, error) {
	switch {
	case s.state == StateClosed:
		return nil, ErrClosed
	case s.state == StateAlternative:
		return nil, ErrBackendUnavailable
	case s.backend == nil:
		return nil, ErrCapabilityPending
	}
	return s.backend, nil
}

// RepaintGL marks phases to rerun at the next render.
func (s *Surface) RepaintGL(flags RepaintFlags) {
	s.pending |= flags & RepaintAll
}

// Render runs the pending phases in order Update, Resize, Paint and submits
// them to the backend. The first render selects the backend and runs
// Initialize, Resize and Paint instead.
//
// Hidden surfaces and surfaces waiting for a lost context keep their work
// pending and return an empty output. Once no backend can render, the
// first call returns the script that shows the alternative content and
// later calls return empty outputs.
func (s *Surface) Render() (*Output, error) {
	switch s.state {
	case StateClosed:
		return nil, ErrClosed
	case StateAlternative:
		return s.alternative(), nil
	}
	if !s.visible {
		return &Output{}, nil
	}
	if s.state == StateUnrendered {
		if err := s.selectBackend(); err != nil {
			return nil, err
		}
		if s.state == StateAlternative {
			return s.alternative(), nil
		}
	}
	if s.lost {
		return &Output{}, nil
	}
	if s.full {
		return s.renderFull()
	}
	return s.renderRepaint()
}

// renderFull records every phase for a fresh backend or a restored context.
func (s *Surface) renderFull() (*Output, error) {
	sub := &recording.Submission{Full: true, Released: s.released}
	var err error
	if sub.Initialize, err = s.rec.Run(recording.PhaseInitialize, s.scene.InitializeGL); err != nil {
		return nil, fmt.Errorf("glsurface: %w", err)
	}
	if len(s.queued) > 0 {
		if sub.Update, err = s.rec.Run(recording.PhaseUpdate, s.flush); err != nil {
			return nil, fmt.Errorf("glsurface: %w", err)
		}
	}
	if sub.Resize, err = s.rec.Run(recording.PhaseResize, s.resize); err != nil {
		return nil, fmt.Errorf("glsurface: %w", err)
	}
	if sub.Paint, err = s.rec.Run(recording.PhasePaint, s.scene.PaintGL); err != nil {
		return nil, fmt.Errorf("glsurface: %w", err)
	}
	out, err := s.submit(sub)
	if err != nil {
		return nil, err
	}
	s.full = false
	s.released = nil
	s.pending = 0
	s.paint = sub.Paint
	s.state = StateReady
	return out, nil
}

// renderRepaint records the phases marked by RepaintGL. On the server a
// frame is rasterized for every submission, so the last Paint buffer is
// replayed when Paint itself was not rebuilt.
func (s *Surface) renderRepaint() (*Output, error) {
	flags := s.pending
	if flags == 0 && len(s.queued) == 0 {
		return &Output{}, nil
	}
	sub := &recording.Submission{}
	var err error
	if flags.Has(RepaintUpdate) || len(s.queued) > 0 {
		sub.Update, err = s.rec.Run(recording.PhaseUpdate, func(r *Recorder) {
			s.flush(r)
			if flags.Has(RepaintUpdate) {
				s.scene.UpdateGL(r)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("glsurface: %w", err)
		}
	}
	if flags.Has(RepaintResize) {
		if sub.Resize, err = s.rec.Run(recording.PhaseResize, s.resize); err != nil {
			return nil, fmt.Errorf("glsurface: %w", err)
		}
	}
	if flags.Has(RepaintPaint) {
		if sub.Paint, err = s.rec.Run(recording.PhasePaint, s.scene.PaintGL); err != nil {
			return nil, fmt.Errorf("glsurface: %w", err)
		}
	} else if s.onServer {
		sub.Paint = s.paint
	}
	out, err := s.submit(sub)
	if err != nil {
		return nil, err
	}
	s.pending = 0
	if flags.Has(RepaintPaint) {
		s.paint = sub.Paint
	}
	return out, nil
}

func (s *Surface) resize(r *Recorder) {
	s.scene.ResizeGL(r, s.width, s.height)
}

// flush records the values assigned outside phase callbacks.
func (s *Surface) flush(r *Recorder) {
	queued := s.queued
	s.queued = nil
	for _, assign := range queued {
		assign(r)
	}
}

func (s *Surface) submit(sub *recording.Submission) (*Output, error) {
	sub.Width, sub.Height = s.width, s.height
	sub.Objects = s.rec.Objects()
	sub.Values = s.rec.Values()
	sub.Resources = s.rec.Resources()
	out, err := s.backend.Submit(sub)
	if err != nil {
		return nil, fmt.Errorf("glsurface: %s: %w", s.backend.Name(), err)
	}
	s.rec.Values().Delivered()
	return out, nil
}

// selectBackend picks the first backend from the render options and the
// capability known so far.
func (s *Surface) selectBackend() error {
	client := s.opts.render.AllowClient && s.opts.clientCapable
	if ok, reported := s.handshake.Value(); reported {
		client = s.opts.render.AllowClient && ok
	}
	if client {
		return s.use(s.opts.clientBackend, false)
	}
	if s.opts.render.AllowServer {
		err := s.use(s.opts.serverBackend, true)
		if err == nil {
			return nil
		}
		s.log().Warn("glsurface: server backend unavailable", "surface", s.opts.id, "error", err)
	}
	s.fallBack()
	return nil
}

// use replaces the backend by a new instance of name and schedules a full
// submission. The current backend is kept when name cannot be created.
func (s *Surface) use(name string, server bool) error {
	b, err := recording.NewBackend(name, recording.BackendConfig{
		SurfaceID:   s.opts.id,
		Width:       s.width,
		Height:      s.height,
		AntiAlias:   s.opts.render.AntiAlias,
		ErrorChecks: s.opts.errorChecks,
		Device:      s.opts.device,
		ResourceURL: s.opts.url,
		Fetch:       s.opts.fetch,
	})
	if err != nil {
		return err
	}
	if b.Capability() == recording.CapabilityUnavailable {
		_ = b.Release()
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, name)
	}
	if s.backend != nil {
		s.release()
		s.rec.Reset()
	}
	if ok, reported := s.handshake.Value(); reported && !server {
		if r, isReporter := b.(reporter); isReporter {
			r.Report(ok)
		}
	}
	s.backend, s.onServer = b, server
	s.state = StateInitialized
	s.full = true
	s.lost = false
	s.released = nil
	s.paint = nil
	s.log().Info("glsurface: backend selected", "surface", s.opts.id, "backend", name)
	return nil
}

// fallBack switches to the alternative content for good.
func (s *Surface) fallBack() {
	s.release()
	s.state = StateAlternative
	s.handshake.Fire(false)
	s.log().Warn("glsurface: no backend available, showing alternative content", "surface", s.opts.id)
}

func (s *Surface) release() {
	if s.backend == nil {
		return
	}
	if err := s.backend.Release(); err != nil {
		s.log().Warn("glsurface: backend release failed", "backend", s.backend.Name(), "error", err)
	}
	s.backend = nil
}

func (s *Surface) alternative() *Output {
	if s.altShown {
		return &Output{}
	}
	s.altShown = true
	return &Output{Script: "glsurface.surface(" + script.Quote(s.opts.id) + ").showAlternative();"}
}

// ReportCapability delivers the browser's WebGL handshake. Only the first
// report counts. A failure while rendering on the client switches to the
// server when allowed, and to the alternative content otherwise; a success
// while rendering on the server switches to the client when allowed.
func (s *Surface) ReportCapability(ok bool) {
	if s.state == StateClosed || s.state == StateAlternative {
		return
	}
	if !s.handshake.Fire(ok) {
		s.log().Debug("glsurface: repeated capability report ignored", "surface", s.opts.id)
		return
	}
	if s.backend == nil {
		return
	}
	if r, isReporter := s.backend.(reporter); isReporter {
		r.Report(ok)
	}
	switch {
	case !ok && !s.onServer:
		if s.opts.render.AllowServer {
			err := s.use(s.opts.serverBackend, true)
			if err == nil {
				s.log().Warn("glsurface: no WebGL in browser, rendering on server", "surface", s.opts.id)
				return
			}
			s.log().Warn("glsurface: server backend unavailable", "surface", s.opts.id, "error", err)
		}
		s.fallBack()
	case ok && s.onServer && s.opts.render.AllowClient:
		if err := s.use(s.opts.clientBackend, false); err != nil {
			s.log().Warn("glsurface: client backend unavailable", "surface", s.opts.id, "error", err)
		}
	}
}

// LayoutSizeChanged records the pixel size laid out by the browser and
// schedules Resize when it changed.
func (s *Surface) LayoutSizeChanged(width, height int) {
	if width <= 0 || height <= 0 {
		s.log().Debug("glsurface: ignored empty layout size", "surface", s.opts.id, "width", width, "height", height)
		return
	}
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.pending |= RepaintResize
}

// SetVisible shows or hides the surface. Hidden surfaces defer their work
// until they are shown again.
func (s *Surface) SetVisible(visible bool) {
	s.visible = visible
}

// ContextLost records that the browser lost the WebGL context. Nothing is
// rendered until ContextRestored.
func (s *Surface) ContextLost() {
	if s.backend == nil || s.onServer {
		return
	}
	s.lost = true
	s.state = StateInitialized
	s.log().Info("glsurface: context lost", "surface", s.opts.id)
}

// ContextRestored invalidates every handle and schedules a full rerun of
// InitializeGL, ResizeGL and PaintGL. Handle ids are never reused, so
// stale handles kept by the scene fail instead of aliasing new objects.
func (s *Surface) ContextRestored() {
	if s.backend == nil || s.onServer {
		return
	}
	s.restart()
	s.log().Info("glsurface: context restored", "surface", s.opts.id, "released", len(s.released))
}

// Reconnect schedules a full resubmission on the current backend, for a
// browser that lost the page state, such as after a reload. A surface
// showing its alternative content sends it again at the next render.
func (s *Surface) Reconnect() {
	if s.state == StateAlternative {
		s.altShown = false
		return
	}
	if s.backend == nil {
		return
	}
	s.restart()
	s.log().Debug("glsurface: reconnected", "surface", s.opts.id)
}

func (s *Surface) restart() {
	s.released = append(s.released, s.rec.Reset()...)
	s.lost = false
	s.full = true
	s.paint = nil
	s.state = StateInitialized
}

// SyncValues folds the client's encoded value state into the shadows.
func (s *Surface) SyncValues(encoded string) error {
	if s.state == StateClosed {
		return ErrClosed
	}
	return s.rec.Values().Sync(encoded)
}

// ReplayPaint serves a repaint requested by the browser while rendering on
// the server: the last Paint buffer is rasterized again with the current
// shadows. Client rendering repaints in the browser, so the output is
// empty there.
func (s *Surface) ReplayPaint() (*Output, error) {
	switch {
	case s.state == StateClosed:
		return nil, ErrClosed
	case !s.onServer || s.backend == nil || !s.visible:
		return &Output{}, nil
	case s.full || s.pending != 0 || len(s.queued) > 0 || s.paint == nil:
		return s.Render()
	}
	return s.submit(&recording.Submission{Paint: s.paint})
}

// ResourceFailed logs a binary resource the browser could not load. Draws
// that need it are skipped; there is no retry.
func (s *Surface) ResourceFailed(handle string) {
	s.log().Warn("glsurface: resource failed to load", "surface", s.opts.id, "handle", handle)
}

// EnableClientErrorChecks turns the client's WebGL error checks on or off
// for phases submitted from now on. See WithClientErrorChecks.
func (s *Surface) EnableClientErrorChecks(enable bool) {
	s.opts.errorChecks = enable
	if c, ok := s.backend.(errorChecker); ok {
		c.EnableErrorChecks(enable)
	}
}

// ClientErrorChecks reports whether client error checks are enabled.
func (s *Surface) ClientErrorChecks() bool { return s.opts.errorChecks }

// ClientError logs a WebGL error the browser reported after call op.
func (s *Surface) ClientError(op string, code int) {
	s.log().Warn("glsurface: WebGL error", "surface", s.opts.id, "op", op, "code", code)
}

// SetMatrix4 assigns a client-resident matrix outside phase callbacks. The
// shadow changes immediately; the assignment reaches the client with the
// next Update submission.
func (s *Surface) SetMatrix4(m *resident.Matrix4, v mgl32.Mat4) error {
	if err := s.assign(m, v[:]); err != nil {
		return err
	}
	s.queued = append(s.queued, func(r *Recorder) { r.SetMatrix4(m, v) })
	return nil
}

// SetVector is SetMatrix4 for vectors.
func (s *Surface) SetVector(v *resident.Vector, data []float32) error {
	data = append([]float32(nil), data...)
	if err := s.assign(v, data); err != nil {
		return err
	}
	s.queued = append(s.queued, func(r *Recorder) { r.SetVector(v, data) })
	return nil
}

func (s *Surface) assign(v resident.Value, data []float32) error {
	if s.state == StateClosed {
		return ErrClosed
	}
	values := s.rec.Values()
	if err := values.Check(v); err != nil {
		return err
	}
	return values.Assign(v, data)
}

// Resource returns a pooled binary resource by handle.
func (s *Surface) Resource(handle string) (*recording.BinaryResource, bool) {
	return s.rec.Resources().Get(handle)
}

// ClearBinaryResources drops every pooled resource. Buffers that still
// reference them fail to load in the browser and their draws are skipped.
func (s *Surface) ClearBinaryResources() {
	s.rec.Resources().Clear()
}

// Close releases the backend. Later calls return ErrClosed.
func (s *Surface) Close() error {
	if s.state == StateClosed {
		return nil
	}
	var err error
	if s.backend != nil {
		err = s.backend.Release()
		s.backend = nil
	}
	s.state = StateClosed
	s.handshake.Fire(false)
	s.rec.Resources().Clear()
	if err != nil {
		return fmt.Errorf("glsurface: close: %w", err)
	}
	return nil
}

func (s *Surface) log() *slog.Logger { return Logger() }
