package glsurface

import (
	"testing"

	"github.com/gogpu/glsurface/gl"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.render != DefaultRenderOptions() {
		t.Errorf("render = %+v, want %+v", o.render, DefaultRenderOptions())
	}
	if !o.clientCapable {
		t.Error("clientCapable = false, want true")
	}
	if o.clientBackend != "script" || o.serverBackend != "raster" {
		t.Errorf("backends = %q/%q, want script/raster", o.clientBackend, o.serverBackend)
	}
	if o.width != 0 || o.height != 0 {
		t.Errorf("size = %dx%d, want unset", o.width, o.height)
	}
}

func TestOptionsApply(t *testing.T) {
	o := defaultOptions()
	for _, opt := range []Option{
		WithSize(320, 200),
		WithID("view"),
		WithRenderOptions(RenderOptions{AllowServer: true}),
		WithClientCapable(false),
		WithDevice("opengl"),
		WithInlineLimit(16),
		WithBackends("a", "b"),
	} {
		opt(&o)
	}
	if o.width != 320 || o.height != 200 {
		t.Errorf("size = %dx%d, want 320x200", o.width, o.height)
	}
	if o.id != "view" {
		t.Errorf("id = %q, want view", o.id)
	}
	if o.render.AllowClient || !o.render.AllowServer {
		t.Errorf("render = %+v, want server only", o.render)
	}
	if o.clientCapable {
		t.Error("clientCapable = true, want false")
	}
	if o.device != "opengl" {
		t.Errorf("device = %q, want opengl", o.device)
	}
	if o.inlineLimit != 16 {
		t.Errorf("inlineLimit = %d, want 16", o.inlineLimit)
	}
	if o.clientBackend != "a" || o.serverBackend != "b" {
		t.Errorf("backends = %q/%q, want a/b", o.clientBackend, o.serverBackend)
	}
}

func TestInlineLimitReachesRecorder(t *testing.T) {
	s := newTestSurface(t, SceneFuncs{
		Paint: func(r *Recorder) {
			r.BufferDatafv(gl.ARRAY_BUFFER, []float32{1, 2, 3}, gl.STATIC_DRAW, false)
		},
	}, WithInlineLimit(2))
	render(t, s)

	if n := s.rec.Resources().Len(); n != 1 {
		t.Errorf("pooled resources = %d, want 1", n)
	}
}
