package script

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gogpu/glsurface/internal/logger"
	"github.com/gogpu/glsurface/recording"
)

// Name is the registry name of the client backend.
const Name = "script"

func init() {
	recording.Register(Name, func(cfg recording.BackendConfig) (recording.Backend, error) {
		return NewBackend(cfg), nil
	})
}

// Backend renders in the browser: every submission becomes a script that
// installs the phase functions on the surface runtime and runs them once
// the preloads finished.
//
// The capability stays pending until the host reports the outcome of the
// browser's WebGL handshake with Report.
type Backend struct {
	cfg recording.BackendConfig
	w   *Writer

	mu         sync.Mutex
	capability recording.Capability
	objects    *recording.ObjectTable
	released   bool
}

var _ recording.Backend = (*Backend)(nil)

// NewBackend returns a client backend for one surface.
func NewBackend(cfg recording.BackendConfig) *Backend {
	return &Backend{cfg: cfg, w: NewWriter(cfg)}
}

// Name implements recording.Backend.
func (b *Backend) Name() string { return Name }

// Capability implements recording.Backend.
func (b *Backend) Capability() recording.Capability {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capability
}

// Report records the outcome of the browser handshake.
func (b *Backend) Report(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ok {
		b.capability = recording.CapabilityAvailable
	} else {
		b.capability = recording.CapabilityUnavailable
	}
}

// Submit implements recording.Backend.
func (b *Backend) Submit(s *recording.Submission) (*recording.Output, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return nil, fmt.Errorf("script: submit after release")
	}
	b.objects = s.Objects

	var sb strings.Builder
	sb.WriteString("(function(){var o=glsurface.surface(" + Quote(b.cfg.SurfaceID) + ");\n")
	if len(s.Released) > 0 {
		names := make([]string, len(s.Released))
		for i, o := range s.Released {
			names[i] = Quote(o.String())
		}
		sb.WriteString("o.release([" + strings.Join(names, ",") + "]);\n")
	}
	if s.Full {
		b.w.Forget()
		sb.WriteString("if(!o.discoverContext(" + strconv.FormatBool(b.cfg.AntiAlias) + "))return;\n")
	}

	phases := []struct {
		buf        *recording.PhaseBuffer
		open, tail string
	}{
		{s.Initialize, "o.initializeGL=function(){var obj=o,ctx=o.ctx;\n", "};\no.initialized=false;\n"},
		{s.Update, "o.updates.push(function(){var obj=o,ctx=o.ctx;\n", "});\n"},
		{s.Resize, "o.resizeGL=function(){var obj=o,ctx=o.ctx;\n", "};\no.resizePending=true;\n"},
		{s.Paint, "o.paintGL=function(){var obj=o,ctx=o.ctx;if(!ctx)return;\n", "};\n"},
	}
	for _, p := range phases {
		if p.buf == nil {
			continue
		}
		sb.WriteString(p.open)
		err := p.buf.Replay(func(c recording.Command) error {
			return b.w.Write(&sb, c)
		})
		if err != nil {
			return nil, fmt.Errorf("script: %s: %w", p.buf.Phase(), err)
		}
		sb.WriteString(p.tail)
	}

	sb.WriteString("o.preload(" + preloadList(b.w.Preloads()) + ",function(){o.ready();});\n")
	sb.WriteString("})();")

	logger.Get().Debug("script: submission",
		"surface", b.cfg.SurfaceID, "full", s.Full, "bytes", sb.Len())
	return &recording.Output{Script: sb.String()}, nil
}

// Resolve implements recording.Backend.
func (b *Backend) Resolve(o recording.Object) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.objects != nil {
		if err := b.objects.Validate(o); err != nil {
			return "", err
		}
	} else if o.IsNull() {
		return "", recording.ErrNullHandle
	}
	return b.w.Object(o), nil
}

// EnableErrorChecks turns client error checks on or off. Phase functions
// already delivered to the browser keep the setting they were written with.
func (b *Backend) EnableErrorChecks(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.w.SetErrorChecks(on)
}

// Release implements recording.Backend.
func (b *Backend) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.released = true
	return nil
}

func preloadList(p []Preload) string {
	items := make([]string, len(p))
	for i, item := range p {
		items[i] = "[" + Quote(item.Key) + "," + Quote(item.URL) + "," + Quote(item.Kind) + "]"
	}
	return "[" + strings.Join(items, ",") + "]"
}
