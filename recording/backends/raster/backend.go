package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // texture URLs
	"image/png"
	"strconv"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp" // texture URLs
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // texture URLs

	"github.com/gogpu/glsurface/device"
	"github.com/gogpu/glsurface/internal/logger"
	_ "github.com/gogpu/glsurface/internal/softgl" // default device
	"github.com/gogpu/glsurface/recording"
	"github.com/gogpu/glsurface/recording/backends/script"
	"github.com/gogpu/glsurface/resident"
)

// Name is the registry name of the server backend.
const Name = "raster"

// FramePrefix prefixes the resource handles of rendered frames.
const FramePrefix = "frame"

func init() {
	recording.Register(Name, func(cfg recording.BackendConfig) (recording.Backend, error) {
		return NewBackend(cfg)
	})
}

// errSkip marks a command whose payload is missing.
var errSkip = errors.New("raster: payload unavailable")

// Backend executes phase buffers on a device.Device and ships the result as
// PNG frames.
type Backend struct {
	cfg recording.BackendConfig
	w   *script.Writer

	mu       sync.Mutex
	dev      device.Device
	used     bool
	released bool
	objects  *recording.ObjectTable
	pool     *recording.ResourcePool
	names    map[recording.Object]uint32
	arrays   map[recording.Object][]byte
	failed   map[recording.Object]bool
	frame    string
}

var _ recording.Backend = (*Backend)(nil)

// NewBackend opens the device named by cfg.Device. A device that cannot be
// opened makes the server backend unavailable.
func NewBackend(cfg recording.BackendConfig) (*Backend, error) {
	dev, err := device.Open(cfg.Device, cfg.Width, cfg.Height, cfg.AntiAlias)
	if err != nil {
		return nil, fmt.Errorf("raster: %w", err)
	}
	b := &Backend{cfg: cfg, w: script.NewWriter(cfg), dev: dev}
	b.reset()
	return b, nil
}

func (b *Backend) reset() {
	b.names = make(map[recording.Object]uint32)
	b.arrays = make(map[recording.Object][]byte)
	b.failed = make(map[recording.Object]bool)
}

// Name implements recording.Backend.
func (b *Backend) Name() string { return Name }

// Capability implements recording.Backend. An opened device is always
// available.
func (b *Backend) Capability() recording.Capability {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return recording.CapabilityUnavailable
	}
	return recording.CapabilityAvailable
}

// Submit implements recording.Backend. A submission with a Paint buffer
// starts a new frame and returns it; other submissions only advance device
// state and forward client statements.
func (b *Backend) Submit(s *recording.Submission) (*recording.Output, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return nil, fmt.Errorf("raster: submit after release")
	}
	if s.Full && b.used {
		if err := b.reopen(); err != nil {
			return nil, err
		}
	}
	b.used = true
	if s.Objects != nil {
		b.objects = s.Objects
	}
	if s.Resources != nil {
		b.pool = s.Resources
	}
	for _, o := range s.Released {
		b.forget(o)
	}

	w, h := s.Width, s.Height
	if w <= 0 || h <= 0 {
		w, h = b.cfg.Width, b.cfg.Height
	}
	if s.Paint != nil {
		if err := b.dev.Begin(w, h); err != nil {
			return nil, fmt.Errorf("raster: begin frame: %w", err)
		}
	}

	var client strings.Builder
	for _, buf := range s.Buffers() {
		err := buf.Replay(func(c recording.Command) error {
			return b.execute(c, &client)
		})
		if err != nil {
			return nil, fmt.Errorf("raster: %s: %w", buf.Phase(), err)
		}
	}

	out := &recording.Output{}
	if s.Paint != nil {
		frame, err := b.capture(w, h)
		if err != nil {
			return nil, err
		}
		out.Frame = frame
	}
	if out.Frame == nil && client.Len() == 0 {
		return out, nil
	}
	out.Script = b.script(client.String(), out.Frame)

	logger.Get().Debug("raster: submission",
		"surface", b.cfg.SurfaceID, "full", s.Full, "frame", out.Frame != nil)
	return out, nil
}

// reopen replaces the device after a context recovery.
func (b *Backend) reopen() error {
	if err := b.dev.Release(); err != nil {
		logger.Get().Warn("raster: release device", "surface", b.cfg.SurfaceID, "err", err)
	}
	dev, err := device.Open(b.cfg.Device, b.cfg.Width, b.cfg.Height, b.cfg.AntiAlias)
	if err != nil {
		return fmt.Errorf("raster: reopen device: %w", err)
	}
	b.dev = dev
	b.reset()
	return nil
}

func (b *Backend) forget(o recording.Object) {
	delete(b.names, o)
	delete(b.arrays, o)
	delete(b.failed, o)
}

// execute runs one command. Client statements are appended to client.
func (b *Backend) execute(c recording.Command, client *strings.Builder) error {
	if c.Op.ClientOnly() {
		if c.Op == recording.OpInjectScript {
			logger.Get().Debug("raster: dropping injected script", "surface", b.cfg.SurfaceID)
			return nil
		}
		return b.w.Write(client, c)
	}
	for _, ab := range c.Requires {
		if b.failed[ab.Object] {
			logger.Get().Debug("raster: skipping command without payload",
				"surface", b.cfg.SurfaceID, "command", c.Op.String(), "buffer", ab.String())
			return nil
		}
	}
	if c.Op == recording.OpCreateArrayBuffer {
		b.load(c.Result, c.Args[0].Resource)
		return nil
	}

	args, err := b.convert(c.Args)
	if errors.Is(err, errSkip) {
		logger.Get().Debug("raster: skipping command without payload",
			"surface", b.cfg.SurfaceID, "command", c.Op.String())
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c.Op, err)
	}

	if !c.Result.IsNull() {
		n, err := b.dev.Create(c.Op, args)
		if err != nil {
			return b.soft(c, err)
		}
		b.names[c.Result] = n
		return nil
	}
	if err := b.dev.Exec(c.Op, args); err != nil {
		return b.soft(c, err)
	}
	if isDelete(c.Op) {
		b.forget(c.Args[0].Object)
	}
	return nil
}

// soft swallows unsupported commands so the rest of the frame renders.
func (b *Backend) soft(c recording.Command, err error) error {
	if errors.Is(err, recording.ErrUnsupported) {
		logger.Get().Debug("raster: unsupported command",
			"surface", b.cfg.SurfaceID, "command", c.String(), "err", err)
		return nil
	}
	return fmt.Errorf("%s: %w", c.Op, err)
}

func isDelete(op recording.Opcode) bool {
	switch op {
	case recording.OpDeleteBuffer, recording.OpDeleteFramebuffer, recording.OpDeleteProgram,
		recording.OpDeleteRenderbuffer, recording.OpDeleteShader, recording.OpDeleteTexture:
		return true
	}
	return false
}

// load obtains the payload of an array buffer. Failures are remembered so
// dependent commands skip.
func (b *Backend) load(o recording.Object, ref recording.ResourceRef) {
	data, err := b.payload(ref)
	if err != nil {
		logger.Get().Warn("raster: array buffer unavailable",
			"surface", b.cfg.SurfaceID, "buffer", o.String(), "err", err)
		b.failed[o] = true
		return
	}
	b.arrays[o] = data
	delete(b.failed, o)
}

// payload returns the bytes a reference points at, from the pool or the
// fetcher.
func (b *Backend) payload(ref recording.ResourceRef) ([]byte, error) {
	if ref.URL == "" {
		if b.pool != nil {
			if r, ok := b.pool.Get(ref.Handle); ok {
				return r.Payload, nil
			}
		}
		return nil, fmt.Errorf("%w: no resource %q", recording.ErrResourceFetch, ref.Handle)
	}
	if b.cfg.Fetch == nil {
		return nil, fmt.Errorf("%w: fetching disabled for %s", recording.ErrResourceFetch, ref.URL)
	}
	data, err := b.cfg.Fetch(context.Background(), ref.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", recording.ErrResourceFetch, ref.URL, err)
	}
	return data, nil
}

// convert translates recorded arguments into device arguments.
func (b *Backend) convert(in []recording.Arg) ([]device.Arg, error) {
	out := make([]device.Arg, len(in))
	for i, a := range in {
		switch a.Kind {
		case recording.ArgEnum:
			out[i].Enum = a.Enum
		case recording.ArgInt:
			out[i].Int = a.Int
		case recording.ArgFloat:
			out[i].Float = a.Float
		case recording.ArgBool:
			out[i].Bool = a.Bool
		case recording.ArgString:
			out[i].Str = a.Str
		case recording.ArgFloats:
			out[i].Floats = a.Floats
		case recording.ArgInts:
			out[i].Ints, out[i].Enum = a.Ints, a.ElemType
		case recording.ArgObject:
			if a.Object.Kind() == recording.KindArrayBuffer {
				data, err := b.slice(a.Object, a.Resource)
				if err != nil {
					return nil, err
				}
				out[i].Bytes = data
				continue
			}
			n, err := b.name(a.Object)
			if err != nil {
				return nil, err
			}
			out[i].Name = n
		case recording.ArgValue:
			v, err := evaluate(a.Value)
			if err != nil {
				return nil, err
			}
			out[i].Floats = v
		case recording.ArgResource:
			img, err := b.image(a.Resource)
			if err != nil {
				logger.Get().Warn("raster: texture unavailable",
					"surface", b.cfg.SurfaceID, "resource", a.String(), "err", err)
				return nil, errSkip
			}
			out[i].Image = img
		}
	}
	return out, nil
}

// name returns the native name of a handle. Null locations map to
// device.NoLocation, other null handles to zero.
func (b *Backend) name(o recording.Object) (uint32, error) {
	if o.IsNull() {
		switch o.Kind() {
		case recording.KindAttribLocation, recording.KindUniformLocation:
			return device.NoLocation, nil
		}
		return 0, nil
	}
	n, ok := b.names[o]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no native object", recording.ErrStaleHandle, o)
	}
	return n, nil
}

// slice returns the byte range of an array buffer a command reads.
func (b *Backend) slice(o recording.Object, ref recording.ResourceRef) ([]byte, error) {
	data, ok := b.arrays[o]
	if !ok {
		return nil, errSkip
	}
	end := len(data)
	if ref.Length > 0 {
		end = ref.Offset + ref.Length
	}
	if ref.Offset < 0 || ref.Offset > end || end > len(data) {
		return nil, fmt.Errorf("range %d+%d exceeds %s of %d bytes", ref.Offset, ref.Length, o, len(data))
	}
	return data[ref.Offset:end], nil
}

// image decodes a texture payload into RGBA.
func (b *Backend) image(ref recording.ResourceRef) (*image.RGBA, error) {
	data, err := b.payload(ref)
	if err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode texture: %w", err)
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba, nil
	}
	r := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst, nil
}

// evaluate returns the current components of a value, applying the pending
// operations of matrix expressions to the shadow.
func evaluate(v resident.Value) ([]float32, error) {
	switch v := v.(type) {
	case *resident.Matrix4:
		m, err := v.Evaluate()
		if err != nil {
			return nil, err
		}
		return m[:], nil
	case *resident.Vector:
		return v.Value(), nil
	}
	return nil, fmt.Errorf("raster: unsupported value %T", v)
}

// capture reads the framebuffer back and stores it as the surface's frame,
// replacing the previous one.
func (b *Backend) capture(w, h int) (*recording.BinaryResource, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := b.dev.ReadPixels(img); err != nil {
		return nil, fmt.Errorf("raster: read pixels: %w", err)
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("raster: encode frame: %w", err)
	}
	if b.pool == nil {
		b.pool = recording.NewResourcePool()
	}
	if b.frame != "" {
		b.pool.Remove(b.frame)
	}
	frame := b.pool.Add(FramePrefix, buf.Bytes(), recording.MimePNG)
	b.frame = frame.Handle
	return frame, nil
}

// script builds the browser side of a submission: image mode, forwarded
// client statements, a paintGL that asks the server to repaint and the new
// frame.
func (b *Backend) script(client string, frame *recording.BinaryResource) string {
	var sb strings.Builder
	sb.WriteString("(function(){var o=glsurface.surface(" + script.Quote(b.cfg.SurfaceID) + ");o.useImage();\n")
	if client != "" {
		sb.WriteString("(function(){var obj=o,ctx=null;\n")
		sb.WriteString(client)
		sb.WriteString("})();\n")
	}
	sb.WriteString("o.paintGL=function(){o.requestRepaint();};\n")
	if frame != nil {
		url := b.cfg.URL(recording.ResourceRef{Handle: frame.Handle})
		sb.WriteString("o.loadImage(" + script.Quote(url) + ");\n")
	}
	sb.WriteString("})();")
	return sb.String()
}

// Resolve implements recording.Backend. The reference is the decimal native
// name.
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
	n, ok := b.names[o]
	if !ok {
		return "", fmt.Errorf("%w: %s has no native object", recording.ErrStaleHandle, o)
	}
	return strconv.FormatUint(uint64(n), 10), nil
}

// Frame returns the handle of the most recent frame, or "" before the first
// paint.
func (b *Backend) Frame() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame
}

// Release implements recording.Backend.
func (b *Backend) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return nil
	}
	b.released = true
	if b.pool != nil && b.frame != "" {
		b.pool.Remove(b.frame)
	}
	return b.dev.Release()
}
