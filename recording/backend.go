package recording

import (
	"context"

	"github.com/gogpu/glsurface/resident"
)

// Capability is a backend's view of whether it can render.
type Capability uint8

const (
	// CapabilityPending means the outcome depends on a report that has not
	// arrived yet, such as the browser's WebGL handshake.
	CapabilityPending Capability = iota
	CapabilityAvailable
	CapabilityUnavailable
)

var capabilityNames = [...]string{
	CapabilityPending:     "Pending",
	CapabilityAvailable:   "Available",
	CapabilityUnavailable: "Unavailable",
}

// String returns the capability name.
func (c Capability) String() string {
	if int(c) < len(capabilityNames) {
		return capabilityNames[c]
	}
	return "Unknown"
}

// Submission hands finished phase buffers to a backend. Buffers that were
// not rebuilt for this submission are nil. A Full submission follows
// backend selection or context recovery and always carries Initialize.
type Submission struct {
	// Full is set when the receiver holds none of the surface's state: the
	// first submission, and those after context recovery or reconnection.
	Full bool

	// Width and Height are the current pixel size of the surface.
	Width, Height int

	// Phase buffers, nil when the phase was not rebuilt. Paint may be a
	// buffer that was already submitted; server backends replay it.
	Initialize *PhaseBuffer
	Update     *PhaseBuffer
	Resize     *PhaseBuffer
	Paint      *PhaseBuffer

	// Objects, Values and Resources are the surface's handle table, value
	// registry and binary resource pool.
	Objects   *ObjectTable
	Values    *resident.Registry
	Resources *ResourcePool

	// Released lists handles invalidated by context recovery.
	Released []Object
}

// Buffers returns the non-nil buffers in replay order: Initialize, Update,
// Resize, Paint.
func (s *Submission) Buffers() []*PhaseBuffer {
	var out []*PhaseBuffer
	for _, b := range []*PhaseBuffer{s.Initialize, s.Update, s.Resize, s.Paint} {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

// Output is what a backend produces for the host to deliver to the browser.
type Output struct {
	// Script is executed by the browser runtime. It is empty when nothing
	// needs to change on the client.
	Script string
	// Frame is the rasterized image of a server-side render, also stored in
	// the resource pool under Frame.Handle. Nil for client rendering.
	Frame *BinaryResource
}

// Fetcher retrieves an external payload by URL.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

// BackendConfig is passed to backend factories.
type BackendConfig struct {
	// SurfaceID names the surface in generated script and in logs.
	SurfaceID string

	// Width and Height are the pixel size at backend creation.
	Width, Height int

	// AntiAlias requests a multisampled context or anti-aliased coverage.
	AntiAlias bool

	// ErrorChecks makes client backends follow every WebGL call with a
	// getError check whose failures the browser reports back.
	ErrorChecks bool

	// Device names the native device used by server backends. Empty selects
	// the backend's default.
	Device string

	// ResourceURL maps a resource handle to the URL the browser fetches it
	// from.
	ResourceURL func(handle string) string

	// Fetch retrieves external URLs for server backends. Nil disables
	// external fetching; such resources then fail softly.
	Fetch Fetcher
}

// URL returns the browser URL of a resource reference.
func (c BackendConfig) URL(ref ResourceRef) string {
	if ref.URL != "" || c.ResourceURL == nil {
		return ref.URL
	}
	return c.ResourceURL(ref.Handle)
}

// Backend realizes phase buffers. A surface selects one backend at its
// first render and only replaces it when the capability handshake
// contradicts the selection.
//
// Backends are created via the registry using NewBackend(name) and
// registered via Register() in their init() functions.
type Backend interface {
	// Name returns the registry name of the backend.
	Name() string

	// Capability reports whether the backend can render.
	Capability() Capability

	// Submit replays the buffers of s in order and returns the output for
	// the browser. Buffers are replayed through PhaseBuffer.Replay, so the
	// one-shot policy is enforced.
	Submit(s *Submission) (*Output, error)

	// Resolve returns the backend reference of a live handle: a script
	// expression for the client backend, the native object name for the
	// server backend.
	Resolve(o Object) (string, error)

	// Release frees backend resources. The backend is unusable afterwards.
	Release() error
}
