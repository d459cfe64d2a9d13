package glsurface

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gogpu/glsurface/recording"
	"github.com/gogpu/glsurface/recording/backends/raster"
	"github.com/gogpu/glsurface/recording/backends/script"
)

// RenderOptions selects the backends a surface may use. They are fixed at
// construction and at least one backend must be allowed.
type RenderOptions struct {
	// AllowClient permits rendering in the browser with WebGL.
	AllowClient bool
	// AllowServer permits server rasterization when the browser has no
	// WebGL.
	AllowServer bool
	// AntiAlias requests an anti-aliased context on either side.
	AntiAlias bool
}

// DefaultRenderOptions allows both backends with anti-aliasing.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{AllowClient: true, AllowServer: true, AntiAlias: true}
}

// Option configures a Surface during creation.
//
// Example:
//
//	// Client rendering only, no server fallback
//	s, err := glsurface.New(scene,
//	    glsurface.WithSize(640, 480),
//	    glsurface.WithRenderOptions(glsurface.RenderOptions{AllowClient: true}),
//	)
type Option func(*options)

// options holds the configuration collected from Options.
type options struct {
	id             string
	width, height  int
	render         RenderOptions
	clientCapable  bool
	device         string
	inlineLimit    int
	resourcePrefix string
	resourceURL    func(id, handle string) string
	fetch          recording.Fetcher
	clientBackend  string
	serverBackend  string
	errorChecks    bool
}

var surfaceSeq atomic.Uint64

// defaultOptions returns the defaults. Size has no default and must be set.
func defaultOptions() options {
	return options{
		id:             "gls" + strconv.FormatUint(surfaceSeq.Add(1), 10),
		render:         DefaultRenderOptions(),
		clientCapable:  true,
		inlineLimit:    recording.DefaultInlineLimit,
		resourcePrefix: "/resources",
		clientBackend:  script.Name,
		serverBackend:  raster.Name,
	}
}

// WithSize sets the pixel size of the surface. It is required.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width, o.height = width, height
	}
}

// WithID sets the element id of the surface in the page. By default a
// process-unique id is generated.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithRenderOptions restricts the backends the surface may use.
func WithRenderOptions(r RenderOptions) Option {
	return func(o *options) {
		o.render = r
	}
}

// WithClientCapable passes the host's guess whether the browser supports
// WebGL, typically derived from the user agent. It only steers the first
// backend selection; the capability handshake has the final word.
func WithClientCapable(ok bool) Option {
	return func(o *options) {
		o.clientCapable = ok
	}
}

// WithDevice names the native device used for server rendering, such as
// "software" or "opengl". Empty selects the default device.
func WithDevice(name string) Option {
	return func(o *options) {
		o.device = name
	}
}

// WithClientErrorChecks makes the client backend check for a WebGL error
// after every call. Errors are reported back and logged with
// Surface.ClientError. Checks slow the browser down; use them to debug.
func WithClientErrorChecks(enable bool) Option {
	return func(o *options) {
		o.errorChecks = enable
	}
}

// WithInlineLimit sets the element count above which uploads are served as
// binary resources instead of inlined into script. Zero or negative
// disables automatic externalization.
func WithInlineLimit(n int) Option {
	return func(o *options) {
		o.inlineLimit = n
	}
}

// WithResourcePrefix sets the URL prefix of the binary resource endpoint.
// Resources are addressed as prefix/surfaceID/handle.
func WithResourcePrefix(prefix string) Option {
	return func(o *options) {
		o.resourcePrefix = strings.TrimSuffix(prefix, "/")
	}
}

// WithResourceURL replaces the resource URL scheme entirely.
func WithResourceURL(fn func(surfaceID, handle string) string) Option {
	return func(o *options) {
		o.resourceURL = fn
	}
}

// WithFetcher sets how server rendering retrieves external URLs for
// CreateAndLoadArrayBuffer and TexImage2DURL. Without a fetcher such
// resources fail softly on the server.
func WithFetcher(f recording.Fetcher) Option {
	return func(o *options) {
		o.fetch = f
	}
}

// WithBackends overrides the registry names of the client and server
// backends.
func WithBackends(client, server string) Option {
	return func(o *options) {
		o.clientBackend, o.serverBackend = client, server
	}
}

// url returns the browser URL of a pooled resource.
func (o *options) url(handle string) string {
	if o.resourceURL != nil {
		return o.resourceURL(o.id, handle)
	}
	return o.resourcePrefix + "/" + o.id + "/" + handle
}
