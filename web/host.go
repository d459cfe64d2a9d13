package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/text/language"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/internal/logger"
	"github.com/gogpu/glsurface/recording/backends/script"
)

const (
	wsReadBuffer   = 1024
	wsWriteBuffer  = 1024
	wsReadLimit    = 1 << 20
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 5 * time.Second
	wsPongTimeout  = 60 * time.Second
)

// ErrUnknownSurface is returned for surface ids the host does not serve.
var ErrUnknownSurface = errors.New("web: unknown surface")

// Event is one message from the browser runtime.
type Event struct {
	Type string `json:"type"`

	OK      bool   `json:"ok,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Visible bool   `json:"visible,omitempty"`
	Values  string `json:"values,omitempty"`
	Handle  string `json:"handle,omitempty"`
	URL     string `json:"url,omitempty"`
	Op      string `json:"op,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Event types sent by the browser runtime.
const (
	EventCapability      = "capability"
	EventContextLost     = "contextLost"
	EventContextRestored = "contextRestored"
	EventResize          = "resize"
	EventVisible         = "visible"
	EventValues          = "values"
	EventRepaint         = "repaint"
	EventResourceFailed  = "resourceFailed"
	EventGLError         = "glError"
)

// Message is one message to the browser runtime.
type Message struct {
	Type   string `json:"type"`
	Script string `json:"script"`
}

// Host serves surfaces over HTTP:
//
//	GET /glsurface.js                     browser runtime
//	GET /resources/{surface}/{handle}     binary resources and frames
//	GET /ws/{surface}                     event websocket
//
// Every event received on a surface's websocket is applied to the surface,
// which is then rendered; a non-empty output is pushed back as a script
// message. Events of one surface are serialized.
type Host struct {
	mux      *http.ServeMux
	upgrader websocket.Upgrader

	catalog *catalogSet

	mu       sync.Mutex
	surfaces map[string]*entry
}

// entry serializes access to one surface and owns its connection.
type entry struct {
	mu   sync.Mutex
	s    *glsurface.Surface
	conn *websocket.Conn
}

var _ http.Handler = (*Host)(nil)

// Option configures a Host.
type Option func(*Host)

// WithCheckOrigin sets the websocket origin check. By default, requests
// whose Origin does not match the Host header are rejected.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Host) {
		h.upgrader.CheckOrigin = fn
	}
}

// WithAlternative overrides the alternative content shown to browsers of
// language tag when no backend can render.
func WithAlternative(tag language.Tag, text string) Option {
	return func(h *Host) {
		h.catalog.set(tag, text)
	}
}

// NewHost returns a host serving no surfaces.
func NewHost(opts ...Option) *Host {
	h := &Host{
		mux: http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsReadBuffer,
			WriteBufferSize: wsWriteBuffer,
		},
		catalog:  newCatalogSet(),
		surfaces: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.mux.HandleFunc("GET /glsurface.js", h.serveRuntime)
	h.mux.HandleFunc("GET /resources/{surface}/{handle}", h.serveResource)
	h.mux.HandleFunc("GET /ws/{surface}", h.serveSocket)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Host) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Add serves s. Ids must be unique within the host.
func (h *Host) Add(s *glsurface.Surface) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, dup := h.surfaces[s.ID()]; dup {
		return fmt.Errorf("web: surface %q already added", s.ID())
	}
	h.surfaces[s.ID()] = &entry{s: s}
	return nil
}

// Remove stops serving a surface, closes its connection and the surface.
func (h *Host) Remove(id string) error {
	h.mu.Lock()
	e, ok := h.surfaces[id]
	delete(h.surfaces, id)
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSurface, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn != nil {
		_ = e.conn.Close()
		e.conn = nil
	}
	return e.s.Close()
}

// Close removes every surface.
func (h *Host) Close() error {
	var errs []error
	for _, id := range h.IDs() {
		if err := h.Remove(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IDs returns the served surface ids, sorted.
func (h *Host) IDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.surfaces))
	for id := range h.surfaces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (h *Host) entry(id string) (*entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.surfaces[id]
	return e, ok
}

// Do runs fn on the surface with events of the surface held off, then
// renders it and pushes the output to a connected browser. Use it for
// server-side changes such as animation steps.
func (h *Host) Do(id string, fn func(s *glsurface.Surface) error) error {
	e, ok := h.entry(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSurface, id)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn != nil {
		if err := fn(e.s); err != nil {
			return err
		}
	}
	if e.conn == nil {
		return nil
	}
	out, err := e.s.Render()
	if err != nil {
		return err
	}
	return e.push(out)
}

func (h *Host) serveRuntime(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	http.ServeContent(w, r, "glsurface.js", time.Time{}, bytes.NewReader(script.Runtime()))
}

func (h *Host) serveResource(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(r.PathValue("surface"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	e.mu.Lock()
	res, ok := e.s.Resource(r.PathValue("handle"))
	e.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", res.MimeType)
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(res.Payload))
}

func (h *Host) serveSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("surface")
	e, ok := h.entry(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Get().Debug("web: websocket upgrade failed", "surface", id, "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})

	e.attach(conn)
	defer e.detach(conn)

	stop := make(chan struct{})
	defer close(stop)
	go ping(conn, stop)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Get().Debug("web: websocket closed", "surface", id, "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			logger.Get().Warn("web: malformed event", "surface", id, "error", err)
			continue
		}
		e.handle(ev)
	}
}

func ping(conn *websocket.Conn, stop <-chan struct{}) {
	t := time.NewTicker(wsPingInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}

// attach makes conn the surface's connection and sends the full state. A
// previous connection, from an earlier page load, is closed.
func (e *entry) attach(conn *websocket.Conn) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn != nil {
		_ = e.conn.Close()
	}
	e.conn = conn
	if e.s.State() != glsurface.StateUnrendered {
		e.s.Reconnect()
	}
	e.render(nil)
}

func (e *entry) detach(conn *websocket.Conn) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn == conn {
		e.conn = nil
	}
}

// handle applies one event and pushes the resulting output.
func (e *entry) handle(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out, err := apply(e.s, ev)
	if err != nil {
		logger.Get().Warn("web: event failed", "surface", e.s.ID(), "event", ev.Type, "error", err)
	}
	e.render(out)
}

// render pushes out, if any, followed by the output of a render.
func (e *entry) render(out *glsurface.Output) {
	if err := e.push(out); err != nil {
		logger.Get().Debug("web: push failed", "surface", e.s.ID(), "error", err)
		return
	}
	next, err := e.s.Render()
	if err != nil {
		if !errors.Is(err, glsurface.ErrClosed) {
			logger.Get().Warn("web: render failed", "surface", e.s.ID(), "error", err)
		}
		return
	}
	if err := e.push(next); err != nil {
		logger.Get().Debug("web: push failed", "surface", e.s.ID(), "error", err)
	}
}

func (e *entry) push(out *glsurface.Output) error {
	if out == nil || out.Script == "" || e.conn == nil {
		return nil
	}
	_ = e.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return e.conn.WriteJSON(Message{Type: "script", Script: out.Script})
}

// apply delivers ev to s. Only a repaint request produces output of its
// own; every other event takes effect at the following render.
func apply(s *glsurface.Surface, ev Event) (*glsurface.Output, error) {
	switch ev.Type {
	case EventCapability:
		s.ReportCapability(ev.OK)
	case EventContextLost:
		s.ContextLost()
	case EventContextRestored:
		s.ContextRestored()
	case EventResize:
		s.LayoutSizeChanged(ev.Width, ev.Height)
	case EventVisible:
		s.SetVisible(ev.Visible)
	case EventValues:
		return nil, s.SyncValues(ev.Values)
	case EventRepaint:
		if err := s.SyncValues(ev.Values); err != nil {
			logger.Get().Debug("web: value sync failed", "surface", s.ID(), "error", err)
		}
		return s.ReplayPaint()
	case EventResourceFailed:
		s.ResourceFailed(ev.Handle)
	case EventGLError:
		s.ClientError(ev.Op, ev.Code)
	default:
		return nil, fmt.Errorf("web: unknown event %q", ev.Type)
	}
	return nil, nil
}
