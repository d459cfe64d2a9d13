// Package web hosts glsurface surfaces in web pages.
//
// A Host is an http.Handler serving the browser runtime, the binary
// resources of its surfaces and one websocket per surface. The page embeds
// the fragment returned by Page; the runtime then connects the websocket,
// reports the WebGL handshake and layout changes as JSON events and runs
// the scripts the host pushes back.
//
//	h := web.NewHost()
//	h.Add(surface)
//	http.Handle("/", h)
//
// Events of one surface are applied one at a time, each followed by a
// render of the surface. Host.Do runs server-side changes, such as
// animation steps, under the same serialization.
//
// The alternative content shown by browsers that cannot render a surface
// is localized from the Accept-Language header with golang.org/x/text.
package web
