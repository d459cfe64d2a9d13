package script

import _ "embed"

//go:embed runtime.js
var runtime []byte

// Runtime returns the browser runtime that executes generated scripts. Hosts
// serve it once per page; it defines the global glsurface object.
func Runtime() []byte { return runtime }
