// Package resident implements values that live in the browser between
// round trips: 4x4 matrices and fixed-length vectors.
//
// A value is created unbound, registered with one surface's Registry (which
// assigns its id and script name), initialized by a recorded assignment and
// then read by recorded commands. The server keeps a shadow copy of each
// value. Interaction handlers running in the browser may change the client
// copy; Registry.Sync folds those changes back into the shadows.
//
// # Symbolic Operations
//
// Matrices support a fixed set of deferred operations:
//
//	mv := camera.Multiply(model).Inverted().Transposed()
//
// The result is an expression sharing camera's identity. The client backend
// renders it as nested script calls evaluated in the browser; the server
// backend evaluates it against the shadow with Evaluate.
package resident
