package glsurface

import (
	"errors"

	"github.com/gogpu/glsurface/recording"
	"github.com/gogpu/glsurface/resident"
)

var (
	// ErrConfiguration is returned by New for invalid options: a missing or
	// non-positive size, or render options that allow no backend.
	ErrConfiguration = errors.New("glsurface: invalid configuration")

	// ErrBackendUnavailable is returned when no allowed backend can render
	// the surface. The browser shows the alternative content instead.
	ErrBackendUnavailable = errors.New("glsurface: no backend available")

	// ErrCapabilityPending is returned by Backend before the first render
	// selected one.
	ErrCapabilityPending = errors.New("glsurface: backend not selected yet")

	// ErrClosed is returned by operations on a closed surface.
	ErrClosed = errors.New("glsurface: surface is closed")
)

// Errors of the recording and resident packages, re-exported so callers can
// match them without importing those packages.
var (
	ErrNullHandle      = recording.ErrNullHandle
	ErrStaleHandle     = recording.ErrStaleHandle
	ErrForeignHandle   = recording.ErrForeignHandle
	ErrOutsidePhase    = recording.ErrOutsidePhase
	ErrBufferFinalized = recording.ErrBufferFinalized
	ErrBufferConsumed  = recording.ErrBufferConsumed
	ErrArgument        = recording.ErrArgument
	ErrResourceFetch   = recording.ErrResourceFetch
	ErrUnsupported     = recording.ErrUnsupported

	ErrUnboundValue = resident.ErrUnboundValue
	ErrForeignValue = resident.ErrForeignValue
	ErrValueLength  = resident.ErrValueLength
	ErrExpression   = resident.ErrExpression
)
