package recording

import "errors"

var (
	// ErrNullHandle is returned when a null handle is passed to an
	// operation that does not accept null.
	ErrNullHandle = errors.New("recording: null handle")

	// ErrStaleHandle is returned for handles that were released, or that
	// were never allocated by the table.
	ErrStaleHandle = errors.New("recording: stale handle")

	// ErrForeignHandle is returned when a handle allocated by one surface
	// is used by another.
	ErrForeignHandle = errors.New("recording: handle belongs to another surface")

	// ErrOutsidePhase is raised by Recorder methods called outside a phase
	// callback.
	ErrOutsidePhase = errors.New("recording: GL call outside a phase callback")

	// ErrBufferFinalized is returned when appending to a finalized buffer.
	ErrBufferFinalized = errors.New("recording: phase buffer is finalized")

	// ErrBufferBuilding is returned when replaying a buffer that is still
	// being recorded.
	ErrBufferBuilding = errors.New("recording: phase buffer is still building")

	// ErrBufferConsumed is returned when a one-shot buffer is replayed a
	// second time.
	ErrBufferConsumed = errors.New("recording: one-shot phase buffer already replayed")

	// ErrArgument is raised for literal arguments WebGL would reject, such
	// as arrays shorter than the call reads.
	ErrArgument = errors.New("recording: invalid argument")

	// ErrResourceFetch reports a binary payload that could not be obtained.
	// It is a soft failure: commands that need the payload are skipped.
	ErrResourceFetch = errors.New("recording: resource fetch failed")

	// ErrUnsupported is returned by backends for commands they cannot
	// realize.
	ErrUnsupported = errors.New("recording: operation not supported by backend")
)
