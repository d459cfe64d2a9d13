package recording

import "fmt"

// Phase is one of the four scene callbacks.
type Phase uint8

const (
	PhaseInitialize Phase = iota
	PhaseUpdate
	PhaseResize
	PhasePaint

	phaseCount
)

var phaseNames = [...]string{
	PhaseInitialize: "Initialize",
	PhaseUpdate:     "Update",
	PhaseResize:     "Resize",
	PhasePaint:      "Paint",
}

// String returns the phase name.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Unknown"
}

// Replayable reports whether a finalized buffer of this phase may be
// replayed more than once. Only Paint is; the other phases replay exactly
// once per rebuild.
func (p Phase) Replayable() bool { return p == PhasePaint }

// PhaseBuffer is the ordered command list recorded by one phase callback.
// It is appended to while building and immutable once finalized.
type PhaseBuffer struct {
	phase     Phase
	cmds      []Command
	finalized bool
	replays   int
}

// NewPhaseBuffer returns an empty building buffer.
func NewPhaseBuffer(p Phase) *PhaseBuffer {
	return &PhaseBuffer{phase: p}
}

// Phase returns the phase the buffer was recorded for.
func (b *PhaseBuffer) Phase() Phase { return b.phase }

// Len returns the number of commands.
func (b *PhaseBuffer) Len() int { return len(b.cmds) }

// Finalized reports whether recording has completed.
func (b *PhaseBuffer) Finalized() bool { return b.finalized }

// Replays returns how many times the buffer has been replayed.
func (b *PhaseBuffer) Replays() int { return b.replays }

// Commands returns the recorded commands. The slice must not be modified.
func (b *PhaseBuffer) Commands() []Command { return b.cmds }

// Append adds a command to a building buffer.
func (b *PhaseBuffer) Append(c Command) error {
	if b.finalized {
		return fmt.Errorf("%w: %s", ErrBufferFinalized, b.phase)
	}
	b.cmds = append(b.cmds, c)
	return nil
}

// Finalize ends recording. It is idempotent.
func (b *PhaseBuffer) Finalize() { b.finalized = true }

// Replay calls fn for each command in order. One-shot buffers may be
// replayed once; a second attempt returns ErrBufferConsumed without calling
// fn. Replay stops at the first error returned by fn.
func (b *PhaseBuffer) Replay(fn func(Command) error) error {
	if !b.finalized {
		return fmt.Errorf("%w: %s", ErrBufferBuilding, b.phase)
	}
	if b.replays > 0 && !b.phase.Replayable() {
		return fmt.Errorf("%w: %s", ErrBufferConsumed, b.phase)
	}
	b.replays++
	for _, c := range b.cmds {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}
