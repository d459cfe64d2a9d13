// Package event provides a single-fire notification used for the browser
// capability handshake and for context-loss recovery.
package event

import "sync"

// OneShot delivers one value exactly once. Fire after the first call is
// ignored until Reset re-arms the event. The zero value is not usable; use
// NewOneShot.
type OneShot[T any] struct {
	mu    sync.Mutex
	fired bool
	value T
	done  chan struct{}
}

// NewOneShot returns an armed event.
func NewOneShot[T any]() *OneShot[T] {
	return &OneShot[T]{done: make(chan struct{})}
}

// Fire delivers v and reports whether this call consumed the event.
func (e *OneShot[T]) Fire(v T) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fired {
		return false
	}
	e.fired = true
	e.value = v
	close(e.done)
	return true
}

// Value returns the delivered value and whether the event has fired.
func (e *OneShot[T]) Value() (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value, e.fired
}

// Fired reports whether the event has been consumed.
func (e *OneShot[T]) Fired() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fired
}

// Done returns a channel closed when the event fires.
func (e *OneShot[T]) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

// Reset re-arms a fired event. Channels returned by earlier Done calls stay
// closed.
func (e *OneShot[T]) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.fired {
		return
	}
	var zero T
	e.fired = false
	e.value = zero
	e.done = make(chan struct{})
}
