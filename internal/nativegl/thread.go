//go:build nativegl

package nativegl

import (
	"runtime"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// call is one function queued for the GL thread.
type call struct {
	f    func()
	done chan struct{}
}

var (
	startOnce sync.Once
	startErr  error
	queue     chan call
)

// start launches the GL thread and initializes GLFW on it.
func start() error {
	startOnce.Do(func() {
		queue = make(chan call)
		ready := make(chan error)
		go func() {
			runtime.LockOSThread()
			if err := glfw.Init(); err != nil {
				ready <- err
				return
			}
			ready <- nil
			for c := range queue {
				c.f()
				close(c.done)
			}
		}()
		startErr = <-ready
	})
	return startErr
}

// run executes f on the GL thread and waits for it.
func run(f func()) {
	done := make(chan struct{})
	queue <- call{f: f, done: done}
	<-done
}
