// Package device defines the native GL devices the server backend renders
// with, and a registry to select one by name.
//
// A device executes recorded commands whose handles and values the backend
// has already resolved: object arguments arrive as native names, value
// expressions as literal floats and resources as decoded payloads. Devices
// register themselves in init():
//
//	func init() {
//	    device.Register("software", Open)
//	}
//
// The software device in internal/softgl is always available. A native
// OpenGL device is compiled in with the nativegl build tag.
package device

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/gogpu/glsurface/gl"
	"github.com/gogpu/glsurface/recording"
)

// DefaultName is the device used when none is configured.
const DefaultName = "software"

// NoLocation is returned by location queries that found nothing.
const NoLocation = ^uint32(0)

// ErrUnknownDevice is returned by Open for unregistered names.
var ErrUnknownDevice = errors.New("device: unknown device")

// Arg is a resolved command argument.
type Arg struct {
	Enum   gl.Enum
	Int    int64
	Float  float64
	Bool   bool
	Str    string
	Floats []float32
	Ints   []int32
	// Bytes holds externalized buffer data, already sliced.
	Bytes []byte
	// Name is the native object name of an object argument; zero is the
	// null object.
	Name  uint32
	Image *image.RGBA
}

// Device executes commands against a native context.
type Device interface {
	// Begin prepares a frame of the given size. Resources survive between
	// frames.
	Begin(width, height int) error

	// Create runs a creation or location query and returns the native name
	// (or NoLocation).
	Create(op recording.Opcode, args []Arg) (uint32, error)

	// Exec runs any other command. Commands the device cannot express
	// return an error wrapping recording.ErrUnsupported.
	Exec(op recording.Opcode, args []Arg) error

	// ReadPixels copies the default framebuffer into dst, top row first.
	ReadPixels(dst *image.RGBA) error

	// Release frees the context.
	Release() error
}

// Factory opens a device for a surface of the given size.
type Factory func(width, height int, antialias bool) (Device, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a device available by name. It panics if factory is nil
// or name is already registered.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if factory == nil {
		panic("device: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("device: Register called twice for " + name)
	}
	factories[name] = factory
}

// Open opens the named device. An empty name selects DefaultName.
func Open(name string, width, height int, antialias bool) (Device, error) {
	if name == "" {
		name = DefaultName
	}
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownDevice, name)
	}
	return f(width, height, antialias)
}

// Names returns the registered device names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
