package recording

import (
	"fmt"
	"sort"
	"sync"
)

// BackendFactory creates a backend for one surface.
type BackendFactory func(cfg BackendConfig) (Backend, error)

// Registry state, guarded by registryMu.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]BackendFactory)
)

// Register makes a backend factory available by name. It is called from
// init() in backend packages, following the database/sql driver pattern:
//
//	func init() {
//	    recording.Register(Name, func(cfg recording.BackendConfig) (recording.Backend, error) {
//	        return NewBackend(cfg), nil
//	    })
//	}
//
// Register panics if factory is nil or the name is already registered.
func Register(name string, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("recording: Register factory is nil")
	}
	if _, dup := backends[name]; dup {
		panic("recording: Register called twice for " + name)
	}
	backends[name] = factory
}

// Unregister removes a backend from the registry. It is mainly useful in
// tests. Unknown names are ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// NewBackend creates a backend by name. The error mentions a forgotten
// import when the name is not registered.
func NewBackend(name string, cfg BackendConfig) (Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("recording: unknown backend %q (forgotten import?)", name)
	}
	return factory(cfg)
}

// Backends returns the registered names, sorted.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}
