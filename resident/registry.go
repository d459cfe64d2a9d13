package resident

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Registry binds client-resident values to one surface. Ids are assigned
// from a single counter shared by matrices and vectors.
//
// Registry is not safe for concurrent use.
type Registry struct {
	next   int
	byName map[string]Value
	order  []Value
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Value)}
}

// Add registers v and assigns its id. Adding a value twice to the same
// registry is a no-op.
func (r *Registry) Add(v Value) error {
	b := v.state()
	if m, ok := v.(*Matrix4); ok && m.IsExpression() {
		return ErrExpression
	}
	switch b.reg {
	case r:
		return nil
	case nil:
	default:
		return fmt.Errorf("%w: %s", ErrForeignValue, b.name())
	}
	b.id = r.next
	b.reg = r
	r.next++
	r.byName[b.name()] = v
	r.order = append(r.order, v)
	return nil
}

// Check reports whether v may be read by commands recorded for this
// registry's surface. Matrix expressions also report their composition
// error.
func (r *Registry) Check(v Value) error {
	if m, ok := v.(*Matrix4); ok && m.err != nil {
		return m.err
	}
	b := v.state()
	switch {
	case b.reg == nil:
		return ErrUnboundValue
	case b.reg != r:
		return fmt.Errorf("%w: %s", ErrForeignValue, b.name())
	case !b.initialized:
		return fmt.Errorf("%w: %s used before initialization", ErrUnboundValue, b.name())
	}
	return nil
}

// Assign sets the shadow of v to data and marks it initialized. The value
// must be registered here and data must match its length.
func (r *Registry) Assign(v Value, data []float32) error {
	if m, ok := v.(*Matrix4); ok && m.IsExpression() {
		return ErrExpression
	}
	b := v.state()
	switch {
	case b.reg == nil:
		return ErrUnboundValue
	case b.reg != r:
		return fmt.Errorf("%w: %s", ErrForeignValue, b.name())
	case len(data) != b.n:
		return fmt.Errorf("%w: %s has %d components, got %d", ErrValueLength, b.name(), b.n, len(data))
	}
	copy(b.shadow, data)
	b.initialized = true
	b.undelivered = true
	return nil
}

// AssignMatrix4 is Assign for a matrix literal.
func (r *Registry) AssignMatrix4(m *Matrix4, v mgl32.Mat4) error {
	return r.Assign(m, v[:])
}

// Delivered records that every pending assignment has reached the client.
func (r *Registry) Delivered() {
	for _, v := range r.order {
		v.state().undelivered = false
	}
}

// Lookup returns the value registered under a script name such as
// "Matrix0".
func (r *Registry) Lookup(name string) (Value, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// Values returns the registered values in id order.
func (r *Registry) Values() []Value {
	return append([]Value(nil), r.order...)
}

// Len returns the number of registered values.
func (r *Registry) Len() int { return len(r.order) }

// Sync folds client values into the shadows. The encoding is a sequence of
// "name:v0,v1,...;" entries; numbers use JavaScript notation, including
// Infinity and -Infinity. Entries for values assigned on the server since
// the last delivery are ignored. Unknown names and malformed entries are
// reported after the remaining entries have been applied.
func (r *Registry) Sync(encoded string) error {
	var errs []error
	for _, entry := range strings.Split(encoded, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, list, ok := strings.Cut(entry, ":")
		if !ok {
			errs = append(errs, fmt.Errorf("resident: malformed entry %q", entry))
			continue
		}
		v, ok := r.byName[strings.TrimSpace(name)]
		if !ok {
			errs = append(errs, fmt.Errorf("resident: unknown value %q", name))
			continue
		}
		data, err := parseFloats(list)
		if err != nil {
			errs = append(errs, fmt.Errorf("resident: %s: %w", name, err))
			continue
		}
		b := v.state()
		if len(data) != b.n {
			errs = append(errs, fmt.Errorf("%w: %s has %d components, got %d", ErrValueLength, name, b.n, len(data)))
			continue
		}
		if b.undelivered {
			continue
		}
		copy(b.shadow, data)
		b.initialized = true
	}
	return errors.Join(errs...)
}

func parseFloats(list string) ([]float32, error) {
	fields := strings.Split(list, ",")
	out := make([]float32, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		x, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		out = append(out, float32(x))
	}
	return out, nil
}
